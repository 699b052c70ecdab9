package model

// Icon is the image set Slack returns for a team.
type Icon struct {
	Image34       string `json:"image_34,omitempty" yaml:"image_34,omitempty"`
	Image44       string `json:"image_44,omitempty" yaml:"image_44,omitempty"`
	Image68       string `json:"image_68,omitempty" yaml:"image_68,omitempty"`
	Image88       string `json:"image_88,omitempty" yaml:"image_88,omitempty"`
	Image102      string `json:"image_102,omitempty" yaml:"image_102,omitempty"`
	Image132      string `json:"image_132,omitempty" yaml:"image_132,omitempty"`
	Image230      string `json:"image_230,omitempty" yaml:"image_230,omitempty"`
	ImageOriginal string `json:"image_original,omitempty" yaml:"image_original,omitempty"`
	ImageDefault  bool   `json:"image_default,omitempty" yaml:"image_default,omitempty"`
}

// Team is a snapshot of a Slack workspace.
type Team struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Domain      string `json:"domain" yaml:"domain"`
	EmailDomain string `json:"email_domain,omitempty" yaml:"email_domain,omitempty"`
	Icon        Icon   `json:"icon" yaml:"icon"`
}

// Profile is a user's profile as returned by users.info and users.profile.set.
type Profile struct {
	AvatarHash            string `json:"avatar_hash,omitempty" yaml:"avatar_hash,omitempty"`
	StatusText            string `json:"status_text" yaml:"status_text"`
	StatusEmoji           string `json:"status_emoji" yaml:"status_emoji"`
	StatusExpiration      int64  `json:"status_expiration" yaml:"status_expiration"`
	RealName              string `json:"real_name" yaml:"real_name"`
	DisplayName           string `json:"display_name" yaml:"display_name"`
	RealNameNormalized    string `json:"real_name_normalized,omitempty" yaml:"real_name_normalized,omitempty"`
	DisplayNameNormalized string `json:"display_name_normalized,omitempty" yaml:"display_name_normalized,omitempty"`
	Email                 string `json:"email,omitempty" yaml:"email,omitempty"`
	Team                  string `json:"team,omitempty" yaml:"team,omitempty"`
	Image24               string `json:"image_24,omitempty" yaml:"image_24,omitempty"`
	Image32               string `json:"image_32,omitempty" yaml:"image_32,omitempty"`
	Image48               string `json:"image_48,omitempty" yaml:"image_48,omitempty"`
	Image72               string `json:"image_72,omitempty" yaml:"image_72,omitempty"`
	Image192              string `json:"image_192,omitempty" yaml:"image_192,omitempty"`
	Image512              string `json:"image_512,omitempty" yaml:"image_512,omitempty"`
	ImageOriginal         string `json:"image_original,omitempty" yaml:"image_original,omitempty"`
}

// User is a snapshot of a Slack user profile.
type User struct {
	ID                string  `json:"id" yaml:"id"`
	TeamID            string  `json:"team_id" yaml:"team_id"`
	Name              string  `json:"name" yaml:"name"`
	Deleted           bool    `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Color             string  `json:"color,omitempty" yaml:"color,omitempty"`
	RealName          string  `json:"real_name,omitempty" yaml:"real_name,omitempty"`
	TZ                string  `json:"tz,omitempty" yaml:"tz,omitempty"`
	TZLabel           string  `json:"tz_label,omitempty" yaml:"tz_label,omitempty"`
	TZOffset          int     `json:"tz_offset,omitempty" yaml:"tz_offset,omitempty"`
	Profile           Profile `json:"profile" yaml:"profile"`
	IsAdmin           bool    `json:"is_admin,omitempty" yaml:"is_admin,omitempty"`
	IsOwner           bool    `json:"is_owner,omitempty" yaml:"is_owner,omitempty"`
	IsPrimaryOwner    bool    `json:"is_primary_owner,omitempty" yaml:"is_primary_owner,omitempty"`
	IsRestricted      bool    `json:"is_restricted,omitempty" yaml:"is_restricted,omitempty"`
	IsUltraRestricted bool    `json:"is_ultra_restricted,omitempty" yaml:"is_ultra_restricted,omitempty"`
	IsBot             bool    `json:"is_bot,omitempty" yaml:"is_bot,omitempty"`
	IsAppUser         bool    `json:"is_app_user,omitempty" yaml:"is_app_user,omitempty"`
	Updated           int64   `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Identity is a completed OAuth grant: one user on one team holding a token.
//
// Token is persisted but must never be rendered. Presentation code works on
// the value returned by Redacted.
type Identity struct {
	User  User   `json:"user" yaml:"user"`
	Team  Team   `json:"team" yaml:"team"`
	Token string `json:"token" yaml:"-"`
}

// IdentityKey is the uniqueness key of an Identity.
type IdentityKey struct {
	UserID string
	TeamID string
}

// Key returns the (user, team) pair identifying the grant.
func (i Identity) Key() IdentityKey {
	return IdentityKey{UserID: i.User.ID, TeamID: i.Team.ID}
}

// Clone returns a deep copy. User and Team hold only value fields, so a
// struct copy is already independent of the original.
func (i Identity) Clone() Identity {
	c := i
	return c
}

// Redacted returns a copy safe to render.
func (i Identity) Redacted() Identity {
	c := i.Clone()
	c.Token = ""

	return c
}

// DisplayName picks the most human name available for the user.
func (i Identity) DisplayName() string {
	switch {
	case i.User.Profile.DisplayName != "":
		return i.User.Profile.DisplayName
	case i.User.Profile.RealName != "":
		return i.User.Profile.RealName
	case i.User.RealName != "":
		return i.User.RealName
	default:
		return i.User.Name
	}
}
