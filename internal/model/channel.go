package model

// Channel is an entry of channels.list.
type Channel struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	IsChannel  bool     `json:"is_channel" yaml:"is_channel"`
	Created    int64    `json:"created" yaml:"created"`
	Creator    string   `json:"creator" yaml:"creator"`
	IsArchived bool     `json:"is_archived" yaml:"is_archived"`
	IsGeneral  bool     `json:"is_general" yaml:"is_general"`
	IsMember   bool     `json:"is_member" yaml:"is_member"`
	IsPrivate  bool     `json:"is_private" yaml:"is_private"`
	Members    []string `json:"members,omitempty" yaml:"members,omitempty"`
	Topic      Topic    `json:"topic" yaml:"topic"`
	Purpose    Topic    `json:"purpose" yaml:"purpose"`
	NumMembers int      `json:"num_members" yaml:"num_members"`
}

// Topic is a channel topic or purpose.
type Topic struct {
	Value   string `json:"value" yaml:"value"`
	Creator string `json:"creator" yaml:"creator"`
	LastSet int64  `json:"last_set" yaml:"last_set"`
}

// Message is the message echoed back by chat.postMessage.
type Message struct {
	Type     string `json:"type" yaml:"type"`
	Subtype  string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	BotID    string `json:"bot_id,omitempty" yaml:"bot_id,omitempty"`
	Text     string `json:"text" yaml:"text"`
	TS       string `json:"ts" yaml:"ts"`
}
