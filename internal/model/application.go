package model

// Application is a registered Slack app credential pair plus a display label.
// ClientID is the unique key; Name is not unique.
type Application struct {
	Name         string `json:"name" yaml:"name"`
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"-"`
}

// Key returns the uniqueness key of the application.
func (a Application) Key() string {
	return a.ClientID
}
