package store

// Key is a persistence key. Keys are only built in this file.
type Key string

const (
	keyApplications Key = "application"
	keyIdentities   Key = "identities"
)

func historyKey(userID string) Key {
	return Key("user:" + userID + ".history")
}
