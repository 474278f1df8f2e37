package storage

// Keys owned by the session store.
const (
	TokenKey = "token"
	RoleKey  = "role"
)

// Repo is a durable string key-value store that survives restarts.
// Absence of a key is a valid state and is reported through ok, not err.
type Repo interface {
	// Get returns the value stored under key
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error
}
