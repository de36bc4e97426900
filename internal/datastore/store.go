package datastore

// KeyValueStore is the persistence primitive the core consumes from its
// environment: independent, non-transactional key writes.
type KeyValueStore interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) (string, bool, error)
	// Put writes value under key, overwriting any previous value.
	Put(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
