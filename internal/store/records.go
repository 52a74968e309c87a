package store

import "context"

// Record keys. They match the keys used by the browser client so that data
// can be moved between the two without renaming.
const (
	KeyCards   = "luso_cards"
	KeyUser    = "luso_user"
	KeyFolders = "luso_folders"
)

// Keys lists every record that makes up the application state.
var Keys = []string{KeyCards, KeyUser, KeyFolders}

// Record is one named JSON document.
type Record struct {
	Key   string
	Value []byte
}

// RecordStore persists named JSON records.
//
// Implementations must apply PutAll atomically: after a failed call every
// record still holds its previous value.
type RecordStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// PutAll writes every record in one transaction.
	PutAll(ctx context.Context, records []Record) error

	// Close releases the underlying connection.
	Close() error
}
