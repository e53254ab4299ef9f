package inventory

import (
	"errors"

	"github.com/matthieukhl/stockpilot/internal/database"
)

var (
	// ErrNotFound means the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness rule would be violated
	ErrConflict = errors.New("already exists")
	// ErrInvalidReference means a referenced parent row does not exist
	ErrInvalidReference = errors.New("referenced row does not exist")
	// ErrInvalidValue means a field value is out of range
	ErrInvalidValue = errors.New("invalid field value")
	// ErrProtected means the row is protected from deletion or demotion
	ErrProtected = errors.New("protected row")
)

// Store runs the inventory CRUD queries
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}
