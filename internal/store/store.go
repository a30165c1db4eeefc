// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"errors"
)

// Sentinel errors surfaced to handlers, which map them onto the HTTP
// status taxonomy.
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrSeriesNotFound       = errors.New("series not found")
	ErrChapterNotFound      = errors.New("chapter not found")
	ErrStoryNotFound        = errors.New("story not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
