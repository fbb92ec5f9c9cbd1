// Package store holds the persistence-backed repositories for trackers,
// categories and completion records. All three share one mutex so that
// mutations and their change notifications never interleave; listeners
// run synchronously with the lock held and must not call back into the
// stores.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mytracker/trackers-api/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// ValidationError is raised before anything touches the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Stores bundles the three repositories over one database handle.
type Stores struct {
	Trackers   *TrackerStore
	Categories *CategoryStore
	Records    *RecordStore
}

// New wires the repositories together: tracker deletion purges records,
// category deletion cascades through trackers.
func New(db *gorm.DB) *Stores {
	mu := &sync.Mutex{}

	records := &RecordStore{db: db, mu: mu, subs: map[int]func(){}}
	trackers := &TrackerStore{db: db, mu: mu, records: records, subs: map[int]func([]models.TrackerSection){}}
	categories := &CategoryStore{db: db, mu: mu, trackers: trackers, subs: map[int]func([]models.Category){}}
	trackers.categories = categories

	return &Stores{Trackers: trackers, Categories: categories, Records: records}
}
