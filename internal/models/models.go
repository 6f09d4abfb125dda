// package models defines the data model for the print export pipeline
package models

import (
	"time"
)

// Model is a record kept in the job store.
type Model interface {
	ID() string           // ID is the job ID the record is addressed by
	CreatedAt() time.Time // CreatedAt is when the export was requested
	UpdatedAt() time.Time // UpdatedAt is when progress or state last changed
	Validate() error      // Validate rejects records that must not be stored
}

// Repository stores records of one kind.
//
// The SQLite job store implements it for [ExportJob]; List criteria are implementation specific.
type Repository[T Model] interface {
	Create(model T) error                      // Create stores a new record, assigning an ID when empty
	Get(id string) (T, error)                  // Get loads the record with the given ID
	Update(model T) error                      // Update rewrites a stored record
	Delete(id string) error                    // Delete removes a record
	List(criteria map[string]any) ([]T, error) // List returns the records matching criteria
}
