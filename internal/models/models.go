// package models defines the data model for the steam achievement exporter
package models

import (
	"time"
)

// Model is a persisted record. [ExportJob] is the only implementation.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	// Validate reports the first invalid field, if any.
	Validate() error
}

// Repository is the CRUD surface a store offers for one [Model] type.
//
// List criteria keys are store specific; unknown keys are ignored.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
