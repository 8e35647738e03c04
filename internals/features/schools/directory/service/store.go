// internals/features/schools/directory/service/store.go
package service

import (
	"context"
	"errors"
	"time"

	schoolModel "educa_backend/internals/features/schools/schools/model"
	studentModel "educa_backend/internals/features/schools/students/model"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidCapacity      = errors.New("school capacity must be >= 0")
	ErrMissingName          = errors.New("name is required")
	ErrInvalidStatus        = errors.New("invalid student status")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
)

// Store is the persistence boundary of the directory: two collections keyed by id plus
// two scalar flags (initialized, last backup).
type Store interface {
	IsInitialized(ctx context.Context) (bool, error)
	SetInitialized(ctx context.Context, v bool) error
	LastBackup(ctx context.Context) (*time.Time, error)
	SetLastBackup(ctx context.Context, at time.Time) error
	ClearLastBackup(ctx context.Context) error

	ListSchools(ctx context.Context) ([]schoolModel.SchoolModel, error)
	PutSchool(ctx context.Context, s schoolModel.SchoolModel) error
	PutSchools(ctx context.Context, s []schoolModel.SchoolModel) error
	DeleteSchool(ctx context.Context, id string) error

	ListStudents(ctx context.Context) ([]studentModel.StudentModel, error)
	PutStudent(ctx context.Context, s studentModel.StudentModel) error
	PutStudents(ctx context.Context, s []studentModel.StudentModel) error
	DeleteStudent(ctx context.Context, id string) error

	// Reseed replaces both collections with the given records, marks the store
	// initialized and clears the backup timestamp, atomically.
	Reseed(ctx context.Context, schools []schoolModel.SchoolModel, students []studentModel.StudentModel) error
	// Wipe removes every record and flag.
	Wipe(ctx context.Context) error
}
