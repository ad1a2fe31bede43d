package store

import (
	"context"

	"schooldirectory/pkg/domain"
)

// Store defines persistence operations for school records.
type Store interface {
	// SaveSchool inserts a new record and returns it with the
	// store-assigned id filled in.
	SaveSchool(ctx context.Context, school domain.School) (domain.School, error)
	// ListSchools returns every record ordered by id ascending.
	ListSchools(ctx context.Context) ([]domain.School, error)
	// GetSchool retrieves a record by id.
	GetSchool(ctx context.Context, id int64) (domain.School, bool, error)
}
