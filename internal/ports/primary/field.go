package primary

import (
	"context"

	"github.com/example/genatt/internal/models"
)

// FieldService defines the primary port for the fields of an entry.
type FieldService interface {
	// AddField appends a field to an entry.
	AddField(ctx context.Context, req AddFieldRequest) (*models.Field, error)

	// RemoveField deletes a field.
	RemoveField(ctx context.Context, fieldID int) error

	// ListFields lists the fields of an entry in order.
	ListFields(ctx context.Context, entryID int) ([]*models.Field, error)
}

// AddFieldRequest contains parameters for adding a field.
type AddFieldRequest struct {
	EntryID      int
	Title        string
	Value        string
	Comment      string
	DefaultValue bool
}
