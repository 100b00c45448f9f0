package primary

import (
	"context"
	"net/url"

	"github.com/example/genatt/internal/models"
)

// EntryService defines the primary port for entry configuration.
type EntryService interface {
	// CreateEntry parses an admin form with the handler of the requested
	// type and stores the new entry with its fields.
	// A rejected form is returned as *entrytype.AdminMessage.
	CreateEntry(ctx context.Context, req CreateEntryRequest) (*CreateEntryResponse, error)

	// UpdateEntry re-parses an admin form over an existing entry.
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) error

	// GetEntry retrieves an entry with its type, fields and children.
	GetEntry(ctx context.Context, entryID int) (*models.Entry, error)

	// ListEntries lists entries with optional filters.
	ListEntries(ctx context.Context, filters EntryFilters) ([]*models.Entry, error)

	// CountEntries counts entries with optional filters.
	CountEntries(ctx context.Context, filters EntryFilters) (int, error)

	// ListRootEntries lists the top-level, unconditional entries of a resource
	// with their fields loaded.
	ListRootEntries(ctx context.Context, resourceID int, resourceType string) ([]*models.Entry, error)

	// GetConditionalEntry retrieves the conditional entry at order among
	// those depending on a field.
	GetConditionalEntry(ctx context.Context, fieldID, order, resourceID int, resourceType string) (*models.Entry, error)

	// DeleteEntry deletes an entry and its fields.
	// If force is true, deletes even if other entries depend on it.
	DeleteEntry(ctx context.Context, entryID int, force bool) error

	// CopyEntry duplicates an entry and its fields at the end of its resource.
	CopyEntry(ctx context.Context, entryID int, locale string) (*models.Entry, error)

	// MoveConditionalEntry swaps a conditional entry with its neighbour.
	MoveConditionalEntry(ctx context.Context, entryID int, direction string) error

	// ListEntryTypes lists the available entry types.
	ListEntryTypes(ctx context.Context) ([]*models.EntryType, error)
}

// CreateEntryRequest contains parameters for creating an entry.
type CreateEntryRequest struct {
	ResourceID    int
	ResourceType  string
	TypeID        int
	ParentID      int // Optional - group containing the entry
	FieldDependID int // Optional - field the entry is conditional on
	Form          url.Values
	Locale        string
}

// CreateEntryResponse contains the result of creating an entry.
type CreateEntryResponse struct {
	EntryID int
	Entry   *models.Entry
}

// UpdateEntryRequest contains parameters for updating an entry.
type UpdateEntryRequest struct {
	EntryID int
	Form    url.Values
	Locale  string
}

// EntryFilters contains filter options for listing entries.
// Zero IDs and nil flags do not filter.
type EntryFilters struct {
	ResourceID        int
	ResourceType      string
	ParentID          int
	RootOnly          bool
	FieldDependID     int
	UnconditionalOnly bool
	TypeID            int
	Group             *bool
	Comment           *bool
}
