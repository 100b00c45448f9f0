// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

// EntryRepository defines the secondary port for entry persistence.
type EntryRepository interface {
	// Create assigns the next entry ID and position, persists the entry and
	// writes the allocated ID back into the record.
	Create(ctx context.Context, entry *EntryRecord) (int, error)

	// GetByID retrieves an entry by its ID.
	GetByID(ctx context.Context, id int) (*EntryRecord, error)

	// Update stores every column of an existing entry.
	Update(ctx context.Context, entry *EntryRecord) error

	// Delete removes an entry from persistence. Fields are not touched.
	Delete(ctx context.Context, id int) error

	// List retrieves entries matching the filter, ordered by position then
	// conditional position.
	List(ctx context.Context, filter EntryFilter) ([]*EntryRecord, error)

	// Count returns the number of entries matching the filter.
	Count(ctx context.Context, filter EntryFilter) (int, error)

	// ListWithoutParent retrieves the root, non-conditional entries of a resource.
	ListWithoutParent(ctx context.Context, resourceID int, resourceType string) ([]*EntryRecord, error)

	// GetConditional retrieves the conditional entry at the given order for a field.
	GetConditional(ctx context.Context, order, fieldID, resourceID int, resourceType string) (*EntryRecord, error)

	// DecrementConditionalPositions shifts down by one every conditional
	// position greater than order for entries depending on fieldID.
	DecrementConditionalPositions(ctx context.Context, order, fieldID, resourceID int, resourceType string) error

	// NextPosition returns the next root position of a resource.
	NextPosition(ctx context.Context, resourceID int, resourceType string) (int, error)

	// NextConditionalPosition returns the next conditional position for a field.
	NextConditionalPosition(ctx context.Context, fieldID int) (int, error)
}

// EntryRecord represents an entry as stored in persistence, with its entry
// type columns joined in.
type EntryRecord struct {
	ID            int
	ResourceID    int
	ResourceType  string
	TypeID        int
	ParentID      int // 0 for a root entry
	FieldDependID int // 0 when not conditional

	Title             string
	HelpMessage       string
	Comment           string
	Mandatory         bool
	FieldInLine       bool
	Position          int
	ConfirmField      bool
	ConfirmFieldTitle string
	Unique            bool
	MapProvider       string
	CSSClass          string
	ErrorMessage      string

	// Read only
	Type                       EntryTypeRecord
	NumberConditionalQuestions int
}

// EntryFilter selects entries. Zero values mean "any": IDs start at 1, so
// an ID of 0 never matches a stored row.
type EntryFilter struct {
	ResourceID    int
	ResourceType  string
	ParentID      int
	ParentIsNull  bool
	Group         *bool
	FieldDependID int
	// FieldDependIsNull keeps only non-conditional entries.
	FieldDependIsNull bool
	TypeID            int
	Comment           *bool
}

// FieldRepository defines the secondary port for field persistence.
type FieldRepository interface {
	// Create assigns the next field ID and position within its entry.
	Create(ctx context.Context, field *FieldRecord) (int, error)

	// GetByID retrieves a field by its ID.
	GetByID(ctx context.Context, id int) (*FieldRecord, error)

	// ListByEntry retrieves the fields of an entry ordered by position.
	ListByEntry(ctx context.Context, entryID int) ([]*FieldRecord, error)

	// Update stores an existing field.
	Update(ctx context.Context, field *FieldRecord) error

	// Delete removes a field.
	Delete(ctx context.Context, id int) error

	// DeleteByEntry removes every field of an entry.
	DeleteByEntry(ctx context.Context, entryID int) error
}

// FieldRecord represents a field as stored in persistence.
type FieldRecord struct {
	ID           int
	EntryID      int
	Title        string
	Value        string
	Width        int
	Height       int
	MaxSizeEnter int
	DefaultValue bool
	Position     int
	Comment      string
}

// EntryTypeRepository defines the secondary port for entry type lookups.
type EntryTypeRepository interface {
	// GetByID retrieves an entry type by its ID.
	GetByID(ctx context.Context, id int) (*EntryTypeRecord, error)

	// GetByClassName retrieves an entry type by its handler class name.
	GetByClassName(ctx context.Context, className string) (*EntryTypeRecord, error)

	// List retrieves every entry type ordered by ID.
	List(ctx context.Context) ([]*EntryTypeRecord, error)
}

// EntryTypeRecord represents an entry type as stored in persistence.
type EntryTypeRecord struct {
	ID        int
	Title     string
	Group     bool
	Comment   bool
	ClassName string
	UserOnly  bool
}
