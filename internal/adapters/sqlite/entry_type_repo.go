package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/genatt/internal/ports/secondary"
)

// EntryTypeRepository implements secondary.EntryTypeRepository with SQLite.
type EntryTypeRepository struct {
	db *sql.DB
}

// NewEntryTypeRepository creates a new SQLite entry type repository.
func NewEntryTypeRepository(db *sql.DB) *EntryTypeRepository {
	return &EntryTypeRepository{db: db}
}

const entryTypeSelect = "SELECT id_type, title, is_group, is_comment, class_name, is_mylutece_user FROM genatt_entry_type"

func scanEntryType(scanner interface {
	Scan(dest ...any) error
}) (*secondary.EntryTypeRecord, error) {
	record := &secondary.EntryTypeRecord{}
	err := scanner.Scan(&record.ID, &record.Title, &record.Group, &record.Comment, &record.ClassName, &record.UserOnly)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetByID retrieves an entry type by its ID.
func (r *EntryTypeRepository) GetByID(ctx context.Context, id int) (*secondary.EntryTypeRecord, error) {
	record, err := scanEntryType(r.db.QueryRowContext(ctx, entryTypeSelect+" WHERE id_type = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry type %d %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry type: %w", err)
	}
	return record, nil
}

// GetByClassName retrieves an entry type by its handler class name.
func (r *EntryTypeRepository) GetByClassName(ctx context.Context, className string) (*secondary.EntryTypeRecord, error) {
	record, err := scanEntryType(r.db.QueryRowContext(ctx, entryTypeSelect+" WHERE class_name = ?", className))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry type %s %w", className, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry type: %w", err)
	}
	return record, nil
}

// List retrieves every entry type ordered by ID.
func (r *EntryTypeRepository) List(ctx context.Context) ([]*secondary.EntryTypeRecord, error) {
	rows, err := r.db.QueryContext(ctx, entryTypeSelect+" ORDER BY id_type")
	if err != nil {
		return nil, fmt.Errorf("failed to list entry types: %w", err)
	}
	defer rows.Close()

	var types []*secondary.EntryTypeRecord
	for rows.Next() {
		record, err := scanEntryType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry type: %w", err)
		}
		types = append(types, record)
	}
	return types, rows.Err()
}

// Ensure EntryTypeRepository implements the interface
var _ secondary.EntryTypeRepository = (*EntryTypeRepository)(nil)
