package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/genatt/internal/ports/secondary"
)

// FieldRepository implements secondary.FieldRepository with SQLite.
type FieldRepository struct {
	db *sql.DB
}

// NewFieldRepository creates a new SQLite field repository.
func NewFieldRepository(db *sql.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

const fieldSelectCols = "id_field, id_entry, title, value, width, height, max_size_enter, default_value, pos, comment"

func scanField(scanner interface {
	Scan(dest ...any) error
}) (*secondary.FieldRecord, error) {
	var title, value, comment sql.NullString

	record := &secondary.FieldRecord{}
	err := scanner.Scan(&record.ID, &record.EntryID, &title, &value, &record.Width, &record.Height,
		&record.MaxSizeEnter, &record.DefaultValue, &record.Position, &comment)
	if err != nil {
		return nil, err
	}

	record.Title = title.String
	record.Value = value.String
	record.Comment = comment.String
	return record, nil
}

// Create persists a new field at the end of its entry's field list.
func (r *FieldRepository) Create(ctx context.Context, field *secondary.FieldRecord) (int, error) {
	insertMu.Lock()
	defer insertMu.Unlock()

	var maxID, maxPos int
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id_field), 0) FROM genatt_field").Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to get next field ID: %w", err)
	}
	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(pos), 0) FROM genatt_field WHERE id_entry = ?", field.EntryID,
	).Scan(&maxPos)
	if err != nil {
		return 0, fmt.Errorf("failed to get next field position: %w", err)
	}

	id, pos := maxID+1, maxPos+1
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO genatt_field (id_field, id_entry, title, value, width, height, max_size_enter, default_value, pos, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, field.EntryID, nullString(field.Title), nullString(field.Value), field.Width, field.Height,
		field.MaxSizeEnter, field.DefaultValue, pos, nullString(field.Comment),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create field: %w", err)
	}

	field.ID = id
	field.Position = pos
	return id, nil
}

// GetByID retrieves a field by its ID.
func (r *FieldRepository) GetByID(ctx context.Context, id int) (*secondary.FieldRecord, error) {
	record, err := scanField(r.db.QueryRowContext(ctx,
		"SELECT "+fieldSelectCols+" FROM genatt_field WHERE id_field = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("field %d %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	return record, nil
}

// ListByEntry retrieves the fields of an entry ordered by position.
func (r *FieldRepository) ListByEntry(ctx context.Context, entryID int) ([]*secondary.FieldRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+fieldSelectCols+" FROM genatt_field WHERE id_entry = ? ORDER BY pos, id_field", entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var fields []*secondary.FieldRecord
	for rows.Next() {
		record, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, record)
	}
	return fields, rows.Err()
}

// Update stores an existing field.
func (r *FieldRepository) Update(ctx context.Context, field *secondary.FieldRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE genatt_field SET id_entry = ?, title = ?, value = ?, width = ?, height = ?, max_size_enter = ?,
			default_value = ?, pos = ?, comment = ?
		WHERE id_field = ?`,
		field.EntryID, nullString(field.Title), nullString(field.Value), field.Width, field.Height, field.MaxSizeEnter,
		field.DefaultValue, field.Position, nullString(field.Comment),
		field.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update field: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("field %d %w", field.ID, secondary.ErrNotFound)
	}
	return nil
}

// Delete removes a field.
func (r *FieldRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM genatt_field WHERE id_field = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("field %d %w", id, secondary.ErrNotFound)
	}
	return nil
}

// DeleteByEntry removes every field of an entry.
func (r *FieldRepository) DeleteByEntry(ctx context.Context, entryID int) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM genatt_field WHERE id_entry = ?", entryID); err != nil {
		return fmt.Errorf("failed to delete fields of entry %d: %w", entryID, err)
	}
	return nil
}

// Ensure FieldRepository implements the interface
var _ secondary.FieldRepository = (*FieldRepository)(nil)
