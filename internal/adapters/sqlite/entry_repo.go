package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/example/genatt/internal/ports/secondary"
)

// insertMu serializes "read MAX+1, insert" within the process. Other
// processes writing the same database can still collide.
var insertMu sync.Mutex

// EntryRepository implements secondary.EntryRepository with SQLite.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new SQLite entry repository.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entrySelectCols = `ent.id_entry, ent.id_resource, ent.resource_type, ent.id_parent, ent.title, ent.help_message,
	ent.comment, ent.mandatory, ent.fields_in_line, ent.pos, ent.id_field_depend, ent.confirm_field,
	ent.confirm_field_title, ent.field_unique, ent.map_provider, ent.css_class, ent.pos_conditional, ent.error_message,
	typ.id_type, typ.title, typ.is_group, typ.is_comment, typ.class_name, typ.is_mylutece_user`

const entryFrom = ` FROM genatt_entry ent INNER JOIN genatt_entry_type typ ON ent.id_type = typ.id_type`

// scanEntry scans an entry row joined with its type into an EntryRecord.
func scanEntry(scanner interface {
	Scan(dest ...any) error
}) (*secondary.EntryRecord, error) {
	var (
		parentID          sql.NullInt64
		title             sql.NullString
		helpMessage       sql.NullString
		comment           sql.NullString
		pos               int
		fieldDependID     sql.NullInt64
		confirmFieldTitle sql.NullString
		mapProvider       sql.NullString
		cssClass          sql.NullString
		posConditional    int
		errorMessage      sql.NullString
	)

	record := &secondary.EntryRecord{}
	err := scanner.Scan(
		&record.ID, &record.ResourceID, &record.ResourceType, &parentID, &title, &helpMessage,
		&comment, &record.Mandatory, &record.FieldInLine, &pos, &fieldDependID, &record.ConfirmField,
		&confirmFieldTitle, &record.Unique, &mapProvider, &cssClass, &posConditional, &errorMessage,
		&record.Type.ID, &record.Type.Title, &record.Type.Group, &record.Type.Comment, &record.Type.ClassName, &record.Type.UserOnly,
	)
	if err != nil {
		return nil, err
	}

	record.TypeID = record.Type.ID
	record.ParentID = int(parentID.Int64)
	record.FieldDependID = int(fieldDependID.Int64)
	record.Title = title.String
	record.HelpMessage = helpMessage.String
	record.Comment = comment.String
	record.ConfirmFieldTitle = confirmFieldTitle.String
	record.MapProvider = mapProvider.String
	record.CSSClass = cssClass.String
	record.ErrorMessage = errorMessage.String

	record.Position = pos
	if posConditional > 0 {
		record.Position = posConditional
	}

	return record, nil
}

// Create persists a new entry with the next ID and position.
// A conditional entry gets pos 0 and the next conditional position of its
// field; any other entry gets the next position of its resource.
func (r *EntryRepository) Create(ctx context.Context, entry *secondary.EntryRecord) (int, error) {
	insertMu.Lock()
	defer insertMu.Unlock()

	var maxID int
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id_entry), 0) FROM genatt_entry").Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to get next entry ID: %w", err)
	}
	id := maxID + 1

	pos, posConditional := 0, 0
	if entry.FieldDependID == 0 {
		pos, err = r.NextPosition(ctx, entry.ResourceID, entry.ResourceType)
	} else {
		posConditional, err = r.NextConditionalPosition(ctx, entry.FieldDependID)
	}
	if err != nil {
		return 0, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO genatt_entry (id_entry, id_resource, resource_type, id_type, id_parent, title, help_message,
			comment, mandatory, fields_in_line, pos, id_field_depend, confirm_field, confirm_field_title,
			field_unique, map_provider, css_class, pos_conditional, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, entry.ResourceID, entry.ResourceType, entry.TypeID, nullID(entry.ParentID), nullString(entry.Title), nullString(entry.HelpMessage),
		nullString(entry.Comment), entry.Mandatory, entry.FieldInLine, pos, nullID(entry.FieldDependID), entry.ConfirmField, nullString(entry.ConfirmFieldTitle),
		entry.Unique, nullString(entry.MapProvider), nullString(entry.CSSClass), posConditional, nullString(entry.ErrorMessage),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create entry: %w", err)
	}

	entry.ID = id
	entry.Position = pos
	if entry.FieldDependID != 0 {
		entry.Position = posConditional
	}
	return id, nil
}

// NextPosition returns MAX(pos)+1 over the entries of a resource, or 1.
func (r *EntryRepository) NextPosition(ctx context.Context, resourceID int, resourceType string) (int, error) {
	var maxPos int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(pos), 0) FROM genatt_entry WHERE id_resource = ? AND resource_type = ?",
		resourceID, resourceType,
	).Scan(&maxPos)
	if err != nil {
		return 0, fmt.Errorf("failed to get next entry position: %w", err)
	}
	return maxPos + 1, nil
}

// NextConditionalPosition returns MAX(pos_conditional)+1 over the entries
// depending on fieldID, or 1.
func (r *EntryRepository) NextConditionalPosition(ctx context.Context, fieldID int) (int, error) {
	var maxPos int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(pos_conditional), 0) FROM genatt_entry WHERE id_field_depend = ?",
		fieldID,
	).Scan(&maxPos)
	if err != nil {
		return 0, fmt.Errorf("failed to get next conditional position: %w", err)
	}
	return maxPos + 1, nil
}

// GetByID retrieves an entry by its ID.
func (r *EntryRepository) GetByID(ctx context.Context, id int) (*secondary.EntryRecord, error) {
	record, err := scanEntry(r.db.QueryRowContext(ctx,
		"SELECT "+entrySelectCols+entryFrom+" WHERE ent.id_entry = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	if err := r.attachConditionalCounts(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update stores every column of an entry. A conditional entry keeps its
// position in pos_conditional with pos 0; any other entry the reverse.
func (r *EntryRepository) Update(ctx context.Context, entry *secondary.EntryRecord) error {
	pos, posConditional := entry.Position, 0
	if entry.FieldDependID != 0 {
		pos, posConditional = 0, entry.Position
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE genatt_entry SET id_resource = ?, resource_type = ?, id_type = ?, id_parent = ?, title = ?,
			help_message = ?, comment = ?, mandatory = ?, fields_in_line = ?, pos = ?, id_field_depend = ?,
			confirm_field = ?, confirm_field_title = ?, field_unique = ?, map_provider = ?, css_class = ?,
			pos_conditional = ?, error_message = ?
		WHERE id_entry = ?`,
		entry.ResourceID, entry.ResourceType, entry.TypeID, nullID(entry.ParentID), nullString(entry.Title),
		nullString(entry.HelpMessage), nullString(entry.Comment), entry.Mandatory, entry.FieldInLine, pos, nullID(entry.FieldDependID),
		entry.ConfirmField, nullString(entry.ConfirmFieldTitle), entry.Unique, nullString(entry.MapProvider), nullString(entry.CSSClass),
		posConditional, nullString(entry.ErrorMessage),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("entry %d %w", entry.ID, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes an entry from persistence.
func (r *EntryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM genatt_entry WHERE id_entry = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("entry %d %w", id, secondary.ErrNotFound)
	}

	return nil
}

// List retrieves entries matching the filter.
func (r *EntryRepository) List(ctx context.Context, filter secondary.EntryFilter) ([]*secondary.EntryRecord, error) {
	whereSQL, args := where(entryFilterClauses(filter))
	query := "SELECT " + entrySelectCols + entryFrom + whereSQL +
		" GROUP BY ent.id_entry ORDER BY ent.pos, ent.pos_conditional"

	return r.query(ctx, "list entries", query, args...)
}

// Count returns the number of entries matching the filter.
func (r *EntryRepository) Count(ctx context.Context, filter secondary.EntryFilter) (int, error) {
	whereSQL, args := where(entryFilterClauses(filter))

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT ent.id_entry)"+entryFrom+whereSQL, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// ListWithoutParent retrieves root, non-conditional entries ordered by position.
func (r *EntryRepository) ListWithoutParent(ctx context.Context, resourceID int, resourceType string) ([]*secondary.EntryRecord, error) {
	query := "SELECT " + entrySelectCols + entryFrom +
		` WHERE ent.id_parent IS NULL AND ent.id_resource = ? AND ent.resource_type = ? AND ent.id_field_depend IS NULL
		ORDER BY ent.pos`

	return r.query(ctx, "list root entries", query, resourceID, resourceType)
}

// GetConditional retrieves the entry at conditional position order among
// the entries of a resource that depend on fieldID.
func (r *EntryRepository) GetConditional(ctx context.Context, order, fieldID, resourceID int, resourceType string) (*secondary.EntryRecord, error) {
	record, err := scanEntry(r.db.QueryRowContext(ctx,
		"SELECT "+entrySelectCols+entryFrom+
			" WHERE ent.pos_conditional = ? AND ent.id_field_depend = ? AND ent.id_resource = ? AND ent.resource_type = ?",
		order, fieldID, resourceID, resourceType,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conditional entry %d of field %d %w", order, fieldID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conditional entry: %w", err)
	}

	if err := r.attachConditionalCounts(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DecrementConditionalPositions closes the gap left at order among the
// entries of a resource that depend on fieldID.
func (r *EntryRepository) DecrementConditionalPositions(ctx context.Context, order, fieldID, resourceID int, resourceType string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE genatt_entry SET pos_conditional = pos_conditional - 1
		WHERE pos_conditional > ? AND id_field_depend = ? AND id_resource = ? AND resource_type = ?`,
		order, fieldID, resourceID, resourceType,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement conditional positions: %w", err)
	}
	return nil
}

func (r *EntryRepository) query(ctx context.Context, op, query string, args ...any) ([]*secondary.EntryRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var entries []*secondary.EntryRecord
	for rows.Next() {
		record, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	rows.Close()

	// Counts are read after the rows are released: the pool holds one connection.
	if err := r.attachConditionalCounts(ctx, entries...); err != nil {
		return nil, err
	}
	return entries, nil
}

// attachConditionalCounts sets, for each entry, the number of entries that
// depend on one of its fields.
func (r *EntryRepository) attachConditionalCounts(ctx context.Context, entries ...*secondary.EntryRecord) error {
	for _, e := range entries {
		err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(e2.id_entry) FROM genatt_entry e2
			INNER JOIN genatt_field f ON e2.id_field_depend = f.id_field
			WHERE f.id_entry = ?`,
			e.ID,
		).Scan(&e.NumberConditionalQuestions)
		if err != nil {
			return fmt.Errorf("failed to count conditional questions: %w", err)
		}
	}
	return nil
}

// Ensure EntryRepository implements the interface
var _ secondary.EntryRepository = (*EntryRepository)(nil)
