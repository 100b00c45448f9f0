package app

import (
	"context"
	"fmt"

	coreentry "github.com/example/genatt/internal/core/entry"
	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/ports/secondary"
)

// FieldServiceImpl implements the FieldService interface.
type FieldServiceImpl struct {
	fieldRepo secondary.FieldRepository
	entryRepo secondary.EntryRepository
}

// NewFieldService creates a new FieldService with injected dependencies.
func NewFieldService(fieldRepo secondary.FieldRepository, entryRepo secondary.EntryRepository) *FieldServiceImpl {
	return &FieldServiceImpl{
		fieldRepo: fieldRepo,
		entryRepo: entryRepo,
	}
}

// AddField appends a field to an entry.
func (s *FieldServiceImpl) AddField(ctx context.Context, req primary.AddFieldRequest) (*models.Field, error) {
	entry, err := s.entryRepo.GetByID(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}

	guardCtx := coreentry.FieldContext{
		EntryID:   entry.ID,
		IsGroup:   entry.Type.Group,
		IsComment: entry.Type.Comment,
	}
	if err := coreentry.CanAddField(guardCtx).Error(); err != nil {
		return nil, err
	}

	field := models.NewField()
	field.EntryID = req.EntryID
	field.Title = req.Title
	field.Value = req.Value
	field.Comment = req.Comment
	field.DefaultValue = req.DefaultValue

	record := fieldToRecord(field)
	if _, err := s.fieldRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add field: %w", err)
	}
	return recordToField(record), nil
}

// RemoveField deletes a field. Fields that conditional entries depend on
// are kept.
func (s *FieldServiceImpl) RemoveField(ctx context.Context, fieldID int) error {
	field, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		return err
	}

	dependents, err := s.entryRepo.Count(ctx, secondary.EntryFilter{FieldDependID: field.ID})
	if err != nil {
		return fmt.Errorf("failed to count conditional entries: %w", err)
	}
	guardCtx := coreentry.RemoveFieldContext{FieldID: field.ID, DependentCount: dependents}
	if err := coreentry.CanRemoveField(guardCtx).Error(); err != nil {
		return err
	}

	return s.fieldRepo.Delete(ctx, field.ID)
}

// ListFields lists the fields of an entry in order.
func (s *FieldServiceImpl) ListFields(ctx context.Context, entryID int) ([]*models.Field, error) {
	records, err := s.fieldRepo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}

	fields := make([]*models.Field, len(records))
	for i, r := range records {
		fields[i] = recordToField(r)
	}
	return fields, nil
}

// Ensure FieldServiceImpl implements the interface
var _ primary.FieldService = (*FieldServiceImpl)(nil)
