package app

import (
	"context"
	"errors"
	"fmt"

	coreentry "github.com/example/genatt/internal/core/entry"
	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/ports/secondary"
)

// HandlerLookup resolves the handler of an entry type class name.
type HandlerLookup interface {
	Lookup(className string) (entrytype.Handler, error)
}

// EntryServiceImpl implements the EntryService interface.
type EntryServiceImpl struct {
	entryRepo secondary.EntryRepository
	fieldRepo secondary.FieldRepository
	typeRepo  secondary.EntryTypeRepository
	handlers  HandlerLookup
	messages  entrytype.Localizer
}

// NewEntryService creates a new EntryService with injected dependencies.
func NewEntryService(
	entryRepo secondary.EntryRepository,
	fieldRepo secondary.FieldRepository,
	typeRepo secondary.EntryTypeRepository,
	handlers HandlerLookup,
	messages entrytype.Localizer,
) *EntryServiceImpl {
	return &EntryServiceImpl{
		entryRepo: entryRepo,
		fieldRepo: fieldRepo,
		typeRepo:  typeRepo,
		handlers:  handlers,
		messages:  messages,
	}
}

// CreateEntry parses an admin form and stores the new entry with its fields.
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, req primary.CreateEntryRequest) (*primary.CreateEntryResponse, error) {
	typeRecord, err := s.typeRepo.GetByID(ctx, req.TypeID)
	if err != nil {
		return nil, err
	}
	entryType := recordToEntryType(typeRecord)

	guardCtx := coreentry.CreateContext{
		TypeTitle:     entryType.Title,
		IsGroup:       entryType.Group,
		ResourceID:    req.ResourceID,
		ResourceType:  req.ResourceType,
		ParentID:      req.ParentID,
		FieldDependID: req.FieldDependID,
	}
	if req.ParentID != 0 {
		parent, err := s.entryRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		guardCtx.ParentIsGroup = parent.Type.Group
	}
	if req.FieldDependID != 0 {
		field, err := s.fieldRepo.GetByID(ctx, req.FieldDependID)
		if err != nil {
			return nil, err
		}
		owner, err := s.entryRepo.GetByID(ctx, field.EntryID)
		if err != nil {
			return nil, err
		}
		guardCtx.FieldDependExists = true
		guardCtx.FieldDependResourceID = owner.ResourceID
		guardCtx.FieldDependResourceType = owner.ResourceType
	}
	if err := coreentry.CanCreateEntry(guardCtx).Error(); err != nil {
		return nil, err
	}

	handler, err := s.handlers.Lookup(entryType.ClassName)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		ResourceID:   req.ResourceID,
		ResourceType: req.ResourceType,
		Type:         entryType,
	}
	if req.ParentID != 0 {
		entry.Parent = &models.Entry{ID: req.ParentID}
	}
	if req.FieldDependID != 0 {
		entry.FieldDepend = &models.Field{ID: req.FieldDependID}
	}

	if msg := handler.ParseConfig(entry, req.Form, req.Locale); msg != nil {
		return nil, msg
	}

	if err := s.insertEntry(ctx, entry); err != nil {
		return nil, err
	}

	return &primary.CreateEntryResponse{
		EntryID: entry.ID,
		Entry:   entry,
	}, nil
}

// insertEntry stores a new entry and its fields, writing the allocated IDs
// and positions back.
func (s *EntryServiceImpl) insertEntry(ctx context.Context, entry *models.Entry) error {
	record := entryToRecord(entry)
	id, err := s.entryRepo.Create(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	entry.ID = id
	entry.Position = record.Position

	for _, field := range entry.Fields {
		field.EntryID = id
		fieldRecord := fieldToRecord(field)
		fieldID, err := s.fieldRepo.Create(ctx, fieldRecord)
		if err != nil {
			return fmt.Errorf("failed to create field: %w", err)
		}
		field.ID = fieldID
		field.Position = fieldRecord.Position
	}
	return nil
}

// UpdateEntry re-parses an admin form over an existing entry.
func (s *EntryServiceImpl) UpdateEntry(ctx context.Context, req primary.UpdateEntryRequest) error {
	entry, err := s.GetEntry(ctx, req.EntryID)
	if err != nil {
		return err
	}

	handler, err := s.handlers.Lookup(entry.Type.ClassName)
	if err != nil {
		return err
	}
	if msg := handler.ParseConfig(entry, req.Form, req.Locale); msg != nil {
		return msg
	}

	if err := s.entryRepo.Update(ctx, entryToRecord(entry)); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	for _, field := range entry.Fields {
		if field.ID != 0 {
			if err := s.fieldRepo.Update(ctx, fieldToRecord(field)); err != nil {
				return fmt.Errorf("failed to update field: %w", err)
			}
			continue
		}
		field.EntryID = entry.ID
		if field.ID, err = s.fieldRepo.Create(ctx, fieldToRecord(field)); err != nil {
			return fmt.Errorf("failed to create field: %w", err)
		}
	}
	return nil
}

// GetEntry retrieves an entry with its type, fields and children.
func (s *EntryServiceImpl) GetEntry(ctx context.Context, entryID int) (*models.Entry, error) {
	record, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry := recordToEntry(record)
	if err := s.loadFields(ctx, entry); err != nil {
		return nil, err
	}

	if entry.Type.Group {
		children, err := s.entryRepo.List(ctx, secondary.EntryFilter{ParentID: entry.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list child entries: %w", err)
		}
		entry.Children, err = s.withFields(ctx, children)
		if err != nil {
			return nil, err
		}
		for _, child := range entry.Children {
			child.Parent = entry
		}
	}

	return entry, nil
}

// ListEntries lists entries with optional filters.
func (s *EntryServiceImpl) ListEntries(ctx context.Context, filters primary.EntryFilters) ([]*models.Entry, error) {
	records, err := s.entryRepo.List(ctx, toEntryFilter(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*models.Entry, len(records))
	for i, r := range records {
		entries[i] = recordToEntry(r)
	}
	markEnds(entries)
	return entries, nil
}

// CountEntries counts entries with optional filters.
func (s *EntryServiceImpl) CountEntries(ctx context.Context, filters primary.EntryFilters) (int, error) {
	count, err := s.entryRepo.Count(ctx, toEntryFilter(filters))
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// ListRootEntries lists the top-level, unconditional entries of a resource.
func (s *EntryServiceImpl) ListRootEntries(ctx context.Context, resourceID int, resourceType string) ([]*models.Entry, error) {
	records, err := s.entryRepo.ListWithoutParent(ctx, resourceID, resourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list root entries: %w", err)
	}
	return s.withFields(ctx, records)
}

// GetConditionalEntry retrieves the conditional entry at order for a field.
func (s *EntryServiceImpl) GetConditionalEntry(ctx context.Context, fieldID, order, resourceID int, resourceType string) (*models.Entry, error) {
	record, err := s.entryRepo.GetConditional(ctx, order, fieldID, resourceID, resourceType)
	if err != nil {
		return nil, err
	}
	entry := recordToEntry(record)
	if err := s.loadFields(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry deletes an entry and its fields.
// If force is true, child entries and conditional entries go with it.
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, entryID int, force bool) error {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	guardCtx := coreentry.DeleteContext{
		EntryID:          entryID,
		ChildCount:       len(entry.Children),
		ConditionalCount: entry.NumberConditionalQuestions,
		ForceDelete:      force,
	}
	if err := coreentry.CanDeleteEntry(guardCtx).Error(); err != nil {
		return err
	}

	return s.deleteTree(ctx, entry)
}

// deleteTree removes an entry after its children and the entries
// conditional on its fields, then closes the gap it leaves among its
// conditional siblings.
func (s *EntryServiceImpl) deleteTree(ctx context.Context, entry *models.Entry) error {
	for _, child := range entry.Children {
		full, err := s.GetEntry(ctx, child.ID)
		if errors.Is(err, secondary.ErrNotFound) {
			// Already removed with the field it depended on.
			continue
		}
		if err != nil {
			return err
		}
		if err := s.deleteTree(ctx, full); err != nil {
			return err
		}
	}

	for _, field := range entry.Fields {
		// Deleting one dependent renumbers the rest, so always take the first.
		for {
			dependents, err := s.entryRepo.List(ctx, secondary.EntryFilter{FieldDependID: field.ID})
			if err != nil {
				return fmt.Errorf("failed to list conditional entries: %w", err)
			}
			if len(dependents) == 0 {
				break
			}
			dependent, err := s.GetEntry(ctx, dependents[0].ID)
			if err != nil {
				return err
			}
			if err := s.deleteTree(ctx, dependent); err != nil {
				return err
			}
		}
	}

	if err := s.fieldRepo.DeleteByEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete fields: %w", err)
	}
	if err := s.entryRepo.Delete(ctx, entry.ID); err != nil {
		return err
	}

	if entry.IsConditional() {
		err := s.entryRepo.DecrementConditionalPositions(ctx, entry.Position, entry.FieldDependID(), entry.ResourceID, entry.ResourceType)
		if err != nil {
			return fmt.Errorf("failed to renumber conditional entries: %w", err)
		}
	}
	return nil
}

// CopyEntry duplicates an entry, its fields and, for a group, its children.
// The copy is titled after the original and placed last.
func (s *EntryServiceImpl) CopyEntry(ctx context.Context, entryID int, locale string) (*models.Entry, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	cp := entry.Clone()
	cp.Title = s.messages.Localize(locale, i18n.CopyTitle, map[string]any{"Title": entry.Title})
	if err := s.copyTree(ctx, cp, make(map[int]*models.Field)); err != nil {
		return nil, err
	}
	return cp, nil
}

// copyTree inserts entry and then its children. The copied fields are
// recorded in copied by their original ID, so children conditional on a
// field of the copy depend on the new field.
func (s *EntryServiceImpl) copyTree(ctx context.Context, entry *models.Entry, copied map[int]*models.Field) error {
	originalIDs := make([]int, len(entry.Fields))
	for i, f := range entry.Fields {
		originalIDs[i] = f.ID
		f.ID = 0
	}
	if err := s.insertEntry(ctx, entry); err != nil {
		return err
	}
	for i, f := range entry.Fields {
		copied[originalIDs[i]] = f
	}

	pending := entry.Children
	entry.Children = make([]*models.Entry, 0, len(pending))
	for len(pending) > 0 {
		// A child waits until the sibling owning its field is copied.
		waiting := make(map[int]bool)
		for _, child := range pending {
			for _, f := range child.Fields {
				waiting[f.ID] = true
			}
		}

		var deferred []*models.Entry
		for _, child := range pending {
			if waiting[child.FieldDependID()] {
				deferred = append(deferred, child)
				continue
			}
			cp := child.Clone()
			cp.Parent = entry
			if f, ok := copied[child.FieldDependID()]; ok {
				cp.FieldDepend = &models.Field{ID: f.ID}
			}
			if err := s.copyTree(ctx, cp, copied); err != nil {
				return err
			}
			entry.Children = append(entry.Children, cp)
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("failed to copy entry %d: circular field dependency", entry.ID)
		}
		pending = deferred
	}
	return nil
}

// MoveConditionalEntry swaps a conditional entry with its neighbour.
func (s *EntryServiceImpl) MoveConditionalEntry(ctx context.Context, entryID int, direction string) error {
	dir, err := coreentry.ParseDirection(direction)
	if err != nil {
		return err
	}

	record, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	siblings := 0
	if record.FieldDependID != 0 {
		siblings, err = s.entryRepo.Count(ctx, secondary.EntryFilter{
			ResourceID:    record.ResourceID,
			ResourceType:  record.ResourceType,
			FieldDependID: record.FieldDependID,
		})
		if err != nil {
			return fmt.Errorf("failed to count conditional entries: %w", err)
		}
	}

	guardCtx := coreentry.MoveContext{
		EntryID:       entryID,
		IsConditional: record.FieldDependID != 0,
		Position:      record.Position,
		SiblingCount:  siblings,
		Direction:     dir,
	}
	if err := coreentry.CanMoveConditional(guardCtx).Error(); err != nil {
		return err
	}

	target := coreentry.TargetPosition(record.Position, dir)
	neighbour, err := s.entryRepo.GetConditional(ctx, target, record.FieldDependID, record.ResourceID, record.ResourceType)
	if err != nil {
		return err
	}

	neighbour.Position, record.Position = record.Position, target
	if err := s.entryRepo.Update(ctx, neighbour); err != nil {
		return fmt.Errorf("failed to move entry %d: %w", neighbour.ID, err)
	}
	if err := s.entryRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to move entry %d: %w", record.ID, err)
	}
	return nil
}

// ListEntryTypes lists the available entry types.
func (s *EntryServiceImpl) ListEntryTypes(ctx context.Context) ([]*models.EntryType, error) {
	records, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry types: %w", err)
	}

	types := make([]*models.EntryType, len(records))
	for i, r := range records {
		types[i] = recordToEntryType(r)
	}
	return types, nil
}

// withFields converts records and loads the fields of each entry.
func (s *EntryServiceImpl) withFields(ctx context.Context, records []*secondary.EntryRecord) ([]*models.Entry, error) {
	entries := make([]*models.Entry, len(records))
	for i, r := range records {
		entries[i] = recordToEntry(r)
		if err := s.loadFields(ctx, entries[i]); err != nil {
			return nil, err
		}
	}
	markEnds(entries)
	return entries, nil
}

func (s *EntryServiceImpl) loadFields(ctx context.Context, entry *models.Entry) error {
	records, err := s.fieldRepo.ListByEntry(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to list fields: %w", err)
	}
	entry.Fields = make([]*models.Field, len(records))
	for i, r := range records {
		entry.Fields[i] = recordToField(r)
	}
	return nil
}

// markEnds flags the first and last entries of a list.
func markEnds(entries []*models.Entry) {
	if len(entries) == 0 {
		return
	}
	entries[0].FirstInList = true
	entries[len(entries)-1].LastInList = true
}

func toEntryFilter(f primary.EntryFilters) secondary.EntryFilter {
	return secondary.EntryFilter{
		ResourceID:        f.ResourceID,
		ResourceType:      f.ResourceType,
		ParentID:          f.ParentID,
		ParentIsNull:      f.RootOnly,
		Group:             f.Group,
		FieldDependID:     f.FieldDependID,
		FieldDependIsNull: f.UnconditionalOnly,
		TypeID:            f.TypeID,
		Comment:           f.Comment,
	}
}

// Helper methods

func recordToEntryType(r *secondary.EntryTypeRecord) *models.EntryType {
	return &models.EntryType{
		ID:        r.ID,
		Title:     r.Title,
		Group:     r.Group,
		Comment:   r.Comment,
		ClassName: r.ClassName,
		UserOnly:  r.UserOnly,
	}
}

func recordToEntry(r *secondary.EntryRecord) *models.Entry {
	e := &models.Entry{
		ID:                         r.ID,
		ResourceID:                 r.ResourceID,
		ResourceType:               r.ResourceType,
		Type:                       recordToEntryType(&r.Type),
		Title:                      r.Title,
		HelpMessage:                r.HelpMessage,
		Comment:                    r.Comment,
		Mandatory:                  r.Mandatory,
		FieldInLine:                r.FieldInLine,
		Position:                   r.Position,
		ConfirmField:               r.ConfirmField,
		ConfirmFieldTitle:          r.ConfirmFieldTitle,
		Unique:                     r.Unique,
		MapProvider:                r.MapProvider,
		CSSClass:                   r.CSSClass,
		ErrorMessage:               r.ErrorMessage,
		NumberConditionalQuestions: r.NumberConditionalQuestions,
	}
	if r.ParentID != 0 {
		e.Parent = &models.Entry{ID: r.ParentID}
	}
	if r.FieldDependID != 0 {
		e.FieldDepend = &models.Field{ID: r.FieldDependID}
	}
	return e
}

func entryToRecord(e *models.Entry) *secondary.EntryRecord {
	r := &secondary.EntryRecord{
		ID:                e.ID,
		ResourceID:        e.ResourceID,
		ResourceType:      e.ResourceType,
		ParentID:          e.ParentID(),
		FieldDependID:     e.FieldDependID(),
		Title:             e.Title,
		HelpMessage:       e.HelpMessage,
		Comment:           e.Comment,
		Mandatory:         e.Mandatory,
		FieldInLine:       e.FieldInLine,
		Position:          e.Position,
		ConfirmField:      e.ConfirmField,
		ConfirmFieldTitle: e.ConfirmFieldTitle,
		Unique:            e.Unique,
		MapProvider:       e.MapProvider,
		CSSClass:          e.CSSClass,
		ErrorMessage:      e.ErrorMessage,
	}
	if e.Type != nil {
		r.TypeID = e.Type.ID
	}
	return r
}

func recordToField(r *secondary.FieldRecord) *models.Field {
	return &models.Field{
		ID:           r.ID,
		EntryID:      r.EntryID,
		Title:        r.Title,
		Value:        r.Value,
		Width:        r.Width,
		Height:       r.Height,
		MaxSizeEnter: r.MaxSizeEnter,
		DefaultValue: r.DefaultValue,
		Position:     r.Position,
		Comment:      r.Comment,
	}
}

func fieldToRecord(f *models.Field) *secondary.FieldRecord {
	return &secondary.FieldRecord{
		ID:           f.ID,
		EntryID:      f.EntryID,
		Title:        f.Title,
		Value:        f.Value,
		Width:        f.Width,
		Height:       f.Height,
		MaxSizeEnter: f.MaxSizeEnter,
		DefaultValue: f.DefaultValue,
		Position:     f.Position,
		Comment:      f.Comment,
	}
}

// Ensure EntryServiceImpl implements the interface
var _ primary.EntryService = (*EntryServiceImpl)(nil)
