package app

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/ports/secondary"
)

// Entry type IDs of the built-in catalog.
const (
	typeText = iota + 1
	typeTextArea
	typeCheckBox
	typeComment
	typeGroup
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockEntryTypeRepository serves the built-in entry types.
type mockEntryTypeRepository struct {
	types map[int]*secondary.EntryTypeRecord
}

func newMockEntryTypeRepository() *mockEntryTypeRepository {
	m := &mockEntryTypeRepository{types: make(map[int]*secondary.EntryTypeRecord)}
	for _, t := range []*secondary.EntryTypeRecord{
		{ID: typeText, Title: "Text", ClassName: entrytype.ClassText},
		{ID: typeTextArea, Title: "Text area", ClassName: entrytype.ClassTextArea},
		{ID: typeCheckBox, Title: "Check box", ClassName: entrytype.ClassCheckBox},
		{ID: typeComment, Title: "Comment", Comment: true, ClassName: entrytype.ClassComment},
		{ID: typeGroup, Title: "Group", Group: true, ClassName: entrytype.ClassGroup},
	} {
		m.types[t.ID] = t
	}
	return m
}

func (m *mockEntryTypeRepository) GetByID(ctx context.Context, id int) (*secondary.EntryTypeRecord, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, fmt.Errorf("entry type %d not found", id)
	}
	c := *t
	return &c, nil
}

func (m *mockEntryTypeRepository) GetByClassName(ctx context.Context, className string) (*secondary.EntryTypeRecord, error) {
	for _, t := range m.types {
		if t.ClassName == className {
			c := *t
			return &c, nil
		}
	}
	return nil, fmt.Errorf("entry type %s not found", className)
}

func (m *mockEntryTypeRepository) List(ctx context.Context) ([]*secondary.EntryTypeRecord, error) {
	var list []*secondary.EntryTypeRecord
	for id := 1; id <= len(m.types); id++ {
		c := *m.types[id]
		list = append(list, &c)
	}
	return list, nil
}

// mockFieldRepository stores fields in memory.
type mockFieldRepository struct {
	fields    map[int]*secondary.FieldRecord
	nextID    int
	createErr error
}

func newMockFieldRepository() *mockFieldRepository {
	return &mockFieldRepository{fields: make(map[int]*secondary.FieldRecord)}
}

func (m *mockFieldRepository) Create(ctx context.Context, field *secondary.FieldRecord) (int, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	pos := 0
	for _, f := range m.fields {
		if f.EntryID == field.EntryID && f.Position > pos {
			pos = f.Position
		}
	}
	field.ID = m.nextID
	field.Position = pos + 1
	c := *field
	m.fields[c.ID] = &c
	return c.ID, nil
}

func (m *mockFieldRepository) GetByID(ctx context.Context, id int) (*secondary.FieldRecord, error) {
	f, ok := m.fields[id]
	if !ok {
		return nil, fmt.Errorf("field %d not found", id)
	}
	c := *f
	return &c, nil
}

func (m *mockFieldRepository) ListByEntry(ctx context.Context, entryID int) ([]*secondary.FieldRecord, error) {
	var list []*secondary.FieldRecord
	for _, f := range m.fields {
		if f.EntryID == entryID {
			c := *f
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func (m *mockFieldRepository) Update(ctx context.Context, field *secondary.FieldRecord) error {
	if _, ok := m.fields[field.ID]; !ok {
		return fmt.Errorf("field %d not found", field.ID)
	}
	c := *field
	m.fields[c.ID] = &c
	return nil
}

func (m *mockFieldRepository) Delete(ctx context.Context, id int) error {
	if _, ok := m.fields[id]; !ok {
		return fmt.Errorf("field %d not found", id)
	}
	delete(m.fields, id)
	return nil
}

func (m *mockFieldRepository) DeleteByEntry(ctx context.Context, entryID int) error {
	for id, f := range m.fields {
		if f.EntryID == entryID {
			delete(m.fields, id)
		}
	}
	return nil
}

// mockEntryRepository stores entries in memory. Position holds the
// conditional position of conditional entries, as the SQLite adapter does.
type mockEntryRepository struct {
	entries   map[int]*secondary.EntryRecord
	types     *mockEntryTypeRepository
	fields    *mockFieldRepository
	nextID    int
	createErr error
}

func newMockEntryRepository(types *mockEntryTypeRepository, fields *mockFieldRepository) *mockEntryRepository {
	return &mockEntryRepository{
		entries: make(map[int]*secondary.EntryRecord),
		types:   types,
		fields:  fields,
	}
}

func (m *mockEntryRepository) Create(ctx context.Context, entry *secondary.EntryRecord) (int, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	var pos int
	var err error
	if entry.FieldDependID == 0 {
		pos, err = m.NextPosition(ctx, entry.ResourceID, entry.ResourceType)
	} else {
		pos, err = m.NextConditionalPosition(ctx, entry.FieldDependID)
	}
	if err != nil {
		return 0, err
	}

	m.nextID++
	entry.ID = m.nextID
	entry.Position = pos
	c := *entry
	m.entries[c.ID] = &c
	return c.ID, nil
}

func (m *mockEntryRepository) load(e *secondary.EntryRecord) *secondary.EntryRecord {
	c := *e
	if t, ok := m.types.types[c.TypeID]; ok {
		c.Type = *t
	}
	c.NumberConditionalQuestions = 0
	for _, other := range m.entries {
		if other.FieldDependID == 0 {
			continue
		}
		if f, ok := m.fields.fields[other.FieldDependID]; ok && f.EntryID == c.ID {
			c.NumberConditionalQuestions++
		}
	}
	return &c
}

func (m *mockEntryRepository) GetByID(ctx context.Context, id int) (*secondary.EntryRecord, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %d %w", id, secondary.ErrNotFound)
	}
	return m.load(e), nil
}

func (m *mockEntryRepository) Update(ctx context.Context, entry *secondary.EntryRecord) error {
	existing, ok := m.entries[entry.ID]
	if !ok {
		return fmt.Errorf("entry %d %w", entry.ID, secondary.ErrNotFound)
	}
	c := *entry
	c.TypeID = existing.TypeID
	m.entries[c.ID] = &c
	return nil
}

func (m *mockEntryRepository) Delete(ctx context.Context, id int) error {
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("entry %d %w", id, secondary.ErrNotFound)
	}
	delete(m.entries, id)
	return nil
}

func (m *mockEntryRepository) matches(e *secondary.EntryRecord, f secondary.EntryFilter) bool {
	t := m.types.types[e.TypeID]
	switch {
	case f.ResourceID != 0 && e.ResourceID != f.ResourceID:
		return false
	case f.ResourceType != "" && e.ResourceType != f.ResourceType:
		return false
	case f.ParentID != 0 && e.ParentID != f.ParentID:
		return false
	case f.ParentIsNull && e.ParentID != 0:
		return false
	case f.Group != nil && t.Group != *f.Group:
		return false
	case f.FieldDependID != 0 && e.FieldDependID != f.FieldDependID:
		return false
	case f.FieldDependIsNull && e.FieldDependID != 0:
		return false
	case f.TypeID != 0 && e.TypeID != f.TypeID:
		return false
	case f.Comment != nil && t.Comment != *f.Comment:
		return false
	}
	return true
}

// sortKey orders like "ORDER BY pos, pos_conditional".
func sortKey(e *secondary.EntryRecord) (int, int) {
	if e.FieldDependID != 0 {
		return 0, e.Position
	}
	return e.Position, 0
}

func (m *mockEntryRepository) List(ctx context.Context, filter secondary.EntryFilter) ([]*secondary.EntryRecord, error) {
	var list []*secondary.EntryRecord
	for _, e := range m.entries {
		if m.matches(e, filter) {
			list = append(list, m.load(e))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		pi, ci := sortKey(list[i])
		pj, cj := sortKey(list[j])
		if pi != pj {
			return pi < pj
		}
		if ci != cj {
			return ci < cj
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (m *mockEntryRepository) Count(ctx context.Context, filter secondary.EntryFilter) (int, error) {
	list, err := m.List(ctx, filter)
	return len(list), err
}

func (m *mockEntryRepository) ListWithoutParent(ctx context.Context, resourceID int, resourceType string) ([]*secondary.EntryRecord, error) {
	return m.List(ctx, secondary.EntryFilter{
		ResourceID:        resourceID,
		ResourceType:      resourceType,
		ParentIsNull:      true,
		FieldDependIsNull: true,
	})
}

func (m *mockEntryRepository) GetConditional(ctx context.Context, order, fieldID, resourceID int, resourceType string) (*secondary.EntryRecord, error) {
	for _, e := range m.entries {
		if e.FieldDependID == fieldID && e.Position == order && e.ResourceID == resourceID && e.ResourceType == resourceType {
			return m.load(e), nil
		}
	}
	return nil, fmt.Errorf("conditional entry %d of field %d not found", order, fieldID)
}

func (m *mockEntryRepository) DecrementConditionalPositions(ctx context.Context, order, fieldID, resourceID int, resourceType string) error {
	for _, e := range m.entries {
		if e.FieldDependID == fieldID && e.Position > order && e.ResourceID == resourceID && e.ResourceType == resourceType {
			e.Position--
		}
	}
	return nil
}

func (m *mockEntryRepository) NextPosition(ctx context.Context, resourceID int, resourceType string) (int, error) {
	maxPos := 0
	for _, e := range m.entries {
		if e.ResourceID == resourceID && e.ResourceType == resourceType && e.FieldDependID == 0 && e.Position > maxPos {
			maxPos = e.Position
		}
	}
	return maxPos + 1, nil
}

func (m *mockEntryRepository) NextConditionalPosition(ctx context.Context, fieldID int) (int, error) {
	maxPos := 0
	for _, e := range m.entries {
		if e.FieldDependID == fieldID && e.Position > maxPos {
			maxPos = e.Position
		}
	}
	return maxPos + 1, nil
}

var (
	_ secondary.EntryRepository     = (*mockEntryRepository)(nil)
	_ secondary.FieldRepository     = (*mockFieldRepository)(nil)
	_ secondary.EntryTypeRepository = (*mockEntryTypeRepository)(nil)
)

// ============================================================================
// Fixtures
// ============================================================================

type testServices struct {
	entries   *EntryServiceImpl
	fields    *FieldServiceImpl
	responses *ResponseServiceImpl
	entryRepo *mockEntryRepository
	fieldRepo *mockFieldRepository
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	catalog, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	registry := entrytype.NewRegistry(entrytype.Deps{Messages: catalog})

	typeRepo := newMockEntryTypeRepository()
	fieldRepo := newMockFieldRepository()
	entryRepo := newMockEntryRepository(typeRepo, fieldRepo)

	entries := NewEntryService(entryRepo, fieldRepo, typeRepo, registry, catalog)
	return &testServices{
		entries:   entries,
		fields:    NewFieldService(fieldRepo, entryRepo),
		responses: NewResponseService(entries, registry),
		entryRepo: entryRepo,
		fieldRepo: fieldRepo,
	}
}
