package models

// Entry is a configurable question attached to a host resource.
//
// Parent and FieldDepend loaded from storage are stubs that only carry an ID.
type Entry struct {
	ID           int
	ResourceID   int
	ResourceType string
	Type         *EntryType

	Parent   *Entry
	Children []*Entry
	Fields   []*Field

	// FieldDepend makes the entry conditional: it is shown only when this
	// field of another entry has been selected.
	FieldDepend *Field

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

	NumberConditionalQuestions int

	FirstInList bool
	LastInList  bool
}

// IsConditional reports whether the entry depends on a field of another entry.
func (e *Entry) IsConditional() bool {
	return e.FieldDepend != nil
}

// ParentID returns the parent entry ID, or 0 for a root entry.
func (e *Entry) ParentID() int {
	if e.Parent == nil {
		return 0
	}
	return e.Parent.ID
}

// FieldDependID returns the ID of the field the entry depends on, or 0.
func (e *Entry) FieldDependID() int {
	if e.FieldDepend == nil {
		return 0
	}
	return e.FieldDepend.ID
}

// PrimaryField returns the first field, creating it when the entry has none.
func (e *Entry) PrimaryField() *Field {
	if len(e.Fields) == 0 {
		e.Fields = []*Field{NewField()}
	}
	return e.Fields[0]
}

// FieldByID returns the entry's field with the given ID.
func (e *Entry) FieldByID(id int) (*Field, bool) {
	for _, f := range e.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Clone returns a copy of the entry. Fields are copied so the clone can be
// edited independently; Type, Parent, FieldDepend and Children are shared.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.Fields != nil {
		c.Fields = make([]*Field, len(e.Fields))
		for i, f := range e.Fields {
			c.Fields[i] = f.Clone()
		}
	}
	if e.Children != nil {
		c.Children = append([]*Entry(nil), e.Children...)
	}
	return &c
}
