package models

// Unlimited marks an unset numeric bound such as MaxSizeEnter.
const Unlimited = -1

// Field is a configuration value of an entry. Its columns are interpreted by
// the entry type: a text area uses Width, Height and MaxSizeEnter, a check box
// uses one field per choice.
type Field struct {
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

// NewField returns a field with unset numeric bounds.
func NewField() *Field {
	return &Field{
		Width:        Unlimited,
		Height:       Unlimited,
		MaxSizeEnter: Unlimited,
	}
}

// Clone returns a copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	return &c
}
