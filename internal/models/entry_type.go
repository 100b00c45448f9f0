package models

// EntryType describes a kind of question. ClassName selects the handler that
// parses and validates entries of this type.
type EntryType struct {
	ID        int
	Title     string
	Group     bool
	Comment   bool
	ClassName string
	UserOnly  bool
}
