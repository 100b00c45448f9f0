package models

// Response is an end user's answer to an entry. It is not persisted here.
type Response struct {
	Entry *Entry
	// Field is the selected choice for entry types that answer with fields.
	Field *Field
	Value string
	// ToStringValue is the text shown when the response is displayed back.
	ToStringValue string
}
