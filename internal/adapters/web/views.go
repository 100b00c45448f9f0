package web

import (
	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
)

type entryTypeView struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Group     bool   `json:"group"`
	Comment   bool   `json:"comment"`
	ClassName string `json:"class_name"`
}

type fieldView struct {
	ID           int    `json:"id"`
	EntryID      int    `json:"entry_id"`
	Title        string `json:"title,omitempty"`
	Value        string `json:"value,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	MaxSizeEnter int    `json:"max_size_enter"`
	DefaultValue bool   `json:"default_value"`
	Position     int    `json:"position"`
	Comment      string `json:"comment,omitempty"`
}

// entryView flattens Parent and FieldDepend to IDs.
type entryView struct {
	ID                         int            `json:"id"`
	ResourceID                 int            `json:"resource_id"`
	ResourceType               string         `json:"resource_type"`
	Type                       *entryTypeView `json:"type,omitempty"`
	ParentID                   int            `json:"parent_id,omitempty"`
	FieldDependID              int            `json:"field_depend_id,omitempty"`
	Title                      string         `json:"title,omitempty"`
	HelpMessage                string         `json:"help_message,omitempty"`
	Comment                    string         `json:"comment,omitempty"`
	Mandatory                  bool           `json:"mandatory"`
	FieldInLine                bool           `json:"fields_in_line"`
	Position                   int            `json:"position"`
	ConfirmField               bool           `json:"confirm_field"`
	ConfirmFieldTitle          string         `json:"confirm_field_title,omitempty"`
	Unique                     bool           `json:"unique"`
	CSSClass                   string         `json:"css_class,omitempty"`
	ErrorMessage               string         `json:"error_message,omitempty"`
	NumberConditionalQuestions int            `json:"number_conditional_questions"`
	FirstInList                bool           `json:"first_in_list"`
	LastInList                 bool           `json:"last_in_list"`
	Fields                     []fieldView    `json:"fields,omitempty"`
	Children                   []entryView    `json:"children,omitempty"`
}

type responseErrorView struct {
	EntryID   int    `json:"entry_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Mandatory bool   `json:"mandatory"`
}

type recapView struct {
	EntryID int    `json:"entry_id"`
	Title   string `json:"title"`
	Value   string `json:"value"`
}

type submissionView struct {
	Responses []recapView         `json:"responses"`
	Errors    []responseErrorView `json:"errors,omitempty"`
}

func toEntryTypeView(t *models.EntryType) *entryTypeView {
	if t == nil {
		return nil
	}
	return &entryTypeView{
		ID:        t.ID,
		Title:     t.Title,
		Group:     t.Group,
		Comment:   t.Comment,
		ClassName: t.ClassName,
	}
}

func toFieldView(f *models.Field) fieldView {
	return fieldView{
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

func toEntryView(e *models.Entry) entryView {
	v := entryView{
		ID:                         e.ID,
		ResourceID:                 e.ResourceID,
		ResourceType:               e.ResourceType,
		Type:                       toEntryTypeView(e.Type),
		ParentID:                   e.ParentID(),
		FieldDependID:              e.FieldDependID(),
		Title:                      e.Title,
		HelpMessage:                e.HelpMessage,
		Comment:                    e.Comment,
		Mandatory:                  e.Mandatory,
		FieldInLine:                e.FieldInLine,
		Position:                   e.Position,
		ConfirmField:               e.ConfirmField,
		ConfirmFieldTitle:          e.ConfirmFieldTitle,
		Unique:                     e.Unique,
		CSSClass:                   e.CSSClass,
		ErrorMessage:               e.ErrorMessage,
		NumberConditionalQuestions: e.NumberConditionalQuestions,
		FirstInList:                e.FirstInList,
		LastInList:                 e.LastInList,
	}
	for _, f := range e.Fields {
		v.Fields = append(v.Fields, toFieldView(f))
	}
	for _, c := range e.Children {
		v.Children = append(v.Children, toEntryView(c))
	}
	return v
}

func toEntryViews(entries []*models.Entry) []entryView {
	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = toEntryView(e)
	}
	return views
}

func toSubmissionView(recap []primary.FormattedResponse, errs []*entrytype.GenericAttributeError) submissionView {
	v := submissionView{Responses: make([]recapView, len(recap))}
	for i, r := range recap {
		v.Responses[i] = recapView{EntryID: r.EntryID, Title: r.Title, Value: r.Value}
	}
	for _, e := range errs {
		v.Errors = append(v.Errors, responseErrorView{
			EntryID:   e.EntryID,
			Title:     e.TitleQuestion,
			Message:   e.ErrorMessage,
			Mandatory: e.Mandatory,
		})
	}
	return v
}
