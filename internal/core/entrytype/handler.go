// Package entrytype holds one handler per kind of entry. A handler parses the
// admin configuration of an entry, parses and validates end user answers and
// formats them back for display.
package entrytype

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/example/genatt/internal/models"
)

// Request parameter names.
const (
	ParamTitle             = "title"
	ParamHelpMessage       = "help_message"
	ParamComment           = "comment"
	ParamValue             = "value"
	ParamMandatory         = "mandatory"
	ParamWidth             = "width"
	ParamHeight            = "height"
	ParamMaxSizeEnter      = "max_size_enter"
	ParamCSSClass          = "css_class"
	ParamUseRichText       = "useRichText"
	ParamFieldInLine       = "fields_in_line"
	ParamConfirmField      = "confirm_field"
	ParamConfirmFieldTitle = "confirm_field_title"
	ParamUnique            = "unique"
	ParamErrorMessage      = "error_message"

	// PrefixAttribute prefixes the entry ID to name an answer parameter.
	PrefixAttribute = "attribute"
	// SuffixConfirm names the confirmation parameter of an answer.
	SuffixConfirm = "_confirm"
)

// ResponseParam returns the request parameter holding the answer to an entry.
func ResponseParam(entryID int) string {
	return PrefixAttribute + strconv.Itoa(entryID)
}

// Handler is implemented once per entry type.
type Handler interface {
	// ParseConfig fills entry and its fields from an admin form. It returns
	// nil on success and leaves entry untouched on failure.
	ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage

	// ParseResponse reads the answer to entry from a submitted form. The
	// answer is returned even when it fails validation, so that it can be
	// shown again next to the error.
	ParseResponse(entry *models.Entry, form url.Values, locale string) ([]*models.Response, *GenericAttributeError)

	// ValueForExport formats a response for export.
	ValueForExport(entry *models.Entry, resp *models.Response, locale string) string

	// ValueForRecap formats a response for the summary shown to the user.
	ValueForRecap(entry *models.Entry, resp *models.Response, locale string) string

	// RegularExpressions lists the patterns an admin may attach to the entry.
	RegularExpressions(entry *models.Entry) []RegularExpression

	// SetResponseToStringValue sets the display string of a response.
	SetResponseToStringValue(entry *models.Entry, resp *models.Response, locale string)

	// CanUploadFiles validates files about to be attached to an answer.
	CanUploadFiles(entry *models.Entry, uploaded, toUpload []*multipart.FileHeader, locale string) *GenericAttributeError
}

// Localizer resolves message IDs.
type Localizer interface {
	Localize(locale, id string, data map[string]any) string
}

// RichTextParser turns BBCode into HTML.
type RichTextParser interface {
	Parse(bbcode string) string
}

// RegularExpression is a named pattern offered to text entries.
type RegularExpression struct {
	Title        string
	Pattern      string
	ErrorMessage string
}

// Deps are the collaborators shared by the built-in handlers.
type Deps struct {
	Messages           Localizer
	RichText           RichTextParser
	XSS                *XSSChecker
	RegularExpressions []RegularExpression
}

func (d Deps) localize(locale, id string, data map[string]any) string {
	if d.Messages == nil {
		return id
	}
	return d.Messages.Localize(locale, id, data)
}

func (d Deps) parseRichText(s string) string {
	if d.RichText == nil {
		return s
	}
	return d.RichText.Parse(s)
}

func (d Deps) containsXSS(s string) bool {
	if d.XSS == nil {
		return defaultXSSChecker.Contains(s)
	}
	return d.XSS.Contains(s)
}

// stop builds a STOP admin message naming the localized label of a field.
func (d Deps) stop(key, fieldLabel, locale string) *AdminMessage {
	return &AdminMessage{
		Key:  key,
		Args: map[string]string{"Field": d.localize(locale, fieldLabel, nil)},
		Type: MessageStop,
	}
}

// answerError builds a non-mandatory validation error for entry.
func (d Deps) answerError(entry *models.Entry, locale, id string, data map[string]any) *GenericAttributeError {
	return &GenericAttributeError{
		EntryID:       entry.ID,
		TitleQuestion: entry.Title,
		ErrorMessage:  d.localize(locale, id, data),
	}
}

// Registry maps entry type class names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry holding the built-in handlers.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(ClassText, &Text{deps: deps})
	r.Register(ClassTextArea, &TextArea{deps: deps})
	r.Register(ClassCheckBox, &CheckBox{deps: deps})
	r.Register(ClassComment, &Comment{deps: deps})
	r.Register(ClassGroup, &Group{deps: deps})
	return r
}

// Register adds or replaces the handler for a class name.
func (r *Registry) Register(className string, h Handler) {
	r.handlers[className] = h
}

// Lookup returns the handler for a class name.
func (r *Registry) Lookup(className string) (Handler, error) {
	h, ok := r.handlers[className]
	if !ok {
		return nil, fmt.Errorf("no handler registered for entry type %s", className)
	}
	return h, nil
}

// ClassNames returns the registered class names in sorted order.
func (r *Registry) ClassNames() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// maxSizeEnter reads the answer length limit without adding a field to an
// entry that has none.
func maxSizeEnter(entry *models.Entry) int {
	if len(entry.Fields) == 0 {
		return models.Unlimited
	}
	return entry.Fields[0].MaxSizeEnter
}

// parseBool reads a flag the way HTML checkboxes and "true"/"false" selects send it.
func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}
