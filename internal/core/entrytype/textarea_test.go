package entrytype

import (
	"net/url"
	"strings"
	"testing"

	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
)

// upperParser stands in for the BBCode compiler.
type upperParser struct{}

func (upperParser) Parse(s string) string { return "<p>" + strings.ToUpper(s) + "</p>" }

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	catalog, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return Deps{
		Messages: catalog,
		RichText: upperParser{},
		XSS:      NewXSSChecker(""),
	}
}

func textAreaEntry(maxSize int, mandatory bool) *models.Entry {
	field := models.NewField()
	field.ID = 70
	field.MaxSizeEnter = maxSize
	return &models.Entry{
		ID:        7,
		Title:     "Describe yourself",
		Mandatory: mandatory,
		Fields:    []*models.Field{field},
	}
}

func TestTextArea_ParseConfig_Errors(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}

	tests := []struct {
		name      string
		form      url.Values
		wantKey   string
		wantField string
	}{
		{
			name:      "blank title",
			form:      url.Values{"title": {"  "}, "width": {"10"}, "height": {"5"}},
			wantKey:   i18n.MandatoryField,
			wantField: "Title",
		},
		{
			name:      "missing width",
			form:      url.Values{"title": {"Q1"}, "height": {"5"}},
			wantKey:   i18n.MandatoryField,
			wantField: "Width",
		},
		{
			name:      "blank height",
			form:      url.Values{"title": {"Q1"}, "width": {"10"}, "height": {""}},
			wantKey:   i18n.MandatoryField,
			wantField: "Height",
		},
		{
			name:      "height not a number",
			form:      url.Values{"title": {"Q1"}, "width": {"10"}, "height": {"bad"}},
			wantKey:   i18n.NumericField,
			wantField: "Height",
		},
		{
			name:      "last numeric failure wins",
			form:      url.Values{"title": {"Q1"}, "width": {"wide"}, "height": {"bad"}},
			wantKey:   i18n.NumericField,
			wantField: "Width",
		},
		{
			name:      "max size not a number",
			form:      url.Values{"title": {"Q1"}, "width": {"10"}, "height": {"5"}, "max_size_enter": {"x"}},
			wantKey:   i18n.NumericField,
			wantField: "Maximum number of characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &models.Entry{Title: "unchanged"}

			msg := h.ParseConfig(entry, tt.form, "en")
			if msg == nil {
				t.Fatal("expected admin message, got nil")
			}
			if msg.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, msg.Key)
			}
			if msg.Type != MessageStop {
				t.Errorf("expected stop message, got %q", msg.Type)
			}
			if msg.Args["Field"] != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, msg.Args["Field"])
			}
			if entry.Title != "unchanged" || len(entry.Fields) != 0 {
				t.Error("entry should be left untouched on failure")
			}
		})
	}
}

func TestTextArea_ParseConfig_LocalizedLabel(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}

	msg := h.ParseConfig(&models.Entry{}, url.Values{"width": {"1"}, "height": {"1"}}, "fr")
	if msg == nil {
		t.Fatal("expected admin message, got nil")
	}
	if msg.Args["Field"] != "Libellé" {
		t.Errorf("expected french label, got %q", msg.Args["Field"])
	}
}

func TestTextArea_ParseConfig_Success(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}
	entry := &models.Entry{}

	form := url.Values{
		"title":        {"Q1"},
		"help_message": {"  some help  "},
		"comment":      {"a comment"},
		"value":        {"default"},
		"width":        {"40"},
		"height":       {"5"},
		"css_class":    {"wide"},
		"useRichText":  {"TRUE"},
		"mandatory":    {"on"},
	}
	if msg := h.ParseConfig(entry, form, "en"); msg != nil {
		t.Fatalf("unexpected admin message: %v", msg)
	}

	if entry.Title != "Q1" {
		t.Errorf("expected title 'Q1', got %q", entry.Title)
	}
	if entry.HelpMessage != "some help" {
		t.Errorf("expected trimmed help, got %q", entry.HelpMessage)
	}
	if entry.Comment != "a comment" || entry.CSSClass != "wide" {
		t.Errorf("unexpected comment/css: %q/%q", entry.Comment, entry.CSSClass)
	}
	if !entry.Mandatory {
		t.Error("expected mandatory")
	}
	if !entry.FieldInLine {
		t.Error("expected rich text flag stored in FieldInLine")
	}
	if len(entry.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(entry.Fields))
	}
	f := entry.Fields[0]
	if f.Value != "default" || f.Width != 40 || f.Height != 5 {
		t.Errorf("unexpected field: %+v", f)
	}
	if f.MaxSizeEnter != models.Unlimited {
		t.Errorf("expected unlimited max size, got %d", f.MaxSizeEnter)
	}
}

func TestTextArea_ParseConfig_ReusesExistingField(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}
	entry := textAreaEntry(models.Unlimited, true)

	form := url.Values{"title": {"Q2"}, "width": {"1"}, "height": {"2"}, "max_size_enter": {"300"}}
	if msg := h.ParseConfig(entry, form, "en"); msg != nil {
		t.Fatalf("unexpected admin message: %v", msg)
	}

	if len(entry.Fields) != 1 || entry.Fields[0].ID != 70 {
		t.Fatalf("expected existing field to be updated, got %+v", entry.Fields)
	}
	if entry.Fields[0].MaxSizeEnter != 300 {
		t.Errorf("expected max size 300, got %d", entry.Fields[0].MaxSizeEnter)
	}
	if entry.Mandatory {
		t.Error("mandatory should be cleared when the parameter is absent")
	}
	if entry.FieldInLine {
		t.Error("rich text should be off when the parameter is absent")
	}
}

func TestTextArea_ParseResponse(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}

	tests := []struct {
		name          string
		entry         *models.Entry
		form          url.Values
		wantResponses int
		wantValue     string
		wantToString  string
		wantErr       string
		wantMandatory bool
	}{
		{
			name:          "parameter absent",
			entry:         textAreaEntry(models.Unlimited, true),
			form:          url.Values{},
			wantResponses: 0,
		},
		{
			name:          "plain answer",
			entry:         textAreaEntry(models.Unlimited, false),
			form:          url.Values{"attribute7": {"hello"}},
			wantResponses: 1,
			wantValue:     "hello",
			wantToString:  "hello",
		},
		{
			name:          "blank optional answer",
			entry:         textAreaEntry(models.Unlimited, false),
			form:          url.Values{"attribute7": {""}},
			wantResponses: 1,
		},
		{
			name:          "blank mandatory answer",
			entry:         textAreaEntry(models.Unlimited, true),
			form:          url.Values{"attribute7": {"   "}},
			wantResponses: 1,
			wantValue:     "   ",
			wantErr:       "An answer is required.",
			wantMandatory: true,
		},
		{
			name:          "too long",
			entry:         textAreaEntry(5, true),
			form:          url.Values{"attribute7": {"abcdef"}},
			wantResponses: 1,
			wantValue:     "abcdef",
			wantToString:  "abcdef",
			wantErr:       "The answer must not exceed 5 characters.",
		},
		{
			name:          "length counts characters",
			entry:         textAreaEntry(5, true),
			form:          url.Values{"attribute7": {"ééééé"}},
			wantResponses: 1,
			wantValue:     "ééééé",
			wantToString:  "ééééé",
		},
		{
			name:          "script tag",
			entry:         textAreaEntry(5, true),
			form:          url.Values{"attribute7": {"<script>alert(1)</script>"}},
			wantResponses: 1,
			wantValue:     "<script>alert(1)</script>",
			wantToString:  "<script>alert(1)</script>",
			wantErr:       "The answer contains forbidden characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses, gerr := h.ParseResponse(tt.entry, tt.form, "en")

			if len(responses) != tt.wantResponses {
				t.Fatalf("expected %d responses, got %d", tt.wantResponses, len(responses))
			}
			if tt.wantResponses > 0 {
				r := responses[0]
				if r.Entry != tt.entry {
					t.Error("response should reference the entry")
				}
				if r.Value != tt.wantValue {
					t.Errorf("expected value %q, got %q", tt.wantValue, r.Value)
				}
				if r.ToStringValue != tt.wantToString {
					t.Errorf("expected to-string %q, got %q", tt.wantToString, r.ToStringValue)
				}
			}

			if tt.wantErr == "" {
				if gerr != nil {
					t.Fatalf("unexpected error: %v", gerr)
				}
				return
			}
			if gerr == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if gerr.ErrorMessage != tt.wantErr {
				t.Errorf("expected message %q, got %q", tt.wantErr, gerr.ErrorMessage)
			}
			if gerr.Mandatory != tt.wantMandatory {
				t.Errorf("expected mandatory=%v, got %v", tt.wantMandatory, gerr.Mandatory)
			}
			if gerr.TitleQuestion != tt.entry.Title || gerr.EntryID != tt.entry.ID {
				t.Errorf("error should name the entry, got %+v", gerr)
			}
		})
	}
}

func TestTextArea_ParseResponse_RichText(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}
	entry := textAreaEntry(models.Unlimited, false)
	entry.FieldInLine = true

	responses, gerr := h.ParseResponse(entry, url.Values{"attribute7": {"[b]hi[/b]"}}, "en")
	if gerr != nil {
		t.Fatalf("unexpected error: %v", gerr)
	}
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].Value != "<p>[B]HI[/B]</p>" {
		t.Errorf("expected parsed value, got %q", responses[0].Value)
	}
	if responses[0].ToStringValue != "[b]hi[/b]" {
		t.Errorf("expected raw BBCode as to-string value, got %q", responses[0].ToStringValue)
	}
}

func TestTextArea_Formatting(t *testing.T) {
	h := &TextArea{deps: newTestDeps(t)}
	entry := textAreaEntry(models.Unlimited, false)
	resp := &models.Response{Entry: entry, Value: "v"}

	if got := h.ValueForExport(entry, resp, "en"); got != "v" {
		t.Errorf("ValueForExport = %q", got)
	}
	if got := h.ValueForRecap(entry, resp, "en"); got != "v" {
		t.Errorf("ValueForRecap = %q", got)
	}
	if got := h.RegularExpressions(entry); got != nil {
		t.Errorf("expected no regular expressions, got %v", got)
	}
	if gerr := h.CanUploadFiles(entry, nil, nil, "en"); gerr != nil {
		t.Errorf("unexpected upload error: %v", gerr)
	}
}
