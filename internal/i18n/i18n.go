// Package i18n resolves localized messages from the catalogs embedded in
// the binary.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Message IDs shared by the entry type handlers and transports.
const (
	FieldTitle        = "field_title"
	FieldWidth        = "field_width"
	FieldHeight       = "field_height"
	FieldMaxSizeEnter = "field_max_size_enter"
	FieldValue        = "field_value"
	FieldComment      = "field_comment"
	MandatoryField    = "mandatory_field"
	NumericField      = "numeric_field"
	XSSField          = "xss_field"
	MaxLength         = "max_length"
	MandatoryQuestion = "mandatory_question"
	InvalidChoice     = "invalid_choice"
	ConfirmMismatch   = "confirm_mismatch"
	CopyTitle         = "copy_title"
	MessageStop       = "message_stop"
	MessageInfo       = "message_info"
	MessageBack       = "message_back"
)

//go:embed locales/*.yaml
var locales embed.FS

// Catalog localizes message IDs.
type Catalog struct {
	bundle        *goi18n.Bundle
	defaultLocale string
}

// New loads every embedded catalog. Messages missing from a locale fall
// back to defaultLocale, then to English.
func New(defaultLocale string) (*Catalog, error) {
	if _, err := language.Parse(defaultLocale); err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list message catalogs: %w", err)
	}
	for _, name := range files {
		if _, err := bundle.LoadMessageFileFS(locales, name); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
	}

	return &Catalog{bundle: bundle, defaultLocale: defaultLocale}, nil
}

// Localize returns the message for id in locale. data fills the message
// template. An unknown id is returned as is.
func (c *Catalog) Localize(locale, id string, data map[string]any) string {
	localizer := goi18n.NewLocalizer(c.bundle, locale, c.defaultLocale)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	// A message found only in a fallback language comes back with an error.
	if err != nil && msg == "" {
		return id
	}
	return msg
}

// DefaultLocale returns the locale used when a request names none.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Languages lists the locales that have a catalog.
func (c *Catalog) Languages() []string {
	tags := c.bundle.LanguageTags()
	langs := make([]string, len(tags))
	for i, tag := range tags {
		langs[i] = tag.String()
	}
	return langs
}

// Match returns the best supported locale for an Accept-Language header
// value, or the default locale.
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.defaultLocale
	}

	matcher := language.NewMatcher(c.bundle.LanguageTags())
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return c.defaultLocale
	}
	base, _ := c.bundle.LanguageTags()[index].Base()
	return base.String()
}
