package entrytype

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
)

// ClassText is the class name of the single-line text entry type.
const ClassText = "genatt.entryTypeText"

// Text is a single-line text answer. It may ask the user to type the value
// twice.
type Text struct {
	Base
	deps Deps
}

func (h *Text) ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage {
	title := form.Get(ParamTitle)
	width := form.Get(ParamWidth)
	maxSizeEnter := form.Get(ParamMaxSizeEnter)

	fieldError := ""
	switch {
	case isBlank(title):
		fieldError = i18n.FieldTitle
	case isBlank(width):
		fieldError = i18n.FieldWidth
	}
	if fieldError != "" {
		return h.deps.stop(i18n.MandatoryField, fieldError, locale)
	}

	nWidth, err := strconv.Atoi(width)
	if err != nil {
		fieldError = i18n.FieldWidth
	}
	nMaxSizeEnter := models.Unlimited
	if !isBlank(maxSizeEnter) {
		if nMaxSizeEnter, err = strconv.Atoi(maxSizeEnter); err != nil {
			fieldError = i18n.FieldMaxSizeEnter
		}
	}
	if fieldError != "" {
		return h.deps.stop(i18n.NumericField, fieldError, locale)
	}

	entry.Title = title
	entry.HelpMessage = strings.TrimSpace(form.Get(ParamHelpMessage))
	entry.Comment = form.Get(ParamComment)
	entry.CSSClass = form.Get(ParamCSSClass)
	entry.ErrorMessage = form.Get(ParamErrorMessage)
	entry.Mandatory = form.Has(ParamMandatory)
	entry.Unique = form.Has(ParamUnique)
	entry.ConfirmField = form.Has(ParamConfirmField)
	entry.ConfirmFieldTitle = ""
	if entry.ConfirmField {
		entry.ConfirmFieldTitle = form.Get(ParamConfirmFieldTitle)
	}

	field := entry.PrimaryField()
	field.Value = form.Get(ParamValue)
	field.Width = nWidth
	field.MaxSizeEnter = nMaxSizeEnter

	return nil
}

func (h *Text) ParseResponse(entry *models.Entry, form url.Values, locale string) ([]*models.Response, *GenericAttributeError) {
	param := ResponseParam(entry.ID)
	values, ok := form[param]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	raw := values[0]

	resp := &models.Response{Entry: entry, Value: raw}
	if !isBlank(raw) {
		resp.ToStringValue = h.ValueForRecap(entry, resp, locale)
	}
	responses := []*models.Response{resp}

	if h.deps.containsXSS(raw) {
		return responses, h.deps.answerError(entry, locale, i18n.XSSField, nil)
	}

	maxSize := maxSizeEnter(entry)
	if maxSize != models.Unlimited && utf8.RuneCountInString(raw) > maxSize {
		return responses, h.deps.answerError(entry, locale, i18n.MaxLength, map[string]any{"Max": maxSize})
	}

	if entry.Mandatory && isBlank(raw) {
		return responses, NewMandatoryError(entry, h.deps.Messages, locale)
	}

	if entry.ConfirmField && form.Get(param+SuffixConfirm) != raw {
		return responses, h.deps.answerError(entry, locale, i18n.ConfirmMismatch, nil)
	}

	return responses, nil
}

func (h *Text) ValueForExport(entry *models.Entry, resp *models.Response, locale string) string {
	return resp.Value
}

func (h *Text) ValueForRecap(entry *models.Entry, resp *models.Response, locale string) string {
	return resp.Value
}

func (h *Text) RegularExpressions(entry *models.Entry) []RegularExpression {
	return h.deps.RegularExpressions
}

var _ Handler = (*Text)(nil)
