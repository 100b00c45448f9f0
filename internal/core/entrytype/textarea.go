package entrytype

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
)

// ClassTextArea is the class name of the multi-line text entry type.
const ClassTextArea = "genatt.entryTypeTextArea"

// TextArea is a multi-line text answer, optionally written in BBCode.
//
// The rich text flag is stored in the entry's FieldInLine column, which text
// areas do not otherwise use.
type TextArea struct {
	Base
	deps Deps
}

func (h *TextArea) ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage {
	title := form.Get(ParamTitle)
	help := strings.TrimSpace(form.Get(ParamHelpMessage))
	comment := form.Get(ParamComment)
	value := form.Get(ParamValue)
	width := form.Get(ParamWidth)
	height := form.Get(ParamHeight)
	maxSizeEnter := form.Get(ParamMaxSizeEnter)
	cssClass := form.Get(ParamCSSClass)
	useRichText := parseBool(form.Get(ParamUseRichText))

	fieldError := ""
	switch {
	case isBlank(title):
		fieldError = i18n.FieldTitle
	case isBlank(width):
		fieldError = i18n.FieldWidth
	case isBlank(height):
		fieldError = i18n.FieldHeight
	}
	if fieldError != "" {
		return h.deps.stop(i18n.MandatoryField, fieldError, locale)
	}

	// Every number is parsed; the last failure names the field.
	nHeight, err := strconv.Atoi(height)
	if err != nil {
		nHeight = -1
		fieldError = i18n.FieldHeight
	}
	nWidth, err := strconv.Atoi(width)
	if err != nil {
		nWidth = -1
		fieldError = i18n.FieldWidth
	}
	nMaxSizeEnter := models.Unlimited
	if !isBlank(maxSizeEnter) {
		if nMaxSizeEnter, err = strconv.Atoi(maxSizeEnter); err != nil {
			nMaxSizeEnter = models.Unlimited
			fieldError = i18n.FieldMaxSizeEnter
		}
	}
	if fieldError != "" {
		return h.deps.stop(i18n.NumericField, fieldError, locale)
	}

	entry.Title = title
	entry.HelpMessage = help
	entry.Comment = comment
	entry.CSSClass = cssClass
	entry.FieldInLine = useRichText
	entry.Mandatory = form.Has(ParamMandatory)

	field := entry.PrimaryField()
	field.Value = value
	field.Width = nWidth
	field.Height = nHeight
	field.MaxSizeEnter = nMaxSizeEnter

	return nil
}

func (h *TextArea) ParseResponse(entry *models.Entry, form url.Values, locale string) ([]*models.Response, *GenericAttributeError) {
	values, ok := form[ResponseParam(entry.ID)]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	raw := values[0]
	useRichText := entry.FieldInLine

	resp := &models.Response{Entry: entry, Value: raw}
	if useRichText {
		resp.Value = h.deps.parseRichText(raw)
	}
	if !isBlank(resp.Value) {
		if useRichText {
			resp.ToStringValue = raw
		} else {
			resp.ToStringValue = h.ValueForRecap(entry, resp, locale)
		}
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

	return responses, nil
}

func (h *TextArea) ValueForExport(entry *models.Entry, resp *models.Response, locale string) string {
	return resp.Value
}

func (h *TextArea) ValueForRecap(entry *models.Entry, resp *models.Response, locale string) string {
	return resp.Value
}

var _ Handler = (*TextArea)(nil)
