package entrytype

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
)

// ClassCheckBox is the class name of the multiple choice entry type.
const ClassCheckBox = "genatt.entryTypeCheckBox"

// CheckBox offers the entry's fields as choices. The submitted values are
// field IDs.
type CheckBox struct {
	Base
	deps Deps
}

func (h *CheckBox) ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage {
	title := form.Get(ParamTitle)
	if isBlank(title) {
		return h.deps.stop(i18n.MandatoryField, i18n.FieldTitle, locale)
	}

	entry.Title = title
	entry.HelpMessage = strings.TrimSpace(form.Get(ParamHelpMessage))
	entry.Comment = form.Get(ParamComment)
	entry.CSSClass = form.Get(ParamCSSClass)
	entry.Mandatory = form.Has(ParamMandatory)
	entry.FieldInLine = form.Has(ParamFieldInLine)
	return nil
}

func (h *CheckBox) ParseResponse(entry *models.Entry, form url.Values, locale string) ([]*models.Response, *GenericAttributeError) {
	var responses []*models.Response
	for _, v := range form[ResponseParam(entry.ID)] {
		if isBlank(v) {
			continue
		}
		id, err := strconv.Atoi(v)
		if err != nil {
			return responses, h.deps.answerError(entry, locale, i18n.InvalidChoice, nil)
		}
		field, ok := entry.FieldByID(id)
		if !ok {
			return responses, h.deps.answerError(entry, locale, i18n.InvalidChoice, nil)
		}
		resp := &models.Response{Entry: entry, Field: field, Value: field.Value}
		h.SetResponseToStringValue(entry, resp, locale)
		responses = append(responses, resp)
	}

	if len(responses) == 0 && entry.Mandatory {
		responses = append(responses, &models.Response{Entry: entry})
		return responses, NewMandatoryError(entry, h.deps.Messages, locale)
	}
	return responses, nil
}

func (h *CheckBox) ValueForExport(entry *models.Entry, resp *models.Response, locale string) string {
	if resp.Field != nil {
		return resp.Field.Title
	}
	return resp.Value
}

func (h *CheckBox) ValueForRecap(entry *models.Entry, resp *models.Response, locale string) string {
	return h.ValueForExport(entry, resp, locale)
}

// SetResponseToStringValue uses the title of the selected choice.
func (h *CheckBox) SetResponseToStringValue(entry *models.Entry, resp *models.Response, locale string) {
	resp.ToStringValue = h.ValueForExport(entry, resp, locale)
}

var _ Handler = (*CheckBox)(nil)
