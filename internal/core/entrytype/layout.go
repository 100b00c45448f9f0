package entrytype

import (
	"net/url"

	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
)

const (
	// ClassComment is the class name of display-only text blocks.
	ClassComment = "genatt.entryTypeComment"
	// ClassGroup is the class name of entries that contain other entries.
	ClassGroup = "genatt.entryTypeGroup"
)

// Comment is a block of text shown in the form. It collects no answer.
type Comment struct {
	Base
	deps Deps
}

func (h *Comment) ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage {
	comment := form.Get(ParamComment)
	if isBlank(comment) {
		return h.deps.stop(i18n.MandatoryField, i18n.FieldComment, locale)
	}
	entry.Comment = comment
	entry.CSSClass = form.Get(ParamCSSClass)
	return nil
}

// Group holds child entries. It collects no answer itself.
type Group struct {
	Base
	deps Deps
}

func (h *Group) ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage {
	title := form.Get(ParamTitle)
	if isBlank(title) {
		return h.deps.stop(i18n.MandatoryField, i18n.FieldTitle, locale)
	}
	entry.Title = title
	entry.Comment = form.Get(ParamComment)
	entry.CSSClass = form.Get(ParamCSSClass)
	return nil
}

var (
	_ Handler = (*Comment)(nil)
	_ Handler = (*Group)(nil)
)
