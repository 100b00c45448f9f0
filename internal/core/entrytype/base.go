package entrytype

import (
	"mime/multipart"
	"net/url"

	"github.com/example/genatt/internal/models"
)

// Base implements every Handler method with a neutral default. Handlers
// embed it and override what their entry type needs.
type Base struct{}

func (Base) ParseConfig(entry *models.Entry, form url.Values, locale string) *AdminMessage {
	return nil
}

func (Base) ParseResponse(entry *models.Entry, form url.Values, locale string) ([]*models.Response, *GenericAttributeError) {
	return nil, nil
}

func (Base) ValueForExport(entry *models.Entry, resp *models.Response, locale string) string {
	return ""
}

func (Base) ValueForRecap(entry *models.Entry, resp *models.Response, locale string) string {
	return ""
}

func (Base) RegularExpressions(entry *models.Entry) []RegularExpression {
	return nil
}

// SetResponseToStringValue copies the raw value.
func (Base) SetResponseToStringValue(entry *models.Entry, resp *models.Response, locale string) {
	resp.ToStringValue = resp.Value
}

func (Base) CanUploadFiles(entry *models.Entry, uploaded, toUpload []*multipart.FileHeader, locale string) *GenericAttributeError {
	return nil
}

var _ Handler = Base{}
