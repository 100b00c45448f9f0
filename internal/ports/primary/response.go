package primary

import (
	"context"
	"net/url"

	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/models"
)

// ResponseService defines the primary port for end user submissions.
type ResponseService interface {
	// LoadForm retrieves the entry tree shown to end users: root entries
	// with their fields and the children of groups.
	LoadForm(ctx context.Context, resourceID int, resourceType string) ([]*models.Entry, error)

	// CollectResponses parses and validates a submitted form. Validation
	// failures are returned in the result, not as an error.
	CollectResponses(ctx context.Context, req CollectResponsesRequest) (*CollectResponsesResult, error)

	// FormatResponses renders responses for export or recap.
	FormatResponses(ctx context.Context, responses []*models.Response, format ResponseFormat, locale string) ([]FormattedResponse, error)
}

// CollectResponsesRequest contains a submitted form.
type CollectResponsesRequest struct {
	ResourceID   int
	ResourceType string
	Form         url.Values
	Locale       string
}

// CollectResponsesResult contains every parsed response and every
// validation error, in form order.
type CollectResponsesResult struct {
	Responses []*models.Response
	Errors    []*entrytype.GenericAttributeError
}

// ResponseFormat selects how responses are rendered.
type ResponseFormat string

const (
	FormatExport ResponseFormat = "export"
	FormatRecap  ResponseFormat = "recap"
)

// FormattedResponse is one rendered response.
type FormattedResponse struct {
	EntryID int
	Title   string
	Value   string
}
