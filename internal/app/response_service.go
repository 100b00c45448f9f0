package app

import (
	"context"
	"fmt"

	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
)

// ResponseServiceImpl implements the ResponseService interface.
type ResponseServiceImpl struct {
	entryService primary.EntryService
	handlers     HandlerLookup
}

// NewResponseService creates a new ResponseService with injected dependencies.
func NewResponseService(entryService primary.EntryService, handlers HandlerLookup) *ResponseServiceImpl {
	return &ResponseServiceImpl{
		entryService: entryService,
		handlers:     handlers,
	}
}

// LoadForm retrieves root entries with their fields, and the children of
// groups.
func (s *ResponseServiceImpl) LoadForm(ctx context.Context, resourceID int, resourceType string) ([]*models.Entry, error) {
	roots, err := s.entryService.ListRootEntries(ctx, resourceID, resourceType)
	if err != nil {
		return nil, err
	}

	for i, root := range roots {
		if !root.Type.Group {
			continue
		}
		full, err := s.entryService.GetEntry(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		full.FirstInList, full.LastInList = root.FirstInList, root.LastInList
		roots[i] = full
	}
	return roots, nil
}

// CollectResponses parses every entry of the form in order. Entries
// conditional on a field are parsed only when a response selected it.
func (s *ResponseServiceImpl) CollectResponses(ctx context.Context, req primary.CollectResponsesRequest) (*primary.CollectResponsesResult, error) {
	roots, err := s.LoadForm(ctx, req.ResourceID, req.ResourceType)
	if err != nil {
		return nil, err
	}

	c := &collector{service: s, req: req, result: &primary.CollectResponsesResult{}}
	for _, entry := range roots {
		if err := c.collect(ctx, entry); err != nil {
			return nil, err
		}
	}
	return c.result, nil
}

type collector struct {
	service *ResponseServiceImpl
	req     primary.CollectResponsesRequest
	result  *primary.CollectResponsesResult
}

func (c *collector) collect(ctx context.Context, entry *models.Entry) error {
	if entry.Type.Group {
		for _, child := range entry.Children {
			// Reached through the field they depend on.
			if child.IsConditional() {
				continue
			}
			if err := c.collect(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	handler, err := c.service.handlers.Lookup(entry.Type.ClassName)
	if err != nil {
		return err
	}

	responses, gerr := handler.ParseResponse(entry, c.req.Form, c.req.Locale)
	c.result.Responses = append(c.result.Responses, responses...)
	if gerr != nil {
		c.result.Errors = append(c.result.Errors, gerr)
	}

	for _, resp := range responses {
		if resp.Field == nil || resp.Field.ID == 0 {
			continue
		}
		if err := c.collectConditional(ctx, resp.Field.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) collectConditional(ctx context.Context, fieldID int) error {
	dependents, err := c.service.entryService.ListEntries(ctx, primary.EntryFilters{
		ResourceID:    c.req.ResourceID,
		ResourceType:  c.req.ResourceType,
		FieldDependID: fieldID,
	})
	if err != nil {
		return err
	}

	for _, d := range dependents {
		entry, err := c.service.entryService.GetEntry(ctx, d.ID)
		if err != nil {
			return err
		}
		if err := c.collect(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// FormatResponses renders responses for export or recap.
func (s *ResponseServiceImpl) FormatResponses(ctx context.Context, responses []*models.Response, format primary.ResponseFormat, locale string) ([]primary.FormattedResponse, error) {
	if format != primary.FormatExport && format != primary.FormatRecap {
		return nil, fmt.Errorf("unknown response format %q", format)
	}

	formatted := make([]primary.FormattedResponse, 0, len(responses))
	for _, resp := range responses {
		handler, err := s.lookup(resp.Entry)
		if err != nil {
			return nil, err
		}

		value := handler.ValueForRecap(resp.Entry, resp, locale)
		if format == primary.FormatExport {
			value = handler.ValueForExport(resp.Entry, resp, locale)
		}
		formatted = append(formatted, primary.FormattedResponse{
			EntryID: resp.Entry.ID,
			Title:   resp.Entry.Title,
			Value:   value,
		})
	}
	return formatted, nil
}

func (s *ResponseServiceImpl) lookup(entry *models.Entry) (entrytype.Handler, error) {
	if entry == nil || entry.Type == nil {
		return nil, fmt.Errorf("response has no entry type")
	}
	return s.handlers.Lookup(entry.Type.ClassName)
}

// Ensure ResponseServiceImpl implements the interface
var _ primary.ResponseService = (*ResponseServiceImpl)(nil)
