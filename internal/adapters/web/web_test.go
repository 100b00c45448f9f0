package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/genatt/internal/adapters/web"
	"github.com/example/genatt/internal/config"
	"github.com/example/genatt/internal/db"
	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/wire"
)

const (
	typeText     = 1
	typeTextArea = 2
	typeCheckBox = 3
	typeComment  = 4
	typeGroup    = 5
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log.SetOutput(io.Discard)

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database))
	_, err = db.SeedEntryTypes(context.Background(), database)
	require.NoError(t, err)

	services, err := wire.NewServices(database, config.Default())
	require.NoError(t, err)

	app, err := web.NewApp(services.Entries, services.Fields, services.Responses, services.Catalog)
	require.NoError(t, err)

	srv := httptest.NewServer(web.Wire(app))
	t.Cleanup(srv.Close)
	return srv
}

// client does not follow redirects so tests can inspect them.
func client() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, srv *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(web.ActorHeader, "admin")
	resp, err := client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := client().Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

type entryJSON struct {
	ID                         int    `json:"id"`
	Title                      string `json:"title"`
	Position                   int    `json:"position"`
	ParentID                   int    `json:"parent_id"`
	FieldDependID              int    `json:"field_depend_id"`
	Mandatory                  bool   `json:"mandatory"`
	NumberConditionalQuestions int    `json:"number_conditional_questions"`
	Fields                     []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Width int    `json:"width"`
	} `json:"fields"`
	Children []entryJSON `json:"children"`
}

// createEntry creates an entry on FORM 1 and returns it.
func createEntry(t *testing.T, srv *httptest.Server, query string, form url.Values) entryJSON {
	t.Helper()
	resp := postForm(t, srv, "/admin/resources/FORM/1/entries?"+query, form)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var e entryJSON
	decode(t, resp, &e)
	return e
}

func addField(t *testing.T, srv *httptest.Server, entryID int, title string) int {
	t.Helper()
	resp := postForm(t, srv, fmt.Sprintf("/admin/entries/%d/fields", entryID), url.Values{"title": {title}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var f struct {
		ID int `json:"id"`
	}
	decode(t, resp, &f)
	return f.ID
}

// ============================================================================
// API
// ============================================================================

func TestHealthz(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"ok"`)
}

func TestListEntryTypes(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/api/entry-types")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []struct {
		ID        int    `json:"id"`
		ClassName string `json:"class_name"`
		Group     bool   `json:"group"`
	}
	decode(t, resp, &types)
	require.Len(t, types, 5)
	assert.Equal(t, "genatt.entryTypeText", types[0].ClassName)
	assert.True(t, types[4].Group)
}

func TestGetEntry_NotFound(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/api/entries/999")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetEntry_NonNumericID(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/api/entries/abc")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAndCountEntries(t *testing.T) {
	srv := newServer(t)
	group := createEntry(t, srv, fmt.Sprintf("type=%d", typeGroup), url.Values{"title": {"Identity"}})
	createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d", typeText, group.ID), url.Values{"title": {"Name"}, "width": {"30"}})
	createEntry(t, srv, fmt.Sprintf("type=%d", typeTextArea), url.Values{"title": {"Remarks"}, "width": {"40"}, "height": {"5"}})

	resp := get(t, srv, "/api/resources/FORM/1/entries?root=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roots []entryJSON
	decode(t, resp, &roots)
	require.Len(t, roots, 2)
	assert.Equal(t, "Identity", roots[0].Title)
	assert.Equal(t, "Remarks", roots[1].Title)

	resp = get(t, srv, fmt.Sprintf("/api/resources/FORM/1/entries?parent=%d", group.ID))
	var children []entryJSON
	decode(t, resp, &children)
	require.Len(t, children, 1)
	assert.Equal(t, group.ID, children[0].ParentID)

	resp = get(t, srv, "/api/resources/FORM/1/entries/count")
	var count struct {
		Count int `json:"count"`
	}
	decode(t, resp, &count)
	assert.Equal(t, 3, count.Count)

	resp = get(t, srv, "/api/resources/FORM/2/entries/count")
	decode(t, resp, &count)
	assert.Equal(t, 0, count.Count)
}

func TestListEntries_BadFilter(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/api/resources/FORM/1/entries?group=maybe")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ============================================================================
// Admin
// ============================================================================

func TestCreateEntry_TextArea(t *testing.T) {
	srv := newServer(t)

	e := createEntry(t, srv, fmt.Sprintf("type=%d", typeTextArea), url.Values{
		"title":          {"Your comment"},
		"width":          {"50"},
		"height":         {"5"},
		"max_size_enter": {"200"},
		"mandatory":      {"on"},
	})

	assert.NotZero(t, e.ID)
	assert.Equal(t, 1, e.Position)
	assert.True(t, e.Mandatory)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, 50, e.Fields[0].Width)

	resp := get(t, srv, fmt.Sprintf("/api/entries/%d", e.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got entryJSON
	decode(t, resp, &got)
	assert.Equal(t, "Your comment", got.Title)
}

func TestCreateEntry_MissingType(t *testing.T) {
	srv := newServer(t)

	resp := postForm(t, srv, "/admin/resources/FORM/1/entries", url.Values{"title": {"x"}})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateEntry_UnknownType(t *testing.T) {
	srv := newServer(t)

	resp := postForm(t, srv, "/admin/resources/FORM/1/entries?type=42", url.Values{"title": {"x"}})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateEntry_RejectedConfigRedirectsToMessage(t *testing.T) {
	srv := newServer(t)

	resp := postForm(t, srv, fmt.Sprintf("/admin/resources/FORM/1/entries?type=%d&lang=fr", typeTextArea), url.Values{
		"title":  {""},
		"width":  {"50"},
		"height": {"5"},
	})

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(location, "/admin/message?"), location)

	page := get(t, srv, location+"&lang=fr")
	require.Equal(t, http.StatusOK, page.StatusCode)
	html := body(t, page)
	assert.Contains(t, html, "Erreur")
	assert.Contains(t, html, "Libellé")
	assert.Contains(t, html, "obligatoire")
}

func TestShowMessage_MissingKey(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/admin/message")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateEntry_ParentMustBeGroup(t *testing.T) {
	srv := newServer(t)
	text := createEntry(t, srv, fmt.Sprintf("type=%d", typeText), url.Values{"title": {"Name"}, "width": {"30"}})

	resp := postForm(t, srv, fmt.Sprintf("/admin/resources/FORM/1/entries?type=%d&parent=%d", typeText, text.ID),
		url.Values{"title": {"Nested"}, "width": {"30"}})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateEntry(t *testing.T) {
	srv := newServer(t)
	e := createEntry(t, srv, fmt.Sprintf("type=%d", typeText), url.Values{"title": {"Name"}, "width": {"30"}})

	resp := postForm(t, srv, fmt.Sprintf("/admin/entries/%d", e.ID), url.Values{"title": {"Full name"}, "width": {"60"}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = get(t, srv, fmt.Sprintf("/api/entries/%d", e.ID))
	var got entryJSON
	decode(t, resp, &got)
	assert.Equal(t, "Full name", got.Title)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, 60, got.Fields[0].Width)
}

func TestDeleteEntry_GroupNeedsForce(t *testing.T) {
	srv := newServer(t)
	group := createEntry(t, srv, fmt.Sprintf("type=%d", typeGroup), url.Values{"title": {"Identity"}})
	createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d", typeText, group.ID), url.Values{"title": {"Name"}, "width": {"30"}})

	resp := postForm(t, srv, fmt.Sprintf("/admin/entries/%d/delete", group.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postForm(t, srv, fmt.Sprintf("/admin/entries/%d/delete?force=true", group.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = get(t, srv, "/api/resources/FORM/1/entries/count")
	var count struct {
		Count int `json:"count"`
	}
	decode(t, resp, &count)
	assert.Equal(t, 0, count.Count)
}

func TestDeleteEntry_GroupWithConditionalMembers(t *testing.T) {
	srv := newServer(t)
	group := createEntry(t, srv, fmt.Sprintf("type=%d", typeGroup), url.Values{"title": {"G"}})
	a := createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d", typeCheckBox, group.ID), url.Values{"title": {"A"}})
	f := addField(t, srv, a.ID, "F")
	b := createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d&field_depend=%d", typeCheckBox, group.ID, f), url.Values{"title": {"B"}})
	g := addField(t, srv, b.ID, "G")
	createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d&field_depend=%d", typeText, group.ID, g), url.Values{"title": {"C"}, "width": {"20"}})

	resp := postForm(t, srv, fmt.Sprintf("/admin/entries/%d/delete?force=true", group.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = get(t, srv, fmt.Sprintf("/api/entries/%d", group.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, srv, "/api/resources/FORM/1/entries/count")
	var count struct {
		Count int `json:"count"`
	}
	decode(t, resp, &count)
	assert.Equal(t, 0, count.Count)
}

func TestCopyEntry(t *testing.T) {
	srv := newServer(t)
	e := createEntry(t, srv, fmt.Sprintf("type=%d", typeText), url.Values{"title": {"Name"}, "width": {"30"}})

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/admin/entries/%d/copy", srv.URL, e.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	resp, err := client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cp entryJSON
	decode(t, resp, &cp)
	assert.NotEqual(t, e.ID, cp.ID)
	assert.Equal(t, "Copie de Name", cp.Title)
	assert.Equal(t, 2, cp.Position)
}

func TestMoveConditionalEntry(t *testing.T) {
	srv := newServer(t)
	choice := createEntry(t, srv, fmt.Sprintf("type=%d", typeCheckBox), url.Values{"title": {"Colour"}})
	fieldID := addField(t, srv, choice.ID, "Red")

	first := createEntry(t, srv, fmt.Sprintf("type=%d&field_depend=%d", typeText, fieldID), url.Values{"title": {"Which red"}, "width": {"20"}})
	second := createEntry(t, srv, fmt.Sprintf("type=%d&field_depend=%d", typeText, fieldID), url.Values{"title": {"Why red"}, "width": {"20"}})
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)

	resp := postForm(t, srv, fmt.Sprintf("/admin/entries/%d/move?direction=up", first.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postForm(t, srv, fmt.Sprintf("/admin/entries/%d/move?direction=sideways", first.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postForm(t, srv, fmt.Sprintf("/admin/entries/%d/move?direction=up", second.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = get(t, srv, fmt.Sprintf("/api/resources/FORM/1/entries?field_depend=%d", fieldID))
	var deps []entryJSON
	decode(t, resp, &deps)
	require.Len(t, deps, 2)
	assert.Equal(t, "Why red", deps[0].Title)
	assert.Equal(t, "Which red", deps[1].Title)
}

func TestRemoveField_WithDependents(t *testing.T) {
	srv := newServer(t)
	choice := createEntry(t, srv, fmt.Sprintf("type=%d", typeCheckBox), url.Values{"title": {"Colour"}})
	red := addField(t, srv, choice.ID, "Red")
	blue := addField(t, srv, choice.ID, "Blue")
	createEntry(t, srv, fmt.Sprintf("type=%d&field_depend=%d", typeText, red), url.Values{"title": {"Which red"}, "width": {"20"}})

	resp := postForm(t, srv, fmt.Sprintf("/admin/fields/%d/delete", red), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postForm(t, srv, fmt.Sprintf("/admin/fields/%d/delete", blue), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAddField_ToGroupDenied(t *testing.T) {
	srv := newServer(t)
	group := createEntry(t, srv, fmt.Sprintf("type=%d", typeGroup), url.Values{"title": {"Identity"}})

	resp := postForm(t, srv, fmt.Sprintf("/admin/entries/%d/fields", group.ID), url.Values{"title": {"x"}})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ============================================================================
// Public form
// ============================================================================

func TestShowForm(t *testing.T) {
	srv := newServer(t)
	group := createEntry(t, srv, fmt.Sprintf("type=%d", typeGroup), url.Values{"title": {"Identity"}})
	name := createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d", typeText, group.ID), url.Values{"title": {"Name"}, "width": {"30"}})
	createEntry(t, srv, fmt.Sprintf("type=%d", typeComment), url.Values{"comment": {"Thank you"}})

	resp := get(t, srv, "/resources/FORM/1/form")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	html := body(t, resp)
	assert.Contains(t, html, "<legend>Identity</legend>")
	assert.Contains(t, html, fmt.Sprintf(`name="attribute%d"`, name.ID))
	assert.Contains(t, html, "Thank you")
	assert.Contains(t, html, `action="/resources/FORM/1/responses"`)
}

func TestShowForm_HidesConditionalGroupMembers(t *testing.T) {
	srv := newServer(t)
	group := createEntry(t, srv, fmt.Sprintf("type=%d", typeGroup), url.Values{"title": {"Preferences"}})
	colour := createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d", typeCheckBox, group.ID), url.Values{"title": {"Colour"}})
	red := addField(t, srv, colour.ID, "Red")
	whyRed := createEntry(t, srv, fmt.Sprintf("type=%d&parent=%d&field_depend=%d", typeText, group.ID, red), url.Values{"title": {"Why red"}, "width": {"20"}})

	resp := get(t, srv, "/resources/FORM/1/form")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, fmt.Sprintf(`name="attribute%d"`, colour.ID))
	assert.NotContains(t, html, fmt.Sprintf(`name="attribute%d"`, whyRed.ID))
}

func TestShowForm_Empty(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv, "/resources/FORM/1/form")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitResponses(t *testing.T) {
	srv := newServer(t)
	comment := createEntry(t, srv, fmt.Sprintf("type=%d", typeTextArea), url.Values{
		"title":          {"Your comment"},
		"width":          {"50"},
		"height":         {"5"},
		"max_size_enter": {"10"},
		"mandatory":      {"on"},
	})
	choice := createEntry(t, srv, fmt.Sprintf("type=%d", typeCheckBox), url.Values{"title": {"Colour"}})
	red := addField(t, srv, choice.ID, "Red")

	type submission struct {
		Responses []struct {
			EntryID int    `json:"entry_id"`
			Value   string `json:"value"`
		} `json:"responses"`
		Errors []struct {
			EntryID   int    `json:"entry_id"`
			Message   string `json:"message"`
			Mandatory bool   `json:"mandatory"`
		} `json:"errors"`
	}

	t.Run("valid", func(t *testing.T) {
		resp := postForm(t, srv, "/resources/FORM/1/responses", url.Values{
			fmt.Sprintf("attribute%d", comment.ID): {"Fine"},
			fmt.Sprintf("attribute%d", choice.ID):  {fmt.Sprint(red)},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got submission
		decode(t, resp, &got)
		assert.Empty(t, got.Errors)
		require.Len(t, got.Responses, 2)
		assert.Equal(t, "Fine", got.Responses[0].Value)
		assert.Equal(t, "Red", got.Responses[1].Value)
	})

	t.Run("mandatory answer missing", func(t *testing.T) {
		resp := postForm(t, srv, "/resources/FORM/1/responses", url.Values{
			fmt.Sprintf("attribute%d", comment.ID): {""},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var got submission
		decode(t, resp, &got)
		require.Len(t, got.Errors, 1)
		assert.Equal(t, comment.ID, got.Errors[0].EntryID)
		assert.True(t, got.Errors[0].Mandatory)
	})

	t.Run("answer too long", func(t *testing.T) {
		resp := postForm(t, srv, "/resources/FORM/1/responses", url.Values{
			fmt.Sprintf("attribute%d", comment.ID): {"far more than ten characters"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var got submission
		decode(t, resp, &got)
		require.Len(t, got.Errors, 1)
		assert.Contains(t, got.Errors[0].Message, "10")
	})

	t.Run("unknown choice", func(t *testing.T) {
		resp := postForm(t, srv, "/resources/FORM/1/responses", url.Values{
			fmt.Sprintf("attribute%d", comment.ID): {"Fine"},
			fmt.Sprintf("attribute%d", choice.ID):  {"99999"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
