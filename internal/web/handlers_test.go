package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/motis10/muninet/internal/catalog"
	"github.com/motis10/muninet/internal/i18n"
	apperrors "github.com/motis10/muninet/internal/platform/errors"
	"github.com/motis10/muninet/internal/storage"
	"github.com/motis10/muninet/internal/ticketing"
)

type stubCatalog struct {
	categories []catalog.Category
	streets    []catalog.StreetNumber
	err        error
}

func (s *stubCatalog) Categories(context.Context) ([]catalog.Category, error) {
	return s.categories, s.err
}

func (s *stubCatalog) Streets(context.Context) ([]catalog.StreetNumber, error) {
	return s.streets, s.err
}

func (s *stubCatalog) SearchCategories(_ context.Context, query string) ([]catalog.Category, error) {
	return catalog.FilterCategories(query, s.categories), s.err
}

func (s *stubCatalog) SearchStreets(_ context.Context, query string) ([]catalog.StreetNumber, error) {
	return catalog.FilterStreets(query, s.streets), s.err
}

var testCatalog = &stubCatalog{
	categories: []catalog.Category{
		{ID: 1, Name: "Street Lighting", Text: "lamp broken,light weak"},
		{ID: 2, Name: "Garbage", Text: "bin overflowing"},
	},
	streets: []catalog.StreetNumber{
		{ID: 7, Name: "Herzl 42", HouseNumber: "42"},
		{ID: 8, Name: "Weizmann 3", HouseNumber: "3"},
	},
}

func newTestHandler(t *testing.T, store catalog.Store) http.Handler {
	t.Helper()
	server, err := NewServer(Config{
		Catalog:       store,
		Orchestrator:  ticketing.NewOrchestrator(ticketing.MockSubmitter{}, ticketing.DefaultRouting()),
		Clients:       storage.NewClientStore(storage.NewMemoryKV()),
		Translator:    i18n.Default(),
		SessionSecret: []byte("test-secret"),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server.Routes()
}

// testClient replays response cookies on subsequent requests so a test
// exercises one browser session end to end.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, handler http.Handler) *testClient {
	return &testClient{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(method, target string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestStateStartsAtCategories(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodGet, "/api/state", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	state := decodeBody[stateResponse](t, rr)
	if state.Step != "categories" || state.CollectingProfile || state.HasProfile {
		t.Fatalf("state = %+v", state)
	}
	if state.Language != "he" {
		t.Fatalf("language = %q, want he", state.Language)
	}
	if client.cookies[SessionCookieName] == nil {
		t.Fatal("expected a session cookie")
	}
}

func TestFullWizardFlow(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))

	rr := client.do(http.MethodGet, "/api/categories?q=lamp", nil)
	listing := decodeBody[categoriesResponse](t, rr)
	if len(listing.Categories) != 1 || listing.Categories[0].ID != 1 {
		t.Fatalf("categories = %+v", listing.Categories)
	}

	// No stored profile yet: selection parks the wizard in the
	// profile-collection sub-state.
	rr = client.do(http.MethodPost, "/api/category", selectByIDRequest{ID: 1})
	state := decodeBody[stateResponse](t, rr)
	if state.Step != "categories" || !state.CollectingProfile {
		t.Fatalf("state after select = %+v", state)
	}

	rr = client.do(http.MethodPost, "/api/profile", map[string]string{
		"first_name": "Noa",
		"last_name":  "Levi",
		"phone":      "+972-50-123-4567",
	})
	state = decodeBody[stateResponse](t, rr)
	if state.Step != "streets" || state.CollectingProfile || !state.HasProfile {
		t.Fatalf("state after profile = %+v", state)
	}

	rr = client.do(http.MethodPost, "/api/street", selectByIDRequest{ID: 7})
	state = decodeBody[stateResponse](t, rr)
	if state.Step != "summary" {
		t.Fatalf("step = %q, want summary", state.Step)
	}
	if state.Description != "lamp broken" {
		t.Fatalf("description = %q, want lamp broken", state.Description)
	}

	rr = client.do(http.MethodPut, "/api/description", descriptionRequest{Text: "the lamp on my corner flickers"})
	state = decodeBody[stateResponse](t, rr)
	if state.Description != "the lamp on my corner flickers" {
		t.Fatalf("description = %q", state.Description)
	}

	rr = client.do(http.MethodPost, "/api/submit", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("submit status = %d body = %s", rr.Code, rr.Body.String())
	}
	submitted := decodeBody[submitResponse](t, rr)
	if submitted.Result.Status != ticketing.StatusSuccess {
		t.Fatalf("result = %+v", submitted.Result)
	}
	if submitted.Result.TicketID != ticketing.MockTicketID {
		t.Fatalf("ticket = %q, want %q", submitted.Result.TicketID, ticketing.MockTicketID)
	}
	if submitted.State.Step != "success" || submitted.State.LastTicket != ticketing.MockTicketID {
		t.Fatalf("state after submit = %+v", submitted.State)
	}

	rr = client.do(http.MethodGet, "/api/tickets", nil)
	history := decodeBody[ticketsResponse](t, rr)
	if len(history.Tickets) != 1 || history.Tickets[0] != ticketing.MockTicketID {
		t.Fatalf("tickets = %v", history.Tickets)
	}

	rr = client.do(http.MethodGet, "/api/share", nil)
	share := decodeBody[shareResponse](t, rr)
	if share.Ticket != ticketing.MockTicketID || !strings.Contains(share.Message, ticketing.MockTicketID) {
		t.Fatalf("share = %+v", share)
	}

	// Restart keeps the profile and the history.
	rr = client.do(http.MethodPost, "/api/restart", nil)
	state = decodeBody[stateResponse](t, rr)
	if state.Step != "categories" || !state.HasProfile {
		t.Fatalf("state after restart = %+v", state)
	}
	rr = client.do(http.MethodGet, "/api/tickets", nil)
	history = decodeBody[ticketsResponse](t, rr)
	if len(history.Tickets) != 1 {
		t.Fatalf("tickets after restart = %v", history.Tickets)
	}
}

func TestSelectCategoryUnknownIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodPost, "/api/category", selectByIDRequest{ID: 99})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	failure := decodeBody[errorResponse](t, rr)
	if failure.Code != string(apperrors.CodeNotFound) {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestSaveProfileInvalidReturnsFieldErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodPost, "/api/profile", map[string]string{
		"first_name": "Noa",
		"phone":      "12",
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	failure := decodeBody[errorResponse](t, rr)
	if failure.Code != string(apperrors.CodeValidation) {
		t.Fatalf("code = %q", failure.Code)
	}
	fields := map[string]bool{}
	for _, field := range failure.Fields {
		fields[field.Field] = true
		if field.Message == "" {
			t.Fatalf("field %q has no message", field.Field)
		}
	}
	if !fields["last_name"] || !fields["phone"] {
		t.Fatalf("fields = %+v", failure.Fields)
	}
}

func TestSubmitOutsideSummaryConflicts(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodPost, "/api/submit", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestCatalogFailureDegradesToEmptyList(t *testing.T) {
	t.Parallel()

	failing := &stubCatalog{err: apperrors.New(apperrors.CodeUnavailable, "catalog down")}
	client := newTestClient(t, newTestHandler(t, failing))

	rr := client.do(http.MethodGet, "/api/categories", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	listing := decodeBody[categoriesResponse](t, rr)
	if len(listing.Categories) != 0 {
		t.Fatalf("categories = %+v", listing.Categories)
	}
	if listing.Notice == "" {
		t.Fatal("expected a no-data notice")
	}
}

func TestLanguageQueryParamPersistsCookie(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodGet, "/api/state?lang=en-US", nil)
	state := decodeBody[stateResponse](t, rr)
	if state.Language != "en-US" {
		t.Fatalf("language = %q, want en-US", state.Language)
	}

	// Subsequent requests pick up the cookie without the param.
	rr = client.do(http.MethodGet, "/api/state", nil)
	state = decodeBody[stateResponse](t, rr)
	if state.Language != "en-US" {
		t.Fatalf("language without param = %q, want en-US", state.Language)
	}
}

func TestClearDataRemovesProfileAndHistory(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	client.do(http.MethodPost, "/api/category", selectByIDRequest{ID: 1})
	client.do(http.MethodPost, "/api/profile", map[string]string{
		"first_name": "Noa",
		"last_name":  "Levi",
		"phone":      "0501234567",
	})
	client.do(http.MethodPost, "/api/street", selectByIDRequest{ID: 7})
	client.do(http.MethodPost, "/api/submit", nil)

	rr := client.do(http.MethodDelete, "/api/profile", nil)
	state := decodeBody[stateResponse](t, rr)
	if state.Step != "categories" || state.HasProfile {
		t.Fatalf("state after clear = %+v", state)
	}

	rr = client.do(http.MethodGet, "/api/tickets", nil)
	history := decodeBody[ticketsResponse](t, rr)
	if len(history.Tickets) != 0 {
		t.Fatalf("tickets after clear = %v", history.Tickets)
	}
}

func TestSessionStatePersistsAcrossRequests(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, testCatalog)
	client := newTestClient(t, handler)
	client.do(http.MethodPost, "/api/category", selectByIDRequest{ID: 1})

	rr := client.do(http.MethodGet, "/api/state", nil)
	state := decodeBody[stateResponse](t, rr)
	if state.SelectedCategory == nil || state.SelectedCategory.ID != 1 {
		t.Fatalf("state = %+v", state)
	}

	// A fresh browser with no cookie gets its own session.
	other := newTestClient(t, handler)
	rr = other.do(http.MethodGet, "/api/state", nil)
	state = decodeBody[stateResponse](t, rr)
	if state.SelectedCategory != nil {
		t.Fatalf("expected clean session, got %+v", state)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodGet, "/api/submit", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	rr = client.do(http.MethodPatch, "/api/profile", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newTestHandler(t, testCatalog))
	rr := client.do(http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}
