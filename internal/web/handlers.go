package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/motis10/muninet/internal/catalog"
	apperrors "github.com/motis10/muninet/internal/platform/errors"
	"github.com/motis10/muninet/internal/profile"
	"github.com/motis10/muninet/internal/ticketing"
	"github.com/motis10/muninet/internal/web/httpx"
	"github.com/motis10/muninet/internal/wizard"
)

const maxBodyBytes = 1 << 20

type stateResponse struct {
	Step              string                `json:"step"`
	CollectingProfile bool                  `json:"collecting_profile"`
	HasProfile        bool                  `json:"has_profile"`
	SelectedCategory  *catalog.Category     `json:"selected_category,omitempty"`
	SelectedStreet    *catalog.StreetNumber `json:"selected_street,omitempty"`
	SearchQuery       string                `json:"search_query,omitempty"`
	Description       string                `json:"description,omitempty"`
	LastTicket        string                `json:"last_ticket,omitempty"`
	Language          string                `json:"language"`
	Notice            string                `json:"notice,omitempty"`
}

type categoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
	Notice     string             `json:"notice,omitempty"`
}

type streetsResponse struct {
	Streets []catalog.StreetNumber `json:"streets"`
	Notice  string                 `json:"notice,omitempty"`
}

type submitResponse struct {
	Result  ticketing.SubmissionResult `json:"result"`
	Message string                     `json:"message"`
	State   stateResponse              `json:"state"`
}

type ticketsResponse struct {
	Tickets []string `json:"tickets"`
}

type shareResponse struct {
	Ticket  string `json:"ticket"`
	Message string `json:"message"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Code   string       `json:"code"`
	Error  string       `json:"error"`
	Detail string       `json:"detail,omitempty"`
	Fields []fieldError `json:"fields,omitempty"`
}

type selectByIDRequest struct {
	ID int `json:"id"`
}

type descriptionRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.machine.State().Step == wizard.StepCategories {
		sess.machine.SetSearchQuery(query)
	}
	items := sess.loadCategories(httpx.RequestContext(r), s.catalog)
	response := categoriesResponse{Categories: catalog.FilterCategories(query, items)}
	if response.Categories == nil {
		response.Categories = []catalog.Category{}
	}
	if sess.catalogNotice {
		response.Notice = s.translator.T(tag, "errors.no_data", nil)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, response)
}

func (s *Server) handleStreets(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.machine.State().Step == wizard.StepStreets {
		sess.machine.SetSearchQuery(query)
	}
	items := sess.loadStreets(httpx.RequestContext(r), s.catalog)
	response := streetsResponse{Streets: catalog.FilterStreets(query, items)}
	if response.Streets == nil {
		response.Streets = []catalog.StreetNumber{}
	}
	if sess.catalogNotice {
		response.Notice = s.translator.T(tag, "errors.no_data", nil)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, response)
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	var req selectByIDRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, tag, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	selected, ok := findCategory(sess.loadCategories(httpx.RequestContext(r), s.catalog), req.ID)
	if !ok {
		s.writeError(w, tag, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("category %d not found", req.ID)))
		return
	}

	_, hasProfile, err := s.clients.LoadProfile(httpx.RequestContext(r), sess.id)
	if err != nil {
		s.writeError(w, tag, err)
		return
	}
	if err := sess.machine.SelectCategory(selected, hasProfile); err != nil {
		s.writeError(w, tag, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	var contact profile.ContactProfile
	if err := decodeJSON(r, &contact); err != nil {
		s.writeError(w, tag, err)
		return
	}

	result := profile.Validate(contact, s.policy)
	if !result.Valid {
		s.writeValidationError(w, tag, result)
		return
	}
	contact.Phone = profile.NormalizePhone(contact.Phone)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.clients.SaveProfile(httpx.RequestContext(r), sess.id, contact); err != nil {
		s.writeError(w, tag, err)
		return
	}
	if sess.machine.State().CollectingProfile {
		if err := sess.machine.ProfileSaved(); err != nil {
			s.writeError(w, tag, err)
			return
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleCancelProfile(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.machine.CancelProfile()
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleSelectStreet(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	var req selectByIDRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, tag, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	selected, ok := findStreet(sess.loadStreets(httpx.RequestContext(r), s.catalog), req.ID)
	if !ok {
		s.writeError(w, tag, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("street %d not found", req.ID)))
		return
	}
	if err := sess.machine.SelectStreet(selected); err != nil {
		s.writeError(w, tag, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	var req descriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, tag, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.machine.SetDescription(req.Text); err != nil {
		s.writeError(w, tag, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)
	ctx := httpx.RequestContext(r)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.machine.CheckSummary(); err != nil {
		s.writeError(w, tag, err)
		return
	}
	contact, ok, err := s.clients.LoadProfile(ctx, sess.id)
	if err != nil {
		s.writeError(w, tag, err)
		return
	}
	if !ok {
		sess.machine.Restart()
		s.writeError(w, tag, apperrors.New(apperrors.CodeInvariantViolation, "submit with no stored profile"))
		return
	}

	state := sess.machine.State()
	result := s.orchestrator.Submit(ctx, contact, *state.SelectedCategory, *state.SelectedStreet, state.CustomDescription)
	if result.Status != ticketing.StatusSuccess {
		_ = httpx.WriteJSON(w, http.StatusBadGateway, submitResponse{
			Result:  result,
			Message: s.translator.T(tag, "errors.submission_failed", nil),
			State:   s.stateView(r, sess, tag),
		})
		return
	}

	// The incident already exists remotely; a history write failure must not
	// turn the submission into an error.
	_ = s.clients.AppendTicket(ctx, sess.id, result.TicketID)
	if err := sess.machine.SubmitSucceeded(result.TicketID); err != nil {
		s.writeError(w, tag, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, submitResponse{
		Result:  result,
		Message: s.translator.T(tag, "success.message", nil),
		State:   s.stateView(r, sess, tag),
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.machine.Restart()
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	tickets, err := s.clients.TicketHistory(httpx.RequestContext(r), sess.id)
	if err != nil {
		s.writeError(w, tag, err)
		return
	}
	if tickets == nil {
		tickets = []string{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, ticketsResponse{Tickets: tickets})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	sess.mu.Lock()
	ticket := sess.machine.State().LastTicket
	sess.mu.Unlock()

	if ticket == "" {
		tickets, err := s.clients.TicketHistory(httpx.RequestContext(r), sess.id)
		if err != nil {
			s.writeError(w, tag, err)
			return
		}
		if len(tickets) > 0 {
			ticket = tickets[len(tickets)-1]
		}
	}
	if ticket == "" {
		s.writeError(w, tag, apperrors.New(apperrors.CodeNotFound, "no ticket to share"))
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, shareResponse{
		Ticket:  ticket,
		Message: s.translator.T(tag, "success.share_message", map[string]any{"ticket": ticket}),
	})
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	tag := s.language(w, r, sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.clients.Clear(httpx.RequestContext(r), sess.id); err != nil {
		s.writeError(w, tag, err)
		return
	}
	sess.machine.Restart()
	_ = httpx.WriteJSON(w, http.StatusOK, s.stateView(r, sess, tag))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// stateView snapshots the session for the client. Callers hold sess.mu.
func (s *Server) stateView(r *http.Request, sess *session, tag language.Tag) stateResponse {
	state := sess.machine.State()
	_, hasProfile, _ := s.clients.LoadProfile(httpx.RequestContext(r), sess.id)

	view := stateResponse{
		Step:              string(state.Step),
		CollectingProfile: state.CollectingProfile,
		HasProfile:        hasProfile,
		SelectedCategory:  state.SelectedCategory,
		SelectedStreet:    state.SelectedStreet,
		SearchQuery:       state.SearchQuery,
		LastTicket:        state.LastTicket,
		Language:          tag.String(),
	}
	if state.Step == wizard.StepSummary {
		view.Description = sess.machine.Description()
	}
	if sess.catalogNotice {
		view.Notice = s.translator.T(tag, "errors.no_data", nil)
	}
	return view
}

func (s *Server) writeError(w http.ResponseWriter, tag language.Tag, err error) {
	code := apperrors.CodeOf(err)
	_ = httpx.WriteJSON(w, apperrors.HTTPStatus(err), errorResponse{
		Code:   string(code),
		Error:  s.translator.T(tag, apperrors.MessageKey(code), nil),
		Detail: err.Error(),
	})
}

func (s *Server) writeValidationError(w http.ResponseWriter, tag language.Tag, result profile.Result) {
	fields := make([]fieldError, 0, len(result.Errors))
	for _, field := range result.Errors {
		fields = append(fields, fieldError{
			Field:   string(field),
			Message: s.translator.T(tag, "validation."+string(field), nil),
		})
	}
	_ = httpx.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Code:   string(apperrors.CodeValidation),
		Error:  s.translator.T(tag, apperrors.MessageKey(apperrors.CodeValidation), nil),
		Fields: fields,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.New(apperrors.CodeValidation, "request body is required")
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, "decode request body", err)
	}
	return nil
}

func findCategory(items []catalog.Category, id int) (catalog.Category, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return catalog.Category{}, false
}

func findStreet(items []catalog.StreetNumber, id int) (catalog.StreetNumber, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return catalog.StreetNumber{}, false
}
