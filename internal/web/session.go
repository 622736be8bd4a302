package web

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/motis10/muninet/internal/catalog"
	"github.com/motis10/muninet/internal/wizard"
)

// session holds one browser's wizard machine and its catalog cache. The
// catalog is fetched once per session; a fetch failure degrades to an empty
// list with a notice instead of failing the request.
type session struct {
	id      string
	mu      sync.Mutex
	machine *wizard.Machine

	categories       []catalog.Category
	categoriesLoaded bool
	streets          []catalog.StreetNumber
	streetsLoaded    bool
	catalogNotice    bool
}

func newSession(id string) *session {
	return &session{id: id, machine: wizard.NewMachine()}
}

// loadCategories returns the session's cached category list, fetching it on
// first use.
func (s *session) loadCategories(ctx context.Context, store catalog.Store) []catalog.Category {
	if s.categoriesLoaded {
		return s.categories
	}
	items, err := store.Categories(ctx)
	if err != nil {
		log.Printf("fetch categories session=%s err=%v", s.id, err)
		s.catalogNotice = true
		items = nil
	}
	s.categories = items
	s.categoriesLoaded = true
	return s.categories
}

// loadStreets returns the session's cached street list, fetching it on first
// use.
func (s *session) loadStreets(ctx context.Context, store catalog.Store) []catalog.StreetNumber {
	if s.streetsLoaded {
		return s.streets
	}
	items, err := store.Streets(ctx)
	if err != nil {
		log.Printf("fetch streets session=%s err=%v", s.id, err)
		s.catalogNotice = true
		items = nil
	}
	s.streets = items
	s.streetsLoaded = true
	return s.streets
}

// sessionRegistry owns the live sessions. Sessions are in-memory only; the
// durable per-client records live in the client store keyed by session id.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: map[string]*session{}}
}

// ensure returns the session with the given id, creating it when absent. An
// empty id allocates a fresh one.
func (r *sessionRegistry) ensure(id string) *session {
	if id == "" {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		return sess
	}
	sess := newSession(id)
	r.sessions[id] = sess
	return sess
}

func (r *sessionRegistry) drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
