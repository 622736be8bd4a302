// Package web serves the wizard's session-scoped JSON API. Rendering is the
// caller's concern; every endpoint speaks JSON.
package web

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/motis10/muninet/internal/catalog"
	"github.com/motis10/muninet/internal/i18n"
	"github.com/motis10/muninet/internal/i18n/i18nhttp"
	"github.com/motis10/muninet/internal/profile"
	"github.com/motis10/muninet/internal/storage"
	"github.com/motis10/muninet/internal/ticketing"
	"github.com/motis10/muninet/internal/web/httpx"
	"github.com/motis10/muninet/internal/web/sessiontoken"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "muninet_session"

// Config wires the server's collaborators.
type Config struct {
	Catalog       catalog.Store
	Orchestrator  *ticketing.Orchestrator
	Clients       *storage.ClientStore
	Translator    i18n.Translator
	Policy        profile.Policy
	SessionSecret []byte
	SessionTTL    time.Duration
}

// Server handles the wizard API.
type Server struct {
	catalog      catalog.Store
	orchestrator *ticketing.Orchestrator
	clients      *storage.ClientStore
	translator   i18n.Translator
	policy       profile.Policy
	sessions     *sessionRegistry
	tokens       sessiontoken.Config
	tracer       trace.Tracer
}

// NewServer validates the configuration and returns a server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("submission orchestrator is required")
	}
	if cfg.Clients == nil {
		return nil, fmt.Errorf("client store is required")
	}
	if len(cfg.SessionSecret) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}
	policy := cfg.Policy
	if policy == (profile.Policy{}) {
		policy = profile.DefaultPolicy()
	}
	return &Server{
		catalog:      cfg.Catalog,
		orchestrator: cfg.Orchestrator,
		clients:      cfg.Clients,
		translator:   cfg.Translator,
		policy:       policy,
		sessions:     newSessionRegistry(),
		tokens:       sessiontoken.Config{Secret: cfg.SessionSecret, TTL: cfg.SessionTTL},
		tracer:       otel.Tracer("muninet/web"),
	}, nil
}

// Routes returns the API handler with the shared middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/state", httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(s.handleState)))
	mux.Handle("/api/categories", httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(s.handleCategories)))
	mux.Handle("/api/streets", httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(s.handleStreets)))
	mux.Handle("/api/category", httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(s.handleSelectCategory)))
	mux.Handle("/api/profile", http.HandlerFunc(s.handleProfile))
	mux.Handle("/api/profile/cancel", httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(s.handleCancelProfile)))
	mux.Handle("/api/street", httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(s.handleSelectStreet)))
	mux.Handle("/api/description", httpx.RequireMethod(http.MethodPut)(http.HandlerFunc(s.handleDescription)))
	mux.Handle("/api/submit", httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(s.handleSubmit)))
	mux.Handle("/api/restart", httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(s.handleRestart)))
	mux.Handle("/api/tickets", httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(s.handleTickets)))
	mux.Handle("/api/share", httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(s.handleShare)))
	mux.Handle("/healthz", httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(s.handleHealthz)))

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		s.traceRequests(),
	)
}

func (s *Server) traceRequests() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := s.tracer.Start(httpx.RequestContext(r), "web.request", trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.path", r.URL.Path),
			))
			defer span.End()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// handleProfile splits the shared /api/profile path by method: save on POST,
// clear-data on DELETE.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSaveProfile(w, r)
	case http.MethodDelete:
		s.handleClearData(w, r)
	default:
		w.Header().Set("Allow", http.MethodPost+", "+http.MethodDelete)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ensureSession resolves the session cookie, reviving or creating the session
// as needed. A verified token whose session is gone (process restart) keeps
// its id so the durable client records still line up.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) *session {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if id, err := sessiontoken.Verify(s.tokens, cookie.Value); err == nil {
			return s.sessions.ensure(id)
		}
	}

	sess := s.sessions.ensure("")
	if token, err := sessiontoken.Issue(s.tokens, sess.id); err == nil {
		s.setSessionCookie(w, token)
	}
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := s.tokens.TTL
	if ttl <= 0 {
		ttl = sessiontoken.DefaultTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// language resolves the request language. An explicit lang query param is
// persisted as both a cookie and the client's stored preference; with no
// cookie present the stored preference wins over Accept-Language.
func (s *Server) language(w http.ResponseWriter, r *http.Request, sess *session) language.Tag {
	tag, persist := i18nhttp.ResolveTag(r)
	if persist {
		i18nhttp.SetLanguageCookie(w, tag)
		_ = s.clients.SaveLanguage(httpx.RequestContext(r), sess.id, tag.String())
		return tag
	}

	if _, err := r.Cookie(i18nhttp.LangCookieName); err != nil {
		if stored, ok, err := s.clients.LoadLanguage(httpx.RequestContext(r), sess.id); err == nil && ok {
			if storedTag, valid := i18n.ParseTag(stored); valid {
				return storedTag
			}
		}
	}
	return tag
}
