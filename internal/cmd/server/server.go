// Package server wires configuration into the running wizard API process.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/motis10/muninet/internal/catalog/supabase"
	"github.com/motis10/muninet/internal/i18n"
	"github.com/motis10/muninet/internal/platform/config"
	"github.com/motis10/muninet/internal/platform/otel"
	"github.com/motis10/muninet/internal/storage"
	boltstore "github.com/motis10/muninet/internal/storage/bbolt"
	"github.com/motis10/muninet/internal/ticketing"
	"github.com/motis10/muninet/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server command configuration. Environment variables seed
// the defaults; flags override them.
type Config struct {
	HTTPAddr       string `env:"MUNINET_HTTP_ADDR" envDefault:"localhost:8080"`
	SupabaseURL    string `env:"MUNINET_SUPABASE_URL"`
	SupabaseKey    string `env:"MUNINET_SUPABASE_KEY"`
	TicketEndpoint string `env:"MUNINET_TICKET_ENDPOINT"`
	TicketOrigin   string `env:"MUNINET_TICKET_ORIGIN"`
	TicketReferer  string `env:"MUNINET_TICKET_REFERER"`
	StoragePath    string `env:"MUNINET_STORAGE_PATH"`
	SessionSecret  string `env:"MUNINET_SESSION_SECRET"`
	Debug          bool   `env:"MUNINET_DEBUG"`

	Routing ticketing.Routing
}

// ParseConfig parses environment variables and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := config.ParseEnv(&cfg.Routing); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.SupabaseURL, "supabase-url", cfg.SupabaseURL, "Catalog store base URL")
	fs.StringVar(&cfg.TicketEndpoint, "ticket-endpoint", cfg.TicketEndpoint, "Municipal incidents endpoint URL")
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "BoltDB file path (empty for in-memory)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Use the mock submitter instead of the live endpoint")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration can produce a working server.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SupabaseURL) == "" {
		return fmt.Errorf("supabase url is required")
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("MUNINET_SESSION_SECRET is required")
	}
	if !c.Debug && strings.TrimSpace(c.TicketEndpoint) == "" {
		return fmt.Errorf("ticket endpoint is required outside debug mode")
	}
	return nil
}

// Run starts the wizard API server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := otel.Setup(ctx, "muninet-server")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	catalogStore, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return fmt.Errorf("init catalog store: %w", err)
	}

	submitter, err := buildSubmitter(cfg)
	if err != nil {
		return err
	}

	kv, closeKV, err := openKV(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer closeKV()

	server, err := web.NewServer(web.Config{
		Catalog:       catalogStore,
		Orchestrator:  ticketing.NewOrchestrator(submitter, cfg.Routing),
		Clients:       storage.NewClientStore(kv),
		Translator:    i18n.Default(),
		SessionSecret: []byte(cfg.SessionSecret),
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening addr=%s debug=%t", cfg.HTTPAddr, cfg.Debug)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildSubmitter(cfg Config) (ticketing.Submitter, error) {
	if cfg.Debug {
		return ticketing.MockSubmitter{}, nil
	}
	submitter, err := ticketing.NewHTTPSubmitter(cfg.TicketEndpoint,
		ticketing.WithBrowserContext(cfg.TicketOrigin, cfg.TicketReferer))
	if err != nil {
		return nil, fmt.Errorf("init submitter: %w", err)
	}
	return submitter, nil
}

func openKV(path string) (storage.KV, func(), error) {
	if strings.TrimSpace(path) == "" {
		log.Printf("storage path is empty, client data will not survive restarts")
		return storage.NewMemoryKV(), func() {}, nil
	}
	store, err := boltstore.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}, nil
}
