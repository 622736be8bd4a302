package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8080")
	}
	if cfg.Debug {
		t.Fatalf("Debug = %t, want false", cfg.Debug)
	}
	if cfg.Routing.CityCode != "7400" {
		t.Fatalf("Routing.CityCode = %q, want 7400", cfg.Routing.CityCode)
	}
}

func TestParseConfigFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-http-addr", "127.0.0.1:9002",
		"-debug",
		"-supabase-url", "https://catalog.example.test",
	})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
	if !cfg.Debug {
		t.Fatalf("Debug = %t, want true", cfg.Debug)
	}
	if cfg.SupabaseURL != "https://catalog.example.test" {
		t.Fatalf("SupabaseURL = %q", cfg.SupabaseURL)
	}
}

func TestParseConfigEnvSeedsDefaults(t *testing.T) {
	t.Setenv("MUNINET_HTTP_ADDR", "0.0.0.0:9900")
	t.Setenv("MUNINET_CITY_CODE", "1234")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9900" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "0.0.0.0:9900")
	}
	if cfg.Routing.CityCode != "1234" {
		t.Fatalf("Routing.CityCode = %q, want 1234", cfg.Routing.CityCode)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		SupabaseURL:   "https://catalog.example.test",
		SessionSecret: "secret",
		Debug:         true,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	missingSupabase := base
	missingSupabase.SupabaseURL = ""
	if err := missingSupabase.Validate(); err == nil {
		t.Fatal("expected error without supabase url")
	}

	missingSecret := base
	missingSecret.SessionSecret = ""
	if err := missingSecret.Validate(); err == nil {
		t.Fatal("expected error without session secret")
	}

	liveWithoutEndpoint := base
	liveWithoutEndpoint.Debug = false
	if err := liveWithoutEndpoint.Validate(); err == nil {
		t.Fatal("expected error without ticket endpoint outside debug mode")
	}

	liveWithEndpoint := liveWithoutEndpoint
	liveWithEndpoint.TicketEndpoint = "https://city.example.test/incidents"
	if err := liveWithEndpoint.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
