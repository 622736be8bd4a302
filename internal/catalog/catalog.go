// Package catalog defines the read-only complaint catalog: the categories a
// citizen can report and the street entries they can pick as the location.
package catalog

import (
	"context"
	"strings"
)

// Category is a complaint type the citizen can report. Immutable once
// fetched; fetched once per session and cached.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Text     string `json:"text"` // comma-separated description options
	ImageURL string `json:"image_url"`
}

// DescriptionOptions parses the comma-separated Text column into an ordered
// list of candidate complaint descriptions.
func (c Category) DescriptionOptions() []string {
	if strings.TrimSpace(c.Text) == "" {
		return nil
	}
	parts := strings.Split(c.Text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// StreetNumber is a street/house-number entry the citizen selects as the
// complaint location.
type StreetNumber struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	HouseNumber string `json:"house_number"`
	ImageURL    string `json:"image_url"`
}

// Store fetches catalog collections from the remote read-only store. The
// search variants apply the same case-insensitive substring semantics as the
// in-memory filters, server side.
type Store interface {
	Categories(ctx context.Context) ([]Category, error)
	Streets(ctx context.Context) ([]StreetNumber, error)
	SearchCategories(ctx context.Context, query string) ([]Category, error)
	SearchStreets(ctx context.Context, query string) ([]StreetNumber, error)
}
