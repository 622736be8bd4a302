// Package storage persists per-client wizard data: the contact profile, the
// language preference and the ticket history.
//
// The backing store is a last-write-wins key-value store. Concurrent writers
// (two tabs on the same client id) are not coordinated; the last write wins.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/motis10/muninet/internal/profile"
)

// Fixed storage keys, one record each per client.
const (
	KeyProfile  = "user_data"
	KeyLanguage = "language"
	KeyTickets  = "ticket_history"
)

// KV is the minimal persistent key-value contract.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ClientStore layers the wizard's typed records over a KV store, scoping
// every key by client id.
type ClientStore struct {
	kv KV
}

// NewClientStore returns a typed store over the provided KV backend.
func NewClientStore(kv KV) *ClientStore {
	return &ClientStore{kv: kv}
}

// SaveProfile persists the contact profile, overwriting any previous value.
func (s *ClientStore) SaveProfile(ctx context.Context, clientID string, p profile.ContactProfile) error {
	encoded, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.kv.Set(ctx, clientKey(clientID, KeyProfile), string(encoded))
}

// LoadProfile fetches the stored contact profile, reporting whether one
// exists.
func (s *ClientStore) LoadProfile(ctx context.Context, clientID string) (profile.ContactProfile, bool, error) {
	raw, ok, err := s.kv.Get(ctx, clientKey(clientID, KeyProfile))
	if err != nil || !ok {
		return profile.ContactProfile{}, false, err
	}
	var p profile.ContactProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return profile.ContactProfile{}, false, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, true, nil
}

// SaveLanguage persists the language preference.
func (s *ClientStore) SaveLanguage(ctx context.Context, clientID, language string) error {
	return s.kv.Set(ctx, clientKey(clientID, KeyLanguage), language)
}

// LoadLanguage fetches the stored language preference, if any.
func (s *ClientStore) LoadLanguage(ctx context.Context, clientID string) (string, bool, error) {
	return s.kv.Get(ctx, clientKey(clientID, KeyLanguage))
}

// AppendTicket appends a ticket to the client's history. The history is
// append-only and suppresses duplicate values.
func (s *ClientStore) AppendTicket(ctx context.Context, clientID, ticket string) error {
	trimmed := strings.TrimSpace(ticket)
	if trimmed == "" {
		return fmt.Errorf("ticket id is required")
	}
	tickets, err := s.TicketHistory(ctx, clientID)
	if err != nil {
		return err
	}
	for _, existing := range tickets {
		if existing == trimmed {
			return nil
		}
	}
	tickets = append(tickets, trimmed)
	encoded, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("marshal ticket history: %w", err)
	}
	return s.kv.Set(ctx, clientKey(clientID, KeyTickets), string(encoded))
}

// TicketHistory returns the client's ordered ticket history.
func (s *ClientStore) TicketHistory(ctx context.Context, clientID string) ([]string, error) {
	raw, ok, err := s.kv.Get(ctx, clientKey(clientID, KeyTickets))
	if err != nil || !ok {
		return nil, err
	}
	var tickets []string
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		return nil, fmt.Errorf("unmarshal ticket history: %w", err)
	}
	return tickets, nil
}

// Clear removes every stored record for the client. Only the explicit
// clear-data action calls this.
func (s *ClientStore) Clear(ctx context.Context, clientID string) error {
	for _, key := range []string{KeyProfile, KeyLanguage, KeyTickets} {
		if err := s.kv.Remove(ctx, clientKey(clientID, key)); err != nil {
			return err
		}
	}
	return nil
}

func clientKey(clientID, key string) string {
	return clientID + "/" + key
}

// MemoryKV is an in-process KV store. It backs tests and deployments that
// opt out of durable storage.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

// Get fetches a value.
func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores a value, overwriting any previous one.
func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove deletes a value.
func (m *MemoryKV) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
