package sessiontoken

import (
	"strings"
	"testing"
	"time"
)

var testConfig = Config{Secret: []byte("test-secret")}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := Issue(testConfig, "session-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sessionID, err := Verify(testConfig, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sessionID != "session-1" {
		t.Fatalf("session id = %q, want session-1", sessionID)
	}
}

func TestIssueRequiresSecretAndSessionID(t *testing.T) {
	t.Parallel()

	if _, err := Issue(Config{}, "session-1"); err == nil {
		t.Fatal("expected error without secret")
	}
	if _, err := Issue(testConfig, "  "); err == nil {
		t.Fatal("expected error without session id")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Issue(testConfig, "session-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Verify(Config{Secret: []byte("other-secret")}, token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	token, err := Issue(Config{
		Secret: testConfig.Secret,
		TTL:    time.Hour,
		Now:    func() time.Time { return issued },
	}, "session-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := Config{
		Secret: testConfig.Secret,
		Now:    func() time.Time { return issued.Add(2 * time.Hour) },
	}
	if _, err := Verify(later, token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "   ", "not-a-token", strings.Repeat("a.", 3)} {
		if _, err := Verify(testConfig, token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}
