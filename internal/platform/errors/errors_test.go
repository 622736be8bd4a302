package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "phone is malformed")
	if !stderrors.Is(err, New(CodeValidation, "different message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeTransport, "phone is malformed")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("connection refused")
	err := Wrap(CodeTransport, "post incident", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "post incident" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "post incident")
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeParse, "undecodable body")
	wrapped := fmt.Errorf("submit: %w", inner)

	if got := CodeOf(wrapped); got != CodeParse {
		t.Fatalf("CodeOf = %q, want %q", got, CodeParse)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain error = %q, want %q", got, CodeUnknown)
	}
	if got := CodeOf(nil); got != CodeUnknown {
		t.Fatalf("CodeOf nil = %q, want %q", got, CodeUnknown)
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := map[Code]int{
		CodeValidation:         http.StatusUnprocessableEntity,
		CodeInvariantViolation: http.StatusConflict,
		CodeStepNotAllowed:     http.StatusConflict,
		CodeTransport:          http.StatusBadGateway,
		CodeParse:              http.StatusBadGateway,
		CodeNotFound:           http.StatusNotFound,
		CodeUnavailable:        http.StatusServiceUnavailable,
		CodeUnknown:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(New(code, "x")); got != want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestMessageKeyFallsBackToGeneric(t *testing.T) {
	t.Parallel()

	if got := MessageKey(CodeInternal); got != "errors.generic" {
		t.Fatalf("MessageKey(internal) = %q, want errors.generic", got)
	}
	if got := MessageKey(CodeTransport); got != "errors.submission_failed" {
		t.Fatalf("MessageKey(transport) = %q, want errors.submission_failed", got)
	}
}
