package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	apperrors "github.com/motis10/muninet/internal/platform/errors"
)

// DefaultTimeout bounds the single blocking submission round-trip. There is
// no cancellation mechanism beyond it.
const DefaultTimeout = 30 * time.Second

// Submitter posts an incident payload and returns the raw API response.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (Response, error)
}

// HTTPSubmitter posts payloads to the live municipal endpoint as
// multipart/form-data with a single json part, the shape the SharePoint
// handler expects.
type HTTPSubmitter struct {
	endpoint   string
	origin     string
	referer    string
	httpClient *http.Client
}

// HTTPOption configures an HTTPSubmitter.
type HTTPOption func(*HTTPSubmitter)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) HTTPOption {
	return func(s *HTTPSubmitter) {
		if httpClient != nil {
			s.httpClient = httpClient
		}
	}
}

// WithBrowserContext sets the Origin and Referer headers sent with each
// submission. The live endpoint rejects requests without them.
func WithBrowserContext(origin, referer string) HTTPOption {
	return func(s *HTTPSubmitter) {
		s.origin = origin
		s.referer = referer
	}
}

// NewHTTPSubmitter returns a submitter for the given endpoint URL.
func NewHTTPSubmitter(endpoint string, opts ...HTTPOption) (*HTTPSubmitter, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("ticketing endpoint is required")
	}
	submitter := &HTTPSubmitter{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(submitter)
	}
	return submitter, nil
}

// Submit posts the payload and decodes the response body. The endpoint
// serves JSON under a text/html content type, so decoding ignores the
// declared type and works off the bytes.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload Payload) (Response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInternal, "marshal payload", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(jsonPartHeader())
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInternal, "create json part", err)
	}
	if _, err := part.Write(encoded); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInternal, "write json part", err)
	}
	if err := writer.Close(); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInternal, "close multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeTransport, "build incident request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json;odata=verbose")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	if s.origin != "" {
		req.Header.Set("Origin", s.origin)
	}
	if s.referer != "" {
		req.Header.Set("Referer", s.referer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeTransport, "post incident", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, apperrors.New(apperrors.CodeTransport,
			fmt.Sprintf("post incident: status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeTransport, "read incident response", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Response{}, apperrors.New(apperrors.CodeParse, "empty incident response")
	}

	var decoded Response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		snippet := string(raw)
		if len(snippet) > 100 {
			snippet = snippet[:100]
		}
		return Response{}, apperrors.Wrap(apperrors.CodeParse,
			fmt.Sprintf("decode incident response: %q", snippet), err)
	}
	return decoded, nil
}

func jsonPartHeader() textproto.MIMEHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="json"`)
	header.Set("Content-Type", "application/json")
	return header
}

// MockTicketID is the ticket identifier the mock submitter always issues.
const MockTicketID = "MOCK-0001"

// MockIncidentGUID is the incident GUID the mock submitter always issues.
const MockIncidentGUID = "mock-guid-1234"

// MockSubmitter bypasses the network and returns a canned success. Used for
// local development and tests against no live backend.
type MockSubmitter struct{}

// Submit returns the fixed mock response, deterministically.
func (MockSubmitter) Submit(context.Context, Payload) (Response, error) {
	return Response{
		ResultCode:       200,
		ErrorDescription: "Mocked success.",
		ResultStatus:     "SUCCESS CREATE",
		ResultData: ResponseData{
			IncidentGUID:   MockIncidentGUID,
			IncidentNumber: MockTicketID,
		},
		Data: MockTicketID,
	}, nil
}
