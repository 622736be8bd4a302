package ticketing

import "strings"

// Status classifies the outcome of a submission attempt.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusValidationErr  Status = "validation_error"
	StatusTransportError Status = "transport_error"
	StatusParseError     Status = "parse_error"
)

// SubmissionResult is the typed outcome handed back to the wizard.
type SubmissionResult struct {
	Status   Status `json:"status"`
	TicketID string `json:"ticket_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Response mirrors the municipal API response body.
type Response struct {
	ResultCode       int          `json:"ResultCode"`
	ErrorDescription string       `json:"ErrorDescription"`
	ResultStatus     string       `json:"ResultStatus"`
	ResultData       ResponseData `json:"ResultData"`
	Data             string       `json:"data"`
}

// ResponseData carries the incident identifiers on success.
type ResponseData struct {
	IncidentGUID   string `json:"incidentGuid"`
	IncidentNumber string `json:"incidentNumber"`
}

// Succeeded reports whether the response indicates a created incident: a 200
// result code and a status containing the SUCCESS marker.
func (r Response) Succeeded() bool {
	return r.ResultCode == 200 && strings.Contains(r.ResultStatus, "SUCCESS")
}

// TicketID returns the issued ticket identifier, preferring the flat data
// field and falling back to the structured incident number.
func (r Response) TicketID() string {
	if trimmed := strings.TrimSpace(r.Data); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(r.ResultData.IncidentNumber)
}
