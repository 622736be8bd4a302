package ticketing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/motis10/muninet/internal/catalog"
	apperrors "github.com/motis10/muninet/internal/platform/errors"
	"github.com/motis10/muninet/internal/profile"
)

// Orchestrator assembles submission payloads from the wizard's selections
// and interprets the remote response into a typed result. No retry is
// performed; the caller offers the user a manual retry by resubmitting.
type Orchestrator struct {
	submitter Submitter
	routing   Routing
	tracer    trace.Tracer
}

// NewOrchestrator returns an orchestrator over the given submitter.
func NewOrchestrator(submitter Submitter, routing Routing) *Orchestrator {
	return &Orchestrator{
		submitter: submitter,
		routing:   routing,
		tracer:    otel.Tracer("muninet/ticketing"),
	}
}

// Submit builds the payload and performs one submission attempt. The
// description falls back to the category's first description option when no
// custom text was provided.
func (o *Orchestrator) Submit(ctx context.Context, caller profile.ContactProfile, category catalog.Category, street catalog.StreetNumber, customDescription string) SubmissionResult {
	description := customDescription
	if description == "" {
		if options := category.DescriptionOptions(); len(options) > 0 {
			description = options[0]
		}
	}

	ctx, span := o.tracer.Start(ctx, "ticketing.submit", trace.WithAttributes(
		attribute.Int("muninet.category_id", category.ID),
		attribute.Int("muninet.street_id", street.ID),
	))
	defer span.End()

	payload := BuildPayload(o.routing, caller, description, street.HouseNumber)
	response, err := o.submitter.Submit(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
		return resultFromError(err)
	}

	if !response.Succeeded() {
		span.SetStatus(codes.Error, "incident rejected")
		return SubmissionResult{
			Status:  StatusTransportError,
			Message: response.ErrorDescription,
		}
	}

	span.SetAttributes(attribute.String("muninet.ticket_id", response.TicketID()))
	return SubmissionResult{
		Status:   StatusSuccess,
		TicketID: response.TicketID(),
	}
}

func resultFromError(err error) SubmissionResult {
	status := StatusTransportError
	if apperrors.CodeOf(err) == apperrors.CodeParse {
		status = StatusParseError
	}
	return SubmissionResult{Status: status, Message: err.Error()}
}
