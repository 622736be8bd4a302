package wizard

import (
	"strings"

	"github.com/motis10/muninet/internal/catalog"
	apperrors "github.com/motis10/muninet/internal/platform/errors"
)

// State is one session's wizard state. It is exclusively owned by that
// session; handlers receive it through the session registry, never through
// globals.
type State struct {
	Step              Step
	CollectingProfile bool
	SelectedCategory  *catalog.Category
	SelectedStreet    *catalog.StreetNumber
	SearchQuery       string
	CustomDescription string
	LastTicket        string
}

// Machine mutates a wizard State according to the allowed transitions and
// their side effects.
type Machine struct {
	state State
}

// NewMachine returns a machine at the initial step.
func NewMachine() *Machine {
	return &Machine{state: State{Step: StepCategories}}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// SetSearchQuery records the active catalog search query.
func (m *Machine) SetSearchQuery(query string) {
	m.state.SearchQuery = query
}

// SelectCategory picks a complaint category. Selecting a category clears any
// previously generated description. Without a stored profile the machine
// stays on categories and enters the profile-collection sub-state.
func (m *Machine) SelectCategory(category catalog.Category, hasProfile bool) error {
	if m.state.Step != StepCategories {
		return apperrors.New(apperrors.CodeStepNotAllowed, "select category outside categories step")
	}
	selected := category
	m.state.SelectedCategory = &selected
	m.state.CustomDescription = ""

	if !hasProfile {
		m.state.CollectingProfile = true
		return nil
	}
	return m.advance(StepStreets)
}

// ProfileSaved completes the profile-collection sub-state and proceeds to
// the streets step.
func (m *Machine) ProfileSaved() error {
	if m.state.Step != StepCategories || !m.state.CollectingProfile {
		return apperrors.New(apperrors.CodeStepNotAllowed, "profile saved outside collection sub-state")
	}
	if m.state.SelectedCategory == nil {
		return m.violate("profile saved with no selected category")
	}
	m.state.CollectingProfile = false
	return m.advance(StepStreets)
}

// CancelProfile abandons profile collection and clears the pending category.
func (m *Machine) CancelProfile() {
	m.state.CollectingProfile = false
	m.state.SelectedCategory = nil
	m.state.CustomDescription = ""
	m.state.SearchQuery = ""
}

// SelectStreet picks a street entry and moves to the summary step.
func (m *Machine) SelectStreet(street catalog.StreetNumber) error {
	if m.state.Step != StepStreets {
		return apperrors.New(apperrors.CodeStepNotAllowed, "select street outside streets step")
	}
	if m.state.SelectedCategory == nil {
		return m.violate("streets step with no selected category")
	}
	selected := street
	m.state.SelectedStreet = &selected
	return m.advance(StepSummary)
}

// SetDescription overrides the generated complaint description.
func (m *Machine) SetDescription(text string) error {
	if m.state.Step != StepSummary {
		return apperrors.New(apperrors.CodeStepNotAllowed, "edit description outside summary step")
	}
	m.state.CustomDescription = strings.TrimSpace(text)
	return nil
}

// Description returns the text to submit: the custom description when set,
// otherwise the selected category's first description option.
func (m *Machine) Description() string {
	if m.state.CustomDescription != "" {
		return m.state.CustomDescription
	}
	if m.state.SelectedCategory == nil {
		return ""
	}
	options := m.state.SelectedCategory.DescriptionOptions()
	if len(options) == 0 {
		return ""
	}
	return options[0]
}

// CheckSummary verifies the summary-step invariant: both selections present.
// A violation hard-resets the machine to categories.
func (m *Machine) CheckSummary() error {
	if m.state.Step != StepSummary {
		return apperrors.New(apperrors.CodeStepNotAllowed, "not at summary step")
	}
	if m.state.SelectedCategory == nil || m.state.SelectedStreet == nil {
		return m.violate("summary step with missing selections")
	}
	return nil
}

// SubmitSucceeded records the issued ticket and completes the wizard.
func (m *Machine) SubmitSucceeded(ticket string) error {
	if err := m.CheckSummary(); err != nil {
		return err
	}
	m.state.LastTicket = ticket
	return m.advance(StepSuccess)
}

// Restart returns to the initial step. Selections, the generated description
// and the search query are cleared; the stored profile and ticket history
// are owned elsewhere and survive.
func (m *Machine) Restart() {
	m.reset()
}

func (m *Machine) advance(to Step) error {
	if !canTransition(m.state.Step, to) {
		return apperrors.New(apperrors.CodeStepNotAllowed, "transition not allowed")
	}
	// Leaving categories or streets clears the active search query.
	if m.state.Step == StepCategories || m.state.Step == StepStreets {
		m.state.SearchQuery = ""
	}
	m.state.Step = to
	return nil
}

// violate resets to the initial step and reports the invariant violation.
// Invariant violations are not retried.
func (m *Machine) violate(message string) error {
	m.reset()
	return apperrors.New(apperrors.CodeInvariantViolation, message)
}

func (m *Machine) reset() {
	m.state = State{Step: StepCategories}
}
