// Package wizard tracks one session's progress through the complaint
// submission flow: categories → streets → summary → success.
package wizard

// Step is a wizard step.
type Step string

const (
	StepCategories Step = "categories"
	StepStreets    Step = "streets"
	StepSummary    Step = "summary"
	StepSuccess    Step = "success"
)

// allowedTransitions defines the valid forward transitions. The key is the
// current step, the value the set of valid target steps. Backward movement
// is not a transition; it is a full reset.
var allowedTransitions = map[Step][]Step{
	StepCategories: {StepStreets},
	StepStreets:    {StepSummary},
	StepSummary:    {StepSuccess},
	StepSuccess:    {StepCategories},
}

// canTransition reports whether moving from one step to another is allowed.
func canTransition(from, to Step) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
