package entities

// StepState is the state of one step of a stepper widget. Each state is shown
// by its own marker element inside the step.
type StepState string

const (
	StepActive   StepState = "active"
	StepTicked   StepState = "ticked"
	StepInactive StepState = "inactive"
	// StepUnknown means zero or several markers are present at once.
	StepUnknown StepState = "unknown"
)
