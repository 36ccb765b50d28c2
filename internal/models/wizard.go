package models

// Step identifies one screen of the wizard
type Step string

const (
	StepIntro   Step = "intro"
	StepAge     Step = "age"
	StepSex     Step = "sex"
	StepCountry Step = "country"
	StepWorry   Step = "worry"
	StepResults Step = "results"
	StepHelp    Step = "help"
)

// Sex codes as the upstream indicator API expects them
const (
	SexMale   = "MLE"
	SexFemale = "FMLE"
)

// SexLabel maps a wire sex code to its display label
func SexLabel(code string) string {
	switch code {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	}
	return code
}

// WizardState holds the current step and everything the visitor has entered so far.
// It is a plain value: transitions take one in and return a new one, so guards are
// testable without a rendered page.
type WizardState struct {
	Step       Step
	ReturnStep Step // step to restore when the help overlay closes

	Age         int
	Sex         string
	CountryCode string
	CountryName string
	WorryHours  float64
}

// NewWizardState returns the initial state, on the intro step
func NewWizardState() WizardState {
	return WizardState{Step: StepIntro}
}
