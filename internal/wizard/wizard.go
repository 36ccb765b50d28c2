// Package wizard holds the step machine behind the multi-step form. Every
// transition is a pure function from one WizardState value to the next, so
// the guards are testable without a rendered page. A failed guard returns
// the state unchanged together with a ValidationError carrying the message
// to show the user.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"precioustime/internal/models"
)

// ValidationError is a blocked transition: the field that failed its guard
// and the message shown to the user. No network call happens on this path.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Age and worry-hour bounds enforced by the guards
const (
	MinAge        = 1
	MaxAge        = 120
	MaxWorryHours = 24.0
)

// Begin moves from the intro step to the first question
func Begin(s models.WizardState) models.WizardState {
	if s.Step != models.StepIntro {
		return s
	}
	s.Step = models.StepAge
	return s
}

// SubmitAge validates the age field and advances to the sex step
func SubmitAge(s models.WizardState, raw string) (models.WizardState, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return s, ValidationError{Field: "age", Message: "Please enter your age as a whole number."}
	}
	if age < MinAge || age > MaxAge {
		return s, ValidationError{Field: "age", Message: fmt.Sprintf("Please enter an age between %d and %d.", MinAge, MaxAge)}
	}

	s.Age = age
	s.Step = models.StepSex
	return s, nil
}

// SubmitSex validates the chosen sex code and advances to the country step
func SubmitSex(s models.WizardState, code string) (models.WizardState, error) {
	if code != models.SexMale && code != models.SexFemale {
		return s, ValidationError{Field: "sex", Message: "Please choose one of the options."}
	}

	s.Sex = code
	s.Step = models.StepCountry
	return s, nil
}

// SubmitCountry validates the selection and advances to the worry step
func SubmitCountry(s models.WizardState, code, name string) (models.WizardState, error) {
	if strings.TrimSpace(code) == "" {
		return s, ValidationError{Field: "country", Message: "Please select your country."}
	}

	s.CountryCode = code
	s.CountryName = name
	s.Step = models.StepWorry
	return s, nil
}

// SubmitWorry range-checks the daily worry hours, re-checks every earlier
// field and advances to the results step. The cross-check mirrors the
// invariant that results are only entered with all prior fields valid.
func SubmitWorry(s models.WizardState, raw string) (models.WizardState, error) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return s, ValidationError{Field: "worry", Message: "Please enter your daily worry hours as a number."}
	}
	if hours < 0 || hours > MaxWorryHours {
		return s, ValidationError{Field: "worry", Message: "Daily worry hours must be between 0 and 24."}
	}

	if s.Age < MinAge || s.Age > MaxAge || s.Sex == "" || s.CountryCode == "" {
		return s, ValidationError{Field: "form", Message: "Please go back and ensure age, sex and country are all set correctly."}
	}

	s.WorryHours = hours
	s.Step = models.StepResults
	return s, nil
}

// OpenHelp shows the help overlay from any step, remembering where to return
func OpenHelp(s models.WizardState) models.WizardState {
	if s.Step == models.StepHelp {
		return s
	}
	s.ReturnStep = s.Step
	s.Step = models.StepHelp
	return s
}

// CloseHelp restores the step that was active when the overlay opened. One
// level of memory, not a stack: opening help twice in a row is a no-op.
func CloseHelp(s models.WizardState) models.WizardState {
	if s.Step != models.StepHelp {
		return s
	}
	s.Step = s.ReturnStep
	if s.Step == "" {
		s.Step = models.StepIntro
	}
	s.ReturnStep = ""
	return s
}

// Advance applies the submit action for the current step to the given form
// values. While the help overlay is open the action is swallowed: the state
// comes back unchanged with no error.
func Advance(s models.WizardState, form map[string]string) (models.WizardState, error) {
	switch s.Step {
	case models.StepHelp:
		return s, nil
	case models.StepIntro:
		return Begin(s), nil
	case models.StepAge:
		return SubmitAge(s, form["age"])
	case models.StepSex:
		return SubmitSex(s, form["sex"])
	case models.StepCountry:
		return SubmitCountry(s, form["country"], form["countryName"])
	case models.StepWorry:
		return SubmitWorry(s, form["worryHours"])
	case models.StepResults:
		// Resubmitting from results recomputes with the same values.
		return s, nil
	}
	return s, fmt.Errorf("unknown wizard step: %s", s.Step)
}

// Restart returns to the first question keeping nothing
func Restart(models.WizardState) models.WizardState {
	s := models.NewWizardState()
	s.Step = models.StepAge
	return s
}
