package wizard

import (
	"errors"
	"testing"

	"precioustime/internal/models"
)

// completeToWorry walks a state through every guard with valid answers
func completeToWorry(t *testing.T) models.WizardState {
	t.Helper()

	s := Begin(models.NewWizardState())
	s, err := SubmitAge(s, "30")
	if err != nil {
		t.Fatal(err)
	}
	s, err = SubmitSex(s, models.SexFemale)
	if err != nil {
		t.Fatal(err)
	}
	s, err = SubmitCountry(s, "CAN", "Canada")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHappyPathReachesResults(t *testing.T) {
	s := completeToWorry(t)

	s, err := SubmitWorry(s, "2.5")
	if err != nil {
		t.Fatalf("SubmitWorry() error: %v", err)
	}

	if s.Step != models.StepResults {
		t.Errorf("Step = %s, want results", s.Step)
	}
	if s.Age != 30 || s.Sex != models.SexFemale || s.CountryCode != "CAN" || s.WorryHours != 2.5 {
		t.Errorf("state fields = %+v", s)
	}
}

func TestAgeGuard(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		blocked bool
	}{
		{name: "lower bound", raw: "1", blocked: false},
		{name: "upper bound", raw: "120", blocked: false},
		{name: "zero", raw: "0", blocked: true},
		{name: "too old", raw: "121", blocked: true},
		{name: "negative", raw: "-4", blocked: true},
		{name: "not a number", raw: "abc", blocked: true},
		{name: "empty", raw: "", blocked: true},
		{name: "fractional", raw: "30.5", blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := Begin(models.NewWizardState())
			s, err := SubmitAge(start, tt.raw)

			if tt.blocked {
				if err == nil {
					t.Fatal("expected guard to block")
				}
				var verr ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error type = %T, want ValidationError", err)
				}
				if s != start {
					t.Error("blocked transition must not change state")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected guard failure: %v", err)
				}
				if s.Step != models.StepSex {
					t.Errorf("Step = %s, want sex", s.Step)
				}
			}
		})
	}
}

func TestSexGuard(t *testing.T) {
	s := models.WizardState{Step: models.StepSex, Age: 30}

	if _, err := SubmitSex(s, "unknown"); err == nil {
		t.Error("expected unknown code to be rejected")
	}
	if _, err := SubmitSex(s, ""); err == nil {
		t.Error("expected empty code to be rejected")
	}

	next, err := SubmitSex(s, models.SexMale)
	if err != nil {
		t.Fatal(err)
	}
	if next.Step != models.StepCountry || next.Sex != models.SexMale {
		t.Errorf("state = %+v", next)
	}
}

func TestCountryGuard(t *testing.T) {
	s := models.WizardState{Step: models.StepCountry, Age: 30, Sex: models.SexMale}

	if _, err := SubmitCountry(s, "  ", "nowhere"); err == nil {
		t.Error("expected blank code to be rejected")
	}

	next, err := SubmitCountry(s, "JPN", "Japan")
	if err != nil {
		t.Fatal(err)
	}
	if next.Step != models.StepWorry || next.CountryName != "Japan" {
		t.Errorf("state = %+v", next)
	}
}

func TestWorryGuard(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		blocked bool
	}{
		{name: "zero", raw: "0", blocked: false},
		{name: "full day", raw: "24", blocked: false},
		{name: "fractional", raw: "1.5", blocked: false},
		{name: "negative", raw: "-1", blocked: true},
		{name: "over a day", raw: "24.5", blocked: true},
		{name: "not a number", raw: "lots", blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SubmitWorry(completeToWorry(t), tt.raw)

			if tt.blocked {
				if err == nil {
					t.Fatal("expected guard to block")
				}
				if s.Step != models.StepWorry {
					t.Error("blocked transition must stay on the worry step")
				}
			} else if err != nil {
				t.Fatalf("unexpected guard failure: %v", err)
			}
		})
	}
}

func TestWorryCrossChecksEarlierFields(t *testing.T) {
	// A state that somehow reached the worry step without a country must not
	// enter results.
	s := models.WizardState{Step: models.StepWorry, Age: 30, Sex: models.SexMale}

	if _, err := SubmitWorry(s, "2"); err == nil {
		t.Error("expected cross-check to block entry to results")
	}
}

func TestHelpOverlayReturnsToPriorStep(t *testing.T) {
	for _, step := range []models.Step{
		models.StepIntro, models.StepAge, models.StepSex,
		models.StepCountry, models.StepWorry, models.StepResults,
	} {
		t.Run(string(step), func(t *testing.T) {
			s := models.WizardState{Step: step}

			open := OpenHelp(s)
			if open.Step != models.StepHelp {
				t.Fatalf("Step = %s, want help", open.Step)
			}

			closed := CloseHelp(open)
			if closed.Step != step {
				t.Errorf("CloseHelp returned to %s, want %s", closed.Step, step)
			}
			if closed.ReturnStep != "" {
				t.Error("return memory should be cleared on close")
			}
		})
	}
}

func TestHelpOverlayMemoryIsOneLevel(t *testing.T) {
	s := OpenHelp(models.WizardState{Step: models.StepCountry})
	// A second open while already on help must not overwrite the memory.
	s = OpenHelp(s)

	if CloseHelp(s).Step != models.StepCountry {
		t.Error("double open lost the return step")
	}
}

func TestCloseHelpOutsideOverlayIsNoOp(t *testing.T) {
	s := models.WizardState{Step: models.StepWorry}
	if got := CloseHelp(s); got != s {
		t.Errorf("CloseHelp changed state: %+v", got)
	}
}

func TestAdvanceSwallowedWhileHelpOpen(t *testing.T) {
	s := OpenHelp(models.WizardState{Step: models.StepAge})

	next, err := Advance(s, map[string]string{"age": "30"})
	if err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	if next != s {
		t.Error("advance must be swallowed while the overlay is open")
	}
}

func TestAdvanceDispatchesPerStep(t *testing.T) {
	s := models.NewWizardState()

	s, err := Advance(s, nil)
	if err != nil || s.Step != models.StepAge {
		t.Fatalf("intro advance: %v, %s", err, s.Step)
	}
	s, err = Advance(s, map[string]string{"age": "42"})
	if err != nil || s.Step != models.StepSex {
		t.Fatalf("age advance: %v, %s", err, s.Step)
	}
	s, err = Advance(s, map[string]string{"sex": models.SexFemale})
	if err != nil || s.Step != models.StepCountry {
		t.Fatalf("sex advance: %v, %s", err, s.Step)
	}
	s, err = Advance(s, map[string]string{"country": "SWE", "countryName": "Sweden"})
	if err != nil || s.Step != models.StepWorry {
		t.Fatalf("country advance: %v, %s", err, s.Step)
	}
	s, err = Advance(s, map[string]string{"worryHours": "3"})
	if err != nil || s.Step != models.StepResults {
		t.Fatalf("worry advance: %v, %s", err, s.Step)
	}
}

func TestRestart(t *testing.T) {
	s := Restart(models.WizardState{Step: models.StepResults, Age: 50, CountryCode: "CAN"})
	if s.Step != models.StepAge {
		t.Errorf("Step = %s, want age", s.Step)
	}
	if s.Age != 0 || s.CountryCode != "" {
		t.Error("restart must clear entered values")
	}
}
