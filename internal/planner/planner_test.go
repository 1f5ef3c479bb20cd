package planner

import "testing"

func TestNormalizeStepsFillsIndexes(t *testing.T) {
	steps := []PlanStep{
		{Goal: "Open the settings app", Mode: ""},
		{Goal: "Enable dark mode", Mode: ""},
	}
	normalizeSteps(steps)

	if steps[0].Index != 1 || steps[1].Index != 2 {
		t.Errorf("indexes = %d, %d, want 1, 2", steps[0].Index, steps[1].Index)
	}
}

func TestNormalizeStepsGuessesMode(t *testing.T) {
	cases := []struct {
		goal string
		mode string
		want string
	}{
		{"Open the file manager", "", ModeNavigation},
		{"Launch the browser", "bogus", ModeNavigation},
		{"Go to the downloads section", "", ModeNavigation},
		{"Fill in the search field", "", ModeInteraction},
		{"Press the save button", "weird", ModeInteraction},
		{"Click confirm", "INTERACTION", ModeInteraction},
		{"Open the menu", "Navigation", ModeNavigation},
	}

	for _, c := range cases {
		steps := []PlanStep{{Index: 1, Goal: c.goal, Mode: c.mode}}
		normalizeSteps(steps)
		if steps[0].Mode != c.want {
			t.Errorf("goal %q mode %q: got %q, want %q", c.goal, c.mode, steps[0].Mode, c.want)
		}
	}
}
