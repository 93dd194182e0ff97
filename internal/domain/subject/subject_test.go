package subject_test

import (
	"testing"

	"github.com/timomath/backend/internal/domain/subject"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  subject.Subject
	}{
		{"arithmetic", subject.Arithmetic},
		{"Arithmetic", subject.Arithmetic},
		{"number_theory", subject.NumberTheory},
		{"Number Theory", subject.NumberTheory},
		{"numberTheory", subject.NumberTheory},
		{"logical-thinking", subject.LogicalThinking},
		{"Logical Thinking", subject.LogicalThinking},
		{"Geometry", subject.Geometry},
		{"combinatorics", subject.Combinatorics},
	}

	for _, c := range cases {
		got, err := subject.Parse(c.input)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	if _, err := subject.Parse("calculus"); err == nil {
		t.Error("expected error for unknown subject, got nil")
	}
}

func TestIndex_CanonicalOrder(t *testing.T) {
	for i, s := range subject.All() {
		if s.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", s, s.Index(), i)
		}
	}
	if subject.Subject("calculus").Index() != -1 {
		t.Error("expected -1 for unknown subject")
	}
}

func TestParseDifficulty(t *testing.T) {
	for n := 1; n <= 4; n++ {
		d, err := subject.ParseDifficulty(n)
		if err != nil {
			t.Fatalf("ParseDifficulty(%d): %v", n, err)
		}
		if int(d) != n {
			t.Errorf("ParseDifficulty(%d) = %d", n, d)
		}
	}

	for _, n := range []int{0, 5, -1} {
		if _, err := subject.ParseDifficulty(n); err == nil {
			t.Errorf("expected error for difficulty %d", n)
		}
	}
}

func TestDifficultyLabel(t *testing.T) {
	labels := map[subject.Difficulty]string{
		subject.DifficultyEasy:     "Easy",
		subject.DifficultyMedium:   "Medium",
		subject.DifficultyHard:     "Hard",
		subject.DifficultyOlympiad: "Olympiad",
	}
	for d, want := range labels {
		if d.Label() != want {
			t.Errorf("%d.Label() = %q, want %q", d, d.Label(), want)
		}
	}
}
