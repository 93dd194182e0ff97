package question_test

import (
	"testing"

	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
)

func fourOptions() []question.Option {
	return []question.Option{
		{Label: "A", Text: "12"},
		{Label: "B", Text: "14"},
		{Label: "C", Text: "16"},
		{Label: "D", Text: "18"},
	}
}

func TestNew(t *testing.T) {
	q, err := question.New(subject.Arithmetic, subject.DifficultyEasy, "What is 7 + 7?", fourOptions(), "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID == "" {
		t.Error("expected generated id")
	}
	if q.Subject != subject.Arithmetic {
		t.Errorf("expected arithmetic, got %s", q.Subject)
	}
}

func TestNew_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		subj    subject.Subject
		diff    subject.Difficulty
		text    string
		options []question.Option
		correct string
	}{
		{"empty text", subject.Geometry, 1, "", fourOptions(), "A"},
		{"bad subject", "calculus", 1, "Q?", fourOptions(), "A"},
		{"bad difficulty", subject.Geometry, 9, "Q?", fourOptions(), "A"},
		{"too few options", subject.Geometry, 1, "Q?", fourOptions()[:1], "A"},
		{"correct label missing", subject.Geometry, 1, "Q?", fourOptions(), "E"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := question.New(c.subj, c.diff, c.text, c.options, c.correct); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCheck(t *testing.T) {
	q, err := question.New(subject.Arithmetic, subject.DifficultyEasy, "What is 7 + 7?", fourOptions(), "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !q.Check("B") {
		t.Error("expected B to be correct")
	}
	if !q.Check("b") {
		t.Error("expected label check to be case-insensitive")
	}
	if !q.Check(" B ") {
		t.Error("expected label check to trim whitespace")
	}
	if q.Check("A") {
		t.Error("expected A to be incorrect")
	}
}
