package question

import (
	"errors"
	"strings"

	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/id"
)

// Option is one answer choice of a multiple-choice question.
type Option struct {
	Label string // "A", "B", "C", "D"
	Text  string
}

// Question is a single multiple-choice question from the bank.
type Question struct {
	ID           string
	Subject      subject.Subject
	Difficulty   subject.Difficulty
	Text         string
	Options      []Option
	CorrectLabel string
	ImageRef     *string // optional reference to a bundled image asset
}

// New creates a question with a generated id.
func New(subj subject.Subject, difficulty subject.Difficulty, text string, options []Option, correctLabel string) (*Question, error) {
	q := &Question{
		ID:           id.GenerateID(),
		Subject:      subj,
		Difficulty:   difficulty,
		Text:         text,
		Options:      options,
		CorrectLabel: correctLabel,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks structural integrity of the question.
func (q *Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id cannot be empty")
	}
	if !q.Subject.Valid() {
		return errors.New("question subject is not a known subject")
	}
	if !q.Difficulty.Valid() {
		return errors.New("question difficulty must be between 1 and 4")
	}
	if q.Text == "" {
		return errors.New("question text cannot be empty")
	}
	if len(q.Options) < 2 {
		return errors.New("question needs at least two options")
	}
	if !q.hasOption(q.CorrectLabel) {
		return errors.New("correct answer label does not match any option")
	}
	return nil
}

// Check reports whether the selected label is the correct answer.
// Labels compare case-insensitively ("a" answers "A").
func (q *Question) Check(selectedLabel string) bool {
	return strings.EqualFold(strings.TrimSpace(selectedLabel), q.CorrectLabel)
}

func (q *Question) hasOption(label string) bool {
	for _, o := range q.Options {
		if strings.EqualFold(o.Label, label) {
			return true
		}
	}
	return false
}
