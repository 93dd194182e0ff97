package lesson

import (
	"errors"
	"fmt"
	"time"

	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/id"
)

// Status is the lesson lifecycle state. Transitions are strictly forward:
// notStarted → inProgress → completed.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var (
	ErrCompleted           = errors.New("lesson is already completed")
	ErrQuestionNotInLesson = errors.New("question is not part of this lesson")
	ErrAlreadyAnswered     = errors.New("question already has a response")
)

// ResponseRecord is one answer (or skip) to one question. Immutable once
// appended to a lesson.
type ResponseRecord struct {
	QuestionID          string
	IsCorrect           bool
	ResponseTimeSeconds float64
	AnsweredAt          time.Time
	SelectedLabel       *string // nil means the question was skipped
}

// Answered reports whether the learner actually chose an option.
func (r ResponseRecord) Answered() bool {
	return r.SelectedLabel != nil
}

// Lesson is one practice session: a fixed ordered set of questions in a
// single subject and difficulty, plus the responses given so far.
type Lesson struct {
	ID          string
	UserID      string
	Subject     subject.Subject
	Difficulty  subject.Difficulty
	QuestionIDs []string
	Responses   []ResponseRecord
	Status      Status
	StartedAt   time.Time
	CompletedAt *time.Time
}

// New creates a lesson for the given user and question set.
func New(userID string, subj subject.Subject, difficulty subject.Difficulty, questionIDs []string) (*Lesson, error) {
	if userID == "" {
		return nil, errors.New("lesson user id cannot be empty")
	}
	if !subj.Valid() {
		return nil, fmt.Errorf("unknown subject %q", subj)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", difficulty)
	}
	if len(questionIDs) == 0 {
		return nil, errors.New("lesson needs at least one question")
	}

	ids := make([]string, len(questionIDs))
	copy(ids, questionIDs)

	return &Lesson{
		ID:          id.GenerateID(),
		UserID:      userID,
		Subject:     subj,
		Difficulty:  difficulty,
		QuestionIDs: ids,
		Responses:   []ResponseRecord{},
		Status:      StatusNotStarted,
		StartedAt:   time.Now().UTC(),
	}, nil
}

// Record appends an answer for questionID. The first response moves the
// lesson from notStarted to inProgress.
func (l *Lesson) Record(questionID string, selectedLabel string, isCorrect bool, responseTimeSeconds float64, answeredAt time.Time) error {
	label := selectedLabel
	return l.append(ResponseRecord{
		QuestionID:          questionID,
		IsCorrect:           isCorrect,
		ResponseTimeSeconds: responseTimeSeconds,
		AnsweredAt:          answeredAt,
		SelectedLabel:       &label,
	})
}

// Skip records that the learner skipped questionID. Skips are not counted
// as answered and never count as mistakes.
func (l *Lesson) Skip(questionID string, at time.Time) error {
	return l.append(ResponseRecord{
		QuestionID: questionID,
		AnsweredAt: at,
	})
}

func (l *Lesson) append(r ResponseRecord) error {
	if l.Status == StatusCompleted {
		return ErrCompleted
	}
	if r.ResponseTimeSeconds < 0 {
		return errors.New("response time cannot be negative")
	}
	if !l.hasQuestion(r.QuestionID) {
		return ErrQuestionNotInLesson
	}
	for _, existing := range l.Responses {
		if existing.QuestionID == r.QuestionID {
			return ErrAlreadyAnswered
		}
	}

	l.Responses = append(l.Responses, r)
	if l.Status == StatusNotStarted {
		l.Status = StatusInProgress
	}
	return nil
}

// Complete finalizes the lesson. Idempotent completion is an error: the
// lifecycle moves forward exactly once.
func (l *Lesson) Complete(at time.Time) error {
	if l.Status == StatusCompleted {
		return ErrCompleted
	}
	t := at.UTC()
	l.Status = StatusCompleted
	l.CompletedAt = &t
	return nil
}

// AnsweredCount returns the number of responses where an option was chosen.
func (l *Lesson) AnsweredCount() int {
	n := 0
	for _, r := range l.Responses {
		if r.Answered() {
			n++
		}
	}
	return n
}

// CorrectCount returns the number of correct responses.
func (l *Lesson) CorrectCount() int {
	n := 0
	for _, r := range l.Responses {
		if r.IsCorrect {
			n++
		}
	}
	return n
}

// Accuracy is correct / answered, in [0,1]. A lesson with no answered
// questions has accuracy 0.
func (l *Lesson) Accuracy() float64 {
	answered := l.AnsweredCount()
	if answered == 0 {
		return 0
	}
	return float64(l.CorrectCount()) / float64(answered)
}

// Validate checks structural integrity of the lesson's history.
func (l *Lesson) Validate() error {
	if len(l.Responses) > len(l.QuestionIDs) {
		return fmt.Errorf("lesson %s has %d responses for %d questions", l.ID, len(l.Responses), len(l.QuestionIDs))
	}
	for _, r := range l.Responses {
		if !l.hasQuestion(r.QuestionID) {
			return fmt.Errorf("lesson %s has a response for foreign question %s", l.ID, r.QuestionID)
		}
		if r.ResponseTimeSeconds < 0 {
			return fmt.Errorf("lesson %s has a negative response time for question %s", l.ID, r.QuestionID)
		}
	}
	if l.Status == StatusCompleted && l.CompletedAt == nil {
		return fmt.Errorf("lesson %s is completed without a completion timestamp", l.ID)
	}
	return nil
}

func (l *Lesson) hasQuestion(questionID string) bool {
	for _, qid := range l.QuestionIDs {
		if qid == questionID {
			return true
		}
	}
	return false
}
