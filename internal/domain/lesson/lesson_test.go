package lesson_test

import (
	"errors"
	"testing"
	"time"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/subject"
)

func newLesson(t *testing.T, questionIDs ...string) *lesson.Lesson {
	t.Helper()
	l, err := lesson.New("user-1", subject.Arithmetic, subject.DifficultyMedium, questionIDs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestNew(t *testing.T) {
	l := newLesson(t, "q1", "q2", "q3")

	if l.Status != lesson.StatusNotStarted {
		t.Errorf("expected not_started, got %s", l.Status)
	}
	if len(l.QuestionIDs) != 3 {
		t.Errorf("expected 3 questions, got %d", len(l.QuestionIDs))
	}
	if l.ID == "" {
		t.Error("expected generated id")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := lesson.New("", subject.Arithmetic, 1, []string{"q1"}); err == nil {
		t.Error("expected error for empty user id")
	}
	if _, err := lesson.New("u", "calculus", 1, []string{"q1"}); err == nil {
		t.Error("expected error for unknown subject")
	}
	if _, err := lesson.New("u", subject.Arithmetic, 7, []string{"q1"}); err == nil {
		t.Error("expected error for invalid difficulty")
	}
	if _, err := lesson.New("u", subject.Arithmetic, 1, nil); err == nil {
		t.Error("expected error for empty question set")
	}
}

func TestRecord_MovesToInProgress(t *testing.T) {
	l := newLesson(t, "q1", "q2")

	if err := l.Record("q1", "A", true, 4.2, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.Status != lesson.StatusInProgress {
		t.Errorf("expected in_progress after first response, got %s", l.Status)
	}
	if len(l.Responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(l.Responses))
	}
	if !l.Responses[0].Answered() {
		t.Error("expected recorded response to count as answered")
	}
}

func TestRecord_Rejections(t *testing.T) {
	l := newLesson(t, "q1", "q2")

	if err := l.Record("q9", "A", true, 1, time.Now()); !errors.Is(err, lesson.ErrQuestionNotInLesson) {
		t.Errorf("expected ErrQuestionNotInLesson, got %v", err)
	}

	if err := l.Record("q1", "A", true, 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Record("q1", "B", false, 1, time.Now()); !errors.Is(err, lesson.ErrAlreadyAnswered) {
		t.Errorf("expected ErrAlreadyAnswered, got %v", err)
	}

	if err := l.Record("q2", "A", true, -3, time.Now()); err == nil {
		t.Error("expected error for negative response time")
	}

	if err := l.Complete(time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Record("q2", "A", true, 1, time.Now()); !errors.Is(err, lesson.ErrCompleted) {
		t.Errorf("expected ErrCompleted, got %v", err)
	}
}

func TestSkip_NotCountedAsAnswered(t *testing.T) {
	l := newLesson(t, "q1", "q2")

	if err := l.Record("q1", "A", true, 2, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Skip("q2", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.AnsweredCount() != 1 {
		t.Errorf("expected 1 answered, got %d", l.AnsweredCount())
	}
	if l.Responses[1].Answered() {
		t.Error("expected skip record to not count as answered")
	}
	if l.Accuracy() != 1.0 {
		t.Errorf("expected accuracy 1.0 (skips excluded), got %f", l.Accuracy())
	}
}

func TestAccuracy(t *testing.T) {
	l := newLesson(t, "q1", "q2", "q3", "q4", "q5")

	// 3 correct, 2 incorrect.
	answers := []struct {
		qid     string
		correct bool
	}{
		{"q1", true}, {"q2", true}, {"q3", true}, {"q4", false}, {"q5", false},
	}
	for _, a := range answers {
		if err := l.Record(a.qid, "A", a.correct, 1, time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := l.Accuracy(); got != 0.6 {
		t.Errorf("expected accuracy 0.6, got %f", got)
	}
}

func TestAccuracy_NoResponses(t *testing.T) {
	l := newLesson(t, "q1")
	if got := l.Accuracy(); got != 0 {
		t.Errorf("expected accuracy 0 with no responses, got %f", got)
	}
}

func TestComplete_ForwardOnly(t *testing.T) {
	l := newLesson(t, "q1")

	now := time.Now()
	if err := l.Complete(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Status != lesson.StatusCompleted {
		t.Errorf("expected completed, got %s", l.Status)
	}
	if l.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}

	if err := l.Complete(time.Now()); !errors.Is(err, lesson.ErrCompleted) {
		t.Errorf("expected ErrCompleted on double complete, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	l := newLesson(t, "q1", "q2")
	if err := l.Record("q1", "A", true, 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("expected valid lesson, got %v", err)
	}

	// Corrupt the history the way a broken store read would.
	l.Responses = append(l.Responses, lesson.ResponseRecord{QuestionID: "q9"})
	if err := l.Validate(); err == nil {
		t.Error("expected validation error for foreign response")
	}
}
