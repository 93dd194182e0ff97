package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/domain/userprofile"
	"github.com/timomath/backend/internal/store"
)

func openStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, err := userprofile.New("Linh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveUser(ctx, p); err != nil {
		t.Fatalf("save user: %v", err)
	}

	got, err := s.GetUser(ctx, p.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Name != "Linh" || got.DifficultyLevel != userprofile.LevelBeginner {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDifficultyLevel(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, _ := userprofile.New("Linh")
	if err := s.SaveUser(ctx, p); err != nil {
		t.Fatalf("save user: %v", err)
	}

	if err := s.UpdateDifficultyLevel(ctx, p.ID, userprofile.LevelAdvanced); err != nil {
		t.Fatalf("update level: %v", err)
	}

	got, err := s.GetUser(ctx, p.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.DifficultyLevel != userprofile.LevelAdvanced {
		t.Errorf("expected advanced, got %s", got.DifficultyLevel)
	}

	if err := s.UpdateDifficultyLevel(ctx, "missing", userprofile.LevelAdaptive); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLessonRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, _ := userprofile.New("Linh")
	if err := s.SaveUser(ctx, p); err != nil {
		t.Fatalf("save user: %v", err)
	}

	l, err := lesson.New(p.ID, subject.Geometry, subject.DifficultyMedium, []string{"q1", "q2", "q3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveLesson(ctx, l); err != nil {
		t.Fatalf("save lesson: %v", err)
	}

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := l.Record("q1", "B", true, 7.5, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Skip("q2", at.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Complete(at.Add(2 * time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveLesson(ctx, l); err != nil {
		t.Fatalf("save completed lesson: %v", err)
	}

	got, err := s.GetLesson(ctx, l.ID)
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}

	if got.Status != lesson.StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(at.Add(2*time.Minute)) {
		t.Errorf("unexpected completed_at: %v", got.CompletedAt)
	}
	if len(got.QuestionIDs) != 3 {
		t.Errorf("expected 3 question ids, got %d", len(got.QuestionIDs))
	}
	if len(got.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(got.Responses))
	}
	if got.Responses[0].SelectedLabel == nil || *got.Responses[0].SelectedLabel != "B" {
		t.Errorf("unexpected first response: %+v", got.Responses[0])
	}
	if got.Responses[1].SelectedLabel != nil {
		t.Error("expected skip record to have nil selected label")
	}
	if !got.Responses[0].AnsweredAt.Equal(at) {
		t.Errorf("expected answered_at %v, got %v", at, got.Responses[0].AnsweredAt)
	}
}

func TestSaveLesson_IdempotentOnID(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, _ := userprofile.New("Linh")
	if err := s.SaveUser(ctx, p); err != nil {
		t.Fatalf("save user: %v", err)
	}

	l, err := lesson.New(p.ID, subject.Arithmetic, subject.DifficultyEasy, []string{"q1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.SaveLesson(ctx, l); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveLesson(ctx, l); err != nil {
		t.Fatalf("second save: %v", err)
	}

	lessons, err := s.GetLessonsForUser(ctx, p.ID)
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if len(lessons) != 1 {
		t.Errorf("expected 1 lesson after duplicate save, got %d", len(lessons))
	}
}

func TestGetCompletedLessons_OrderedByRecency(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, _ := userprofile.New("Linh")
	if err := s.SaveUser(ctx, p); err != nil {
		t.Fatalf("save user: %v", err)
	}

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		l, err := lesson.New(p.ID, subject.Arithmetic, subject.DifficultyEasy, []string{"q1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := l.Record("q1", "A", true, 1, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := l.Complete(base.Add(time.Duration(i) * time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.SaveLesson(ctx, l); err != nil {
			t.Fatalf("save lesson: %v", err)
		}
		ids = append(ids, l.ID)
	}

	// One in-progress lesson that must not appear.
	inProgress, err := lesson.New(p.ID, subject.Arithmetic, subject.DifficultyEasy, []string{"q1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveLesson(ctx, inProgress); err != nil {
		t.Fatalf("save lesson: %v", err)
	}

	completed, err := s.GetCompletedLessons(ctx, p.ID)
	if err != nil {
		t.Fatalf("get completed: %v", err)
	}
	if len(completed) != 3 {
		t.Fatalf("expected 3 completed lessons, got %d", len(completed))
	}
	// Most recent completion first.
	if completed[0].ID != ids[2] || completed[2].ID != ids[0] {
		t.Error("expected lessons ordered most recently completed first")
	}

	// Profile mirrors completions in chronological order.
	got, err := s.GetUser(ctx, p.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(got.CompletedLessonIDs) != 3 || got.CompletedLessonIDs[0] != ids[0] {
		t.Errorf("unexpected completed lesson ids: %v", got.CompletedLessonIDs)
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	q, err := question.New(subject.NumberTheory, subject.DifficultyHard, "How many primes are below 20?", []question.Option{
		{Label: "A", Text: "7"},
		{Label: "B", Text: "8"},
		{Label: "C", Text: "9"},
	}, "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveQuestion(ctx, q); err != nil {
		t.Fatalf("save question: %v", err)
	}

	got, err := s.GetQuestionByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if got.Text != q.Text || got.CorrectLabel != "B" || len(got.Options) != 3 {
		t.Errorf("unexpected question: %+v", got)
	}

	_, err = s.GetQuestionByID(ctx, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetQuestionsBySubject(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	opts := []question.Option{{Label: "A", Text: "1"}, {Label: "B", Text: "2"}}
	for i, diff := range []subject.Difficulty{1, 1, 2} {
		q, err := question.New(subject.Geometry, diff, "Q?", opts, "A")
		if err != nil {
			t.Fatalf("question %d: %v", i, err)
		}
		if err := s.SaveQuestion(ctx, q); err != nil {
			t.Fatalf("save question %d: %v", i, err)
		}
	}

	all, err := s.GetQuestionsBySubject(ctx, subject.Geometry, 0)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 questions, got %d", len(all))
	}

	easy, err := s.GetQuestionsBySubject(ctx, subject.Geometry, subject.DifficultyEasy)
	if err != nil {
		t.Fatalf("list easy questions: %v", err)
	}
	if len(easy) != 2 {
		t.Errorf("expected 2 easy questions, got %d", len(easy))
	}

	counts, err := s.CountQuestionsBySubject(ctx)
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if counts[subject.Geometry] != 3 {
		t.Errorf("expected 3 geometry questions, got %d", counts[subject.Geometry])
	}
}
