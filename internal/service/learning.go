package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/timomath/backend/internal/adaptive"
	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/domain/userprofile"
	"github.com/timomath/backend/internal/metrics"
	"github.com/timomath/backend/internal/performance"
	"github.com/timomath/backend/internal/review"
	"github.com/timomath/backend/internal/store"
)

// ErrNoQuestions is returned when the bank has no questions for the
// requested subject.
var ErrNoQuestions = errors.New("no questions available for subject")

// Options tunes a LearningService. Zero values fall back to defaults.
type Options struct {
	WeakAreaLimit      int
	MaxLessonQuestions int
}

const defaultMaxLessonQuestions = 10

// LearningService coordinates lessons, answers, and the adaptive
// difficulty loop on top of the store.
type LearningService struct {
	store              store.Store
	metrics            *metrics.Metrics
	logger             *slog.Logger
	weakAreaLimit      int
	maxLessonQuestions int
	now                func() time.Time
}

// NewLearningService creates a LearningService.
func NewLearningService(s store.Store, m *metrics.Metrics, logger *slog.Logger, opts Options) *LearningService {
	if opts.WeakAreaLimit <= 0 {
		opts.WeakAreaLimit = performance.DefaultWeakAreaLimit
	}
	if opts.MaxLessonQuestions <= 0 {
		opts.MaxLessonQuestions = defaultMaxLessonQuestions
	}
	return &LearningService{
		store:              s,
		metrics:            m,
		logger:             logger,
		weakAreaLimit:      opts.WeakAreaLimit,
		maxLessonQuestions: opts.MaxLessonQuestions,
		now:                time.Now,
	}
}

// CreateUser registers a new learner. New users start at the beginner
// level.
func (ls *LearningService) CreateUser(ctx context.Context, name string) (*userprofile.Profile, error) {
	profile, err := userprofile.New(name)
	if err != nil {
		return nil, err
	}
	if err := ls.store.SaveUser(ctx, profile); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	ls.logger.Info("user created", "user_id", profile.ID, "name", profile.Name)
	return profile, nil
}

// GetUser returns a learner's profile.
func (ls *LearningService) GetUser(ctx context.Context, userID string) (*userprofile.Profile, error) {
	return ls.store.GetUser(ctx, userID)
}

// StartLesson builds a lesson for the user in the given subject at the
// difficulty their level maps to. When the bank has nothing at that
// exact difficulty it falls back to any difficulty in the subject.
func (ls *LearningService) StartLesson(ctx context.Context, userID string, subj subject.Subject) (*lesson.Lesson, error) {
	user, err := ls.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	difficulty := user.DifficultyLevel.LessonDifficulty()
	questions, err := ls.store.GetQuestionsBySubject(ctx, subj, difficulty)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		questions, err = ls.store.GetQuestionsBySubject(ctx, subj, 0)
		if err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, subj)
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if len(questions) > ls.maxLessonQuestions {
		questions = questions[:ls.maxLessonQuestions]
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	l, err := lesson.New(userID, subj, difficulty, ids)
	if err != nil {
		return nil, err
	}
	if err := ls.store.SaveLesson(ctx, l); err != nil {
		return nil, fmt.Errorf("save lesson: %w", err)
	}

	ls.metrics.LessonsStarted.WithLabelValues(string(subj), difficulty.Label()).Inc()
	ls.logger.Info("lesson started",
		"lesson_id", l.ID, "user_id", userID, "subject", subj, "questions", len(ids))
	return l, nil
}

// GetLesson returns a lesson by id.
func (ls *LearningService) GetLesson(ctx context.Context, lessonID string) (*lesson.Lesson, error) {
	return ls.store.GetLesson(ctx, lessonID)
}

// SubmitResult reports what happened to a submitted answer.
type SubmitResult struct {
	IsCorrect    bool
	Skipped      bool
	CorrectLabel string
	Lesson       *lesson.Lesson
}

// SubmitResponse records one answer (or a skip, when selectedLabel is
// nil) against an in-flight lesson. Grading happens here so clients
// never see the correct label before answering.
func (ls *LearningService) SubmitResponse(ctx context.Context, lessonID, questionID string, selectedLabel *string, responseTimeSeconds float64) (*SubmitResult, error) {
	l, err := ls.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	q, err := ls.store.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	now := ls.now()
	result := &SubmitResult{CorrectLabel: q.CorrectLabel, Lesson: l}
	if selectedLabel == nil {
		if err := l.Skip(questionID, now); err != nil {
			return nil, err
		}
		result.Skipped = true
	} else {
		result.IsCorrect = q.Check(*selectedLabel)
		if err := l.Record(questionID, *selectedLabel, result.IsCorrect, responseTimeSeconds, now); err != nil {
			return nil, err
		}
	}

	if err := ls.store.SaveLesson(ctx, l); err != nil {
		return nil, fmt.Errorf("save lesson: %w", err)
	}
	ls.metrics.RecordResponse(string(l.Subject), result.IsCorrect, result.Skipped)
	return result, nil
}

// CompletionResult reports a finished lesson together with the
// adaptive decision it triggered.
type CompletionResult struct {
	Lesson   *lesson.Lesson
	Accuracy float64
	Decision adaptive.Decision
}

// CompleteLesson finalizes a lesson and runs the difficulty adjuster
// over the user's completed history.
func (ls *LearningService) CompleteLesson(ctx context.Context, lessonID string) (*CompletionResult, error) {
	l, err := ls.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := l.Complete(ls.now()); err != nil {
		return nil, err
	}
	if err := ls.store.SaveLesson(ctx, l); err != nil {
		return nil, fmt.Errorf("save lesson: %w", err)
	}

	user, err := ls.store.GetUser(ctx, l.UserID)
	if err != nil {
		return nil, err
	}
	completed, err := ls.store.GetCompletedLessons(ctx, l.UserID)
	if err != nil {
		return nil, fmt.Errorf("load completed lessons: %w", err)
	}

	decision := adaptive.Decide(user.DifficultyLevel, completed)
	if decision.Changed() {
		if err := ls.store.UpdateDifficultyLevel(ctx, l.UserID, decision.To); err != nil {
			return nil, fmt.Errorf("update difficulty level: %w", err)
		}
		ls.metrics.RecordDifficultyTransition(string(decision.From), string(decision.To))
		ls.logger.Info("difficulty level changed",
			"user_id", l.UserID, "from", decision.From, "to", decision.To, "reason", decision.Reason)
	}

	accuracy := l.Accuracy()
	ls.metrics.RecordLessonCompleted(string(l.Subject), l.Difficulty.Label(), accuracy)
	ls.logger.Info("lesson completed",
		"lesson_id", l.ID, "user_id", l.UserID, "subject", l.Subject, "accuracy", accuracy)

	return &CompletionResult{Lesson: l, Accuracy: accuracy, Decision: decision}, nil
}

// LessonHistory returns all of a user's lessons.
func (ls *LearningService) LessonHistory(ctx context.Context, userID string) ([]*lesson.Lesson, error) {
	if _, err := ls.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return ls.store.GetLessonsForUser(ctx, userID)
}

// SubjectPerformanceFor computes per-subject performance over the
// user's completed lessons, in canonical subject order.
func (ls *LearningService) SubjectPerformanceFor(ctx context.Context, userID string) ([]performance.SubjectPerformance, error) {
	perf, err := ls.performanceMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]performance.SubjectPerformance, 0, len(perf))
	for _, subj := range subject.All() {
		out = append(out, perf[subj])
	}
	return out, nil
}

// WeakAreas returns the user's weakest subjects, at most limit of
// them. A limit of 0 uses the configured default.
func (ls *LearningService) WeakAreas(ctx context.Context, userID string, limit int) ([]subject.Subject, error) {
	if limit == 0 {
		limit = ls.weakAreaLimit
	}
	perf, err := ls.performanceMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	return performance.WeakAreas(perf, limit), nil
}

// IncorrectQuestions returns the user's missed questions, most
// recently missed first. Questions no longer in the bank are dropped
// and counted rather than failing the whole report.
func (ls *LearningService) IncorrectQuestions(ctx context.Context, userID string) ([]review.Item, error) {
	completed, err := ls.completedLessons(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs := review.Collect(completed)
	items, missing, err := review.Resolve(ctx, ls.store, refs)
	if err != nil {
		return nil, err
	}
	if missing > 0 {
		ls.metrics.ReviewQuestionsMissing.Add(float64(missing))
		ls.logger.Warn("review questions missing from bank", "user_id", userID, "missing", missing)
	}
	return items, nil
}

func (ls *LearningService) performanceMap(ctx context.Context, userID string) (map[subject.Subject]performance.SubjectPerformance, error) {
	completed, err := ls.completedLessons(ctx, userID)
	if err != nil {
		return nil, err
	}
	return performance.Calculate(completed)
}

func (ls *LearningService) completedLessons(ctx context.Context, userID string) ([]*lesson.Lesson, error) {
	if _, err := ls.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	completed, err := ls.store.GetCompletedLessons(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completed lessons: %w", err)
	}
	return completed, nil
}
