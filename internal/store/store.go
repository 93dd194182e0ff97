package store

import (
	"context"
	"errors"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/domain/userprofile"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store is the persistence boundary. The service layer depends on this
// interface so calculators are testable without a live database.
type Store interface {
	// Users
	SaveUser(ctx context.Context, p *userprofile.Profile) error
	GetUser(ctx context.Context, id string) (*userprofile.Profile, error)
	// UpdateDifficultyLevel is the only write path for the difficulty
	// field; it belongs to the difficulty adjuster.
	UpdateDifficultyLevel(ctx context.Context, userID string, level userprofile.DifficultyLevel) error

	// Lessons. SaveLesson is an idempotent upsert on the lesson id and
	// writes the lesson, its question list, and its responses in one
	// transaction, so a completed lesson is never observed half-written.
	SaveLesson(ctx context.Context, l *lesson.Lesson) error
	GetLesson(ctx context.Context, id string) (*lesson.Lesson, error)
	GetLessonsForUser(ctx context.Context, userID string) ([]*lesson.Lesson, error)
	// GetCompletedLessons returns completed lessons ordered most recently
	// completed first.
	GetCompletedLessons(ctx context.Context, userID string) ([]*lesson.Lesson, error)

	// Question bank
	SaveQuestion(ctx context.Context, q *question.Question) error
	GetQuestionByID(ctx context.Context, id string) (*question.Question, error)
	// GetQuestionsBySubject returns questions for a subject; difficulty 0
	// means any difficulty.
	GetQuestionsBySubject(ctx context.Context, subj subject.Subject, difficulty subject.Difficulty) ([]question.Question, error)
	CountQuestionsBySubject(ctx context.Context) (map[subject.Subject]int, error)

	Close() error
}
