package userprofile

import (
	"errors"
	"fmt"
	"time"

	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/id"
)

// DifficultyLevel is the coarse per-user difficulty setting. It changes
// only through the difficulty adjuster's decision, never by direct writes.
type DifficultyLevel string

const (
	LevelBeginner DifficultyLevel = "beginner"
	LevelAdaptive DifficultyLevel = "adaptive"
	LevelAdvanced DifficultyLevel = "advanced"
)

// Valid reports whether l is a known level.
func (l DifficultyLevel) Valid() bool {
	return l == LevelBeginner || l == LevelAdaptive || l == LevelAdvanced
}

// Promote returns the next level up, saturating at advanced.
func (l DifficultyLevel) Promote() DifficultyLevel {
	switch l {
	case LevelBeginner:
		return LevelAdaptive
	case LevelAdaptive:
		return LevelAdvanced
	}
	return LevelAdvanced
}

// Demote returns the next level down, saturating at beginner.
func (l DifficultyLevel) Demote() DifficultyLevel {
	switch l {
	case LevelAdvanced:
		return LevelAdaptive
	case LevelAdaptive:
		return LevelBeginner
	}
	return LevelBeginner
}

// LessonDifficulty maps the user level to the question difficulty new
// lessons are assembled at.
func (l DifficultyLevel) LessonDifficulty() subject.Difficulty {
	switch l {
	case LevelBeginner:
		return subject.DifficultyEasy
	case LevelAdvanced:
		return subject.DifficultyHard
	}
	return subject.DifficultyMedium
}

// ParseLevel validates a difficulty level string.
func ParseLevel(s string) (DifficultyLevel, error) {
	l := DifficultyLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown difficulty level %q", s)
	}
	return l, nil
}

// Profile is a learner's account state.
type Profile struct {
	ID                 string
	Name               string
	DifficultyLevel    DifficultyLevel
	CompletedLessonIDs []string // append-only, ordered by completion time
	CreatedAt          time.Time
}

// New creates a profile. New learners start at beginner.
func New(name string) (*Profile, error) {
	if name == "" {
		return nil, errors.New("profile name cannot be empty")
	}
	return &Profile{
		ID:              id.GenerateID(),
		Name:            name,
		DifficultyLevel: LevelBeginner,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
