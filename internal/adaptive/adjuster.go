package adaptive

import (
	"sort"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/userprofile"
)

// Tuning constants for the difficulty state machine. Promotion looks at a
// 3-lesson window while demotion triggers on a single bad lesson: the
// asymmetry is deliberate (demote fast, promote cautiously).
const (
	WindowSize        = 3
	PromoteThreshold  = 0.8
	PromoteMinLessons = 2
	DemoteThreshold   = 0.4
)

// Move is the direction of a difficulty decision.
type Move string

const (
	MovePromote Move = "promote"
	MoveDemote  Move = "demote"
	MoveHold    Move = "hold"
)

// Decision is the outcome of evaluating a learner's recent history.
// Decide is pure; persisting To is the caller's job.
type Decision struct {
	Move   Move
	From   userprofile.DifficultyLevel
	To     userprofile.DifficultyLevel
	Reason string
}

// Changed reports whether applying the decision would alter the level.
func (d Decision) Changed() bool {
	return d.From != d.To
}

// Decide evaluates the difficulty state machine for a learner at the given
// level with the given completed lessons. Lessons may arrive in any order;
// the most recent WindowSize completions are considered. With fewer than
// WindowSize completed lessons no transition ever happens.
func Decide(current userprofile.DifficultyLevel, completed []*lesson.Lesson) Decision {
	recent := recentCompleted(completed)

	if len(recent) < WindowSize {
		return Decision{
			Move:   MoveHold,
			From:   current,
			To:     current,
			Reason: "fewer than 3 completed lessons",
		}
	}

	// Demotion is a single-lesson trigger and wins over promotion.
	if recent[0].Accuracy() <= DemoteThreshold {
		to := current.Demote()
		move := MoveDemote
		if to == current {
			move = MoveHold
		}
		return Decision{
			Move:   move,
			From:   current,
			To:     to,
			Reason: "most recent lesson at or below demotion threshold",
		}
	}

	strong := 0
	for _, l := range recent {
		if l.Accuracy() >= PromoteThreshold {
			strong++
		}
	}
	if strong >= PromoteMinLessons {
		to := current.Promote()
		move := MovePromote
		if to == current {
			move = MoveHold
		}
		return Decision{
			Move:   move,
			From:   current,
			To:     to,
			Reason: "2 of last 3 lessons at or above promotion threshold",
		}
	}

	return Decision{
		Move:   MoveHold,
		From:   current,
		To:     current,
		Reason: "recent accuracy within the stable band",
	}
}

// recentCompleted returns the WindowSize most recently completed lessons,
// most recent first.
func recentCompleted(lessons []*lesson.Lesson) []*lesson.Lesson {
	completed := make([]*lesson.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.Status == lesson.StatusCompleted && l.CompletedAt != nil {
			completed = append(completed, l)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})

	if len(completed) > WindowSize {
		completed = completed[:WindowSize]
	}
	return completed
}
