package review

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/store"
)

// MissedRef is a deduplicated reference to a question the learner answered
// incorrectly, with the timestamp of the most recent mistake.
type MissedRef struct {
	QuestionID   string
	LastMissedAt time.Time
	TimesMissed  int
}

// Item is a fully resolved review entry: the question content plus the
// mistake history that put it on the review list.
type Item struct {
	Question     question.Question
	LastMissedAt time.Time
	TimesMissed  int
}

// QuestionSource resolves question ids to full content. Satisfied by the
// store; tests substitute a fake.
type QuestionSource interface {
	GetQuestionByID(ctx context.Context, id string) (*question.Question, error)
}

// Collect scans completed lessons for incorrect answers and returns one
// reference per distinct question, most recent mistake first. Ties on the
// timestamp break by question id so the order is deterministic. Skipped
// questions are not mistakes and never appear.
func Collect(lessons []*lesson.Lesson) []MissedRef {
	byID := make(map[string]MissedRef)

	for _, l := range lessons {
		if l.Status != lesson.StatusCompleted {
			continue
		}
		for _, r := range l.Responses {
			if !r.Answered() || r.IsCorrect {
				continue
			}
			ref, seen := byID[r.QuestionID]
			if !seen {
				byID[r.QuestionID] = MissedRef{
					QuestionID:   r.QuestionID,
					LastMissedAt: r.AnsweredAt,
					TimesMissed:  1,
				}
				continue
			}
			ref.TimesMissed++
			if r.AnsweredAt.After(ref.LastMissedAt) {
				ref.LastMissedAt = r.AnsweredAt
			}
			byID[r.QuestionID] = ref
		}
	}

	refs := make([]MissedRef, 0, len(byID))
	for _, ref := range byID {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].LastMissedAt.Equal(refs[j].LastMissedAt) {
			return refs[i].LastMissedAt.After(refs[j].LastMissedAt)
		}
		return refs[i].QuestionID < refs[j].QuestionID
	})
	return refs
}

// Resolve looks up full question content for each reference, preserving
// order. References whose question no longer exists in the bank are dropped
// and counted rather than raised as errors.
func Resolve(ctx context.Context, source QuestionSource, refs []MissedRef) ([]Item, int, error) {
	items := make([]Item, 0, len(refs))
	missing := 0

	for _, ref := range refs {
		q, err := source.GetQuestionByID(ctx, ref.QuestionID)
		if errors.Is(err, store.ErrNotFound) {
			missing++
			continue
		}
		if err != nil {
			return nil, missing, err
		}
		items = append(items, Item{
			Question:     *q,
			LastMissedAt: ref.LastMissedAt,
			TimesMissed:  ref.TimesMissed,
		})
	}
	return items, missing, nil
}
