package performance

import (
	"sort"

	"github.com/timomath/backend/internal/domain/subject"
)

const (
	// DefaultWeakAreaLimit is the number of improvement areas surfaced
	// when the caller doesn't ask for a specific count.
	DefaultWeakAreaLimit = 3
	maxWeakAreaLimit     = 5
)

// WeakAreas ranks subjects weakest-first by accuracy, capped at limit.
// Subjects with no recorded questions are excluded: no signal is not
// weakness. Equal accuracies break ties by canonical subject order, so the
// ranking is deterministic.
func WeakAreas(perf map[subject.Subject]SubjectPerformance, limit int) []subject.Subject {
	if limit <= 0 {
		limit = DefaultWeakAreaLimit
	}
	if limit > maxWeakAreaLimit {
		limit = maxWeakAreaLimit
	}

	candidates := make([]SubjectPerformance, 0, len(perf))
	for _, p := range perf {
		if p.TotalQuestions == 0 {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Accuracy != candidates[j].Accuracy {
			return candidates[i].Accuracy < candidates[j].Accuracy
		}
		return candidates[i].Subject.Index() < candidates[j].Subject.Index()
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	areas := make([]subject.Subject, limit)
	for i := 0; i < limit; i++ {
		areas[i] = candidates[i].Subject
	}
	return areas
}
