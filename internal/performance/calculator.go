package performance

import (
	"fmt"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/subject"
)

// Trend is a coarse classification of aggregate accuracy. It is a static
// threshold on the whole history, not a comparison against earlier periods.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

const (
	trendUpThreshold   = 0.8
	trendDownThreshold = 0.6
)

// SubjectPerformance aggregates a learner's answers in one subject.
type SubjectPerformance struct {
	Subject        subject.Subject
	TotalQuestions int
	CorrectAnswers int
	Accuracy       float64 // correct / total, 0 when no questions
	Trend          Trend
}

// IntegrityError reports a malformed lesson aggregate. It is fatal to the
// single calculation and must never be silently clamped away.
type IntegrityError struct {
	LessonID string
	Reason   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("lesson %s failed integrity check: %s", e.LessonID, e.Reason)
}

// Calculate folds a learner's lesson history into per-subject performance.
// Only completed lessons contribute; in-progress lessons are ignored.
// Every known subject appears in the result; subjects without history get
// accuracy 0 and a stable trend.
func Calculate(lessons []*lesson.Lesson) (map[subject.Subject]SubjectPerformance, error) {
	result := make(map[subject.Subject]SubjectPerformance, len(subject.All()))
	for _, subj := range subject.All() {
		result[subj] = SubjectPerformance{Subject: subj, Trend: TrendStable}
	}

	for _, l := range lessons {
		if l.Status != lesson.StatusCompleted {
			continue
		}
		if err := l.Validate(); err != nil {
			return nil, &IntegrityError{LessonID: l.ID, Reason: err.Error()}
		}

		perf, ok := result[l.Subject]
		if !ok {
			return nil, &IntegrityError{LessonID: l.ID, Reason: fmt.Sprintf("unknown subject %q", l.Subject)}
		}

		for _, r := range l.Responses {
			if !r.Answered() {
				continue
			}
			perf.TotalQuestions++
			if r.IsCorrect {
				perf.CorrectAnswers++
			}
		}
		result[l.Subject] = perf
	}

	for subj, perf := range result {
		if perf.TotalQuestions > 0 {
			perf.Accuracy = float64(perf.CorrectAnswers) / float64(perf.TotalQuestions)
			perf.Trend = classifyTrend(perf.Accuracy)
		}
		result[subj] = perf
	}

	return result, nil
}

func classifyTrend(accuracy float64) Trend {
	switch {
	case accuracy >= trendUpThreshold:
		return TrendUp
	case accuracy < trendDownThreshold:
		return TrendDown
	}
	return TrendStable
}
