package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the backend.
type Metrics struct {
	// Lesson metrics
	LessonsStarted   *prometheus.CounterVec
	LessonsCompleted *prometheus.CounterVec
	ResponsesTotal   *prometheus.CounterVec
	LessonAccuracy   *prometheus.HistogramVec

	// Adaptive metrics
	DifficultyTransitions *prometheus.CounterVec

	// Review metrics
	ReviewQuestionsMissing prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// New creates and registers all metrics once; later calls return the
// shared instance.
func New() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			LessonsStarted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "timo_lessons_started_total",
					Help: "Total number of lessons started",
				},
				[]string{"subject", "difficulty"},
			),
			LessonsCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "timo_lessons_completed_total",
					Help: "Total number of lessons completed",
				},
				[]string{"subject", "difficulty"},
			),
			ResponsesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "timo_responses_total",
					Help: "Total number of recorded responses",
				},
				[]string{"subject", "result"}, // result: correct, incorrect, skipped
			),
			LessonAccuracy: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "timo_lesson_accuracy",
					Help:    "Accuracy of completed lessons",
					Buckets: prometheus.LinearBuckets(0, 0.1, 11),
				},
				[]string{"subject"},
			),
			DifficultyTransitions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "timo_difficulty_transitions_total",
					Help: "Total number of user difficulty level changes",
				},
				[]string{"from", "to"},
			),
			ReviewQuestionsMissing: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "timo_review_questions_missing_total",
					Help: "Review questions whose bank entry no longer exists",
				},
			),
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "timo_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "timo_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),
		}
	})

	return sharedMetrics
}

// RecordResponse counts one recorded response.
func (m *Metrics) RecordResponse(subject string, correct bool, skipped bool) {
	result := "incorrect"
	switch {
	case skipped:
		result = "skipped"
	case correct:
		result = "correct"
	}
	m.ResponsesTotal.WithLabelValues(subject, result).Inc()
}

// RecordLessonCompleted counts a completed lesson and observes its accuracy.
func (m *Metrics) RecordLessonCompleted(subject, difficulty string, accuracy float64) {
	m.LessonsCompleted.WithLabelValues(subject, difficulty).Inc()
	m.LessonAccuracy.WithLabelValues(subject).Observe(accuracy)
}

// RecordDifficultyTransition counts a user moving between levels.
func (m *Metrics) RecordDifficultyTransition(from, to string) {
	m.DifficultyTransitions.WithLabelValues(from, to).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}
