package performance_test

import (
	"testing"

	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/performance"
)

func perfMap(entries ...performance.SubjectPerformance) map[subject.Subject]performance.SubjectPerformance {
	m := make(map[subject.Subject]performance.SubjectPerformance)
	for _, e := range entries {
		m[e.Subject] = e
	}
	return m
}

func entry(s subject.Subject, total, correct int) performance.SubjectPerformance {
	p := performance.SubjectPerformance{Subject: s, TotalQuestions: total, CorrectAnswers: correct}
	if total > 0 {
		p.Accuracy = float64(correct) / float64(total)
	}
	return p
}

func TestWeakAreas_WeakestFirst(t *testing.T) {
	perf := perfMap(
		entry(subject.Arithmetic, 10, 9),    // 0.9
		entry(subject.Geometry, 10, 3),      // 0.3
		entry(subject.NumberTheory, 10, 6),  // 0.6
		entry(subject.Combinatorics, 10, 8), // 0.8
	)

	areas := performance.WeakAreas(perf, 3)

	want := []subject.Subject{subject.Geometry, subject.NumberTheory, subject.Combinatorics}
	if len(areas) != len(want) {
		t.Fatalf("expected %d areas, got %d", len(want), len(areas))
	}
	for i := range want {
		if areas[i] != want[i] {
			t.Errorf("area %d: expected %s, got %s", i, want[i], areas[i])
		}
	}
}

func TestWeakAreas_ExcludesZeroHistory(t *testing.T) {
	perf := perfMap(
		entry(subject.Arithmetic, 10, 2),
		entry(subject.Geometry, 0, 0), // no signal, not weakness
	)

	areas := performance.WeakAreas(perf, 5)

	if len(areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(areas))
	}
	if areas[0] != subject.Arithmetic {
		t.Errorf("expected arithmetic, got %s", areas[0])
	}
}

func TestWeakAreas_DeterministicTieBreak(t *testing.T) {
	// Geometry and arithmetic tie at 0.5; canonical subject order
	// (arithmetic before geometry) decides.
	perf := perfMap(
		entry(subject.Geometry, 10, 5),
		entry(subject.Arithmetic, 10, 5),
	)

	for i := 0; i < 20; i++ {
		areas := performance.WeakAreas(perf, 2)
		if areas[0] != subject.Arithmetic || areas[1] != subject.Geometry {
			t.Fatalf("iteration %d: expected [arithmetic geometry], got %v", i, areas)
		}
	}
}

func TestWeakAreas_LimitClamped(t *testing.T) {
	perf := perfMap(
		entry(subject.LogicalThinking, 4, 1),
		entry(subject.Arithmetic, 4, 2),
		entry(subject.NumberTheory, 4, 3),
		entry(subject.Geometry, 4, 3),
		entry(subject.Combinatorics, 4, 4),
	)

	if got := performance.WeakAreas(perf, 0); len(got) != performance.DefaultWeakAreaLimit {
		t.Errorf("limit 0: expected default %d areas, got %d", performance.DefaultWeakAreaLimit, len(got))
	}
	if got := performance.WeakAreas(perf, 100); len(got) != 5 {
		t.Errorf("limit 100: expected clamp to 5, got %d", len(got))
	}
	if got := performance.WeakAreas(perf, 2); len(got) != 2 {
		t.Errorf("limit 2: expected 2 areas, got %d", len(got))
	}
}
