package subject

import (
	"fmt"
	"strings"
)

// Subject is one of the five fixed math topic categories.
type Subject string

const (
	LogicalThinking Subject = "logical_thinking"
	Arithmetic      Subject = "arithmetic"
	NumberTheory    Subject = "number_theory"
	Geometry        Subject = "geometry"
	Combinatorics   Subject = "combinatorics"
)

// All returns every subject in canonical order. The order is stable and
// is used as the deterministic tie-break when ranking subjects.
func All() []Subject {
	return []Subject{
		LogicalThinking,
		Arithmetic,
		NumberTheory,
		Geometry,
		Combinatorics,
	}
}

// Parse normalizes s ("Number Theory", "number_theory", "numberTheory")
// to a Subject.
func Parse(s string) (Subject, error) {
	normalized := normalize(s)
	for _, subj := range All() {
		if normalized == string(subj) {
			return subj, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q", s)
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	// Split camelCase ("numberTheory" → "number Theory") before lowering.
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && s[i-1] != ' ' && s[i-1] != '_' && s[i-1] != '-' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	s = strings.ToLower(b.String())
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), "_")
}

// Valid reports whether s is one of the five known subjects.
func (s Subject) Valid() bool {
	for _, subj := range All() {
		if s == subj {
			return true
		}
	}
	return false
}

// Index returns the subject's position in canonical order, or -1 if unknown.
func (s Subject) Index() int {
	for i, subj := range All() {
		if s == subj {
			return i
		}
	}
	return -1
}

// Label returns the human-readable subject name.
func (s Subject) Label() string {
	switch s {
	case LogicalThinking:
		return "Logical Thinking"
	case Arithmetic:
		return "Arithmetic"
	case NumberTheory:
		return "Number Theory"
	case Geometry:
		return "Geometry"
	case Combinatorics:
		return "Combinatorics"
	}
	return string(s)
}

// Difficulty is the per-lesson question difficulty scale.
type Difficulty int

const (
	DifficultyEasy     Difficulty = 1
	DifficultyMedium   Difficulty = 2
	DifficultyHard     Difficulty = 3
	DifficultyOlympiad Difficulty = 4
)

// ParseDifficulty validates a numeric difficulty level.
func ParseDifficulty(n int) (Difficulty, error) {
	d := Difficulty(n)
	if !d.Valid() {
		return 0, fmt.Errorf("difficulty must be between 1 and 4, got %d", n)
	}
	return d, nil
}

// Valid reports whether d is within the 1-4 scale.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyOlympiad
}

// Label returns the human-readable difficulty name.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	case DifficultyOlympiad:
		return "Olympiad"
	}
	return fmt.Sprintf("Level %d", int(d))
}
