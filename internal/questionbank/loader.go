package questionbank

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/id"
)

// bankFile mirrors the bundled question bank JSON shape.
type bankFile struct {
	Questions []bankQuestion `json:"questions"`
}

type bankQuestion struct {
	ID         string      `json:"id"`
	Subject    string      `json:"subject"`
	Difficulty int         `json:"difficulty"`
	Content    bankContent `json:"content"`
}

type bankContent struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	ImageData     string   `json:"imageData,omitempty"`
}

// optionLabels assigns labels to positional options in bank files.
var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// ParseJSON reads a question bank file and returns validated questions.
// A file with any malformed question is rejected whole: the bank is a
// curated artifact, not user input.
func ParseJSON(r io.Reader) ([]question.Question, error) {
	var file bankFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode bank file: %w", err)
	}

	questions := make([]question.Question, 0, len(file.Questions))
	for i, bq := range file.Questions {
		q, err := bq.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i, bq.ID, err)
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (bq bankQuestion) toQuestion() (*question.Question, error) {
	subj, err := subject.Parse(bq.Subject)
	if err != nil {
		return nil, err
	}
	difficulty, err := subject.ParseDifficulty(bq.Difficulty)
	if err != nil {
		return nil, err
	}
	if len(bq.Content.Options) > len(optionLabels) {
		return nil, fmt.Errorf("too many options (%d)", len(bq.Content.Options))
	}

	options := make([]question.Option, len(bq.Content.Options))
	correctLabel := ""
	for i, text := range bq.Content.Options {
		options[i] = question.Option{Label: optionLabels[i], Text: text}
		if text == bq.Content.CorrectAnswer {
			correctLabel = optionLabels[i]
		}
	}
	if correctLabel == "" {
		return nil, fmt.Errorf("correct answer %q not among options", bq.Content.CorrectAnswer)
	}

	q := &question.Question{
		ID:           bq.ID,
		Subject:      subj,
		Difficulty:   difficulty,
		Text:         bq.Content.Question,
		Options:      options,
		CorrectLabel: correctLabel,
	}
	if q.ID == "" {
		q.ID = id.GenerateID()
	}
	if bq.Content.ImageData != "" {
		ref := bq.Content.ImageData
		q.ImageRef = &ref
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
