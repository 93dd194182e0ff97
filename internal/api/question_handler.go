package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
)

// ── Request / Response types ────────────────────────────────────────────────

type OptionResponse struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type QuestionResponse struct {
	ID         string           `json:"id"`
	Subject    string           `json:"subject"`
	Difficulty int              `json:"difficulty"`
	Text       string           `json:"text"`
	Options    []OptionResponse `json:"options"`
	// CorrectLabel is only filled on review payloads, never while a
	// lesson is being played.
	CorrectLabel string  `json:"correct_label,omitempty"`
	ImageRef     *string `json:"image_ref,omitempty"`
}

type ReviewItemResponse struct {
	Question     QuestionResponse `json:"question"`
	LastMissedAt time.Time        `json:"last_missed_at"`
	TimesMissed  int              `json:"times_missed"`
}

func toQuestionResponse(q *question.Question, withAnswer bool) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, opt := range q.Options {
		options[i] = OptionResponse{Label: opt.Label, Text: opt.Text}
	}
	resp := QuestionResponse{
		ID:         q.ID,
		Subject:    string(q.Subject),
		Difficulty: int(q.Difficulty),
		Text:       q.Text,
		Options:    options,
		ImageRef:   q.ImageRef,
	}
	if withAnswer {
		resp.CorrectLabel = q.CorrectLabel
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /subjects/{subject}/questions?difficulty=N
func (h *Handler) listQuestionsBySubject(w http.ResponseWriter, r *http.Request) {
	subj, err := subject.Parse(r.PathValue("subject"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var difficulty subject.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			respondError(w, http.StatusBadRequest, "difficulty must be a number")
			return
		}
		difficulty, err = subject.ParseDifficulty(n)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	questions, err := h.store.GetQuestionsBySubject(r.Context(), subj, difficulty)
	if h.handleError(w, err, "questions") {
		return
	}

	out := make([]QuestionResponse, len(questions))
	for i := range questions {
		out[i] = toQuestionResponse(&questions[i], false)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /questions/{questionID}
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.store.GetQuestionByID(r.Context(), r.PathValue("questionID"))
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(q, false))
}
