package api

import (
	"net/http"
	"time"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/subject"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartLessonRequest struct {
	UserID  string `json:"user_id"`
	Subject string `json:"subject"`
}

type ResponseRecordResponse struct {
	QuestionID          string     `json:"question_id"`
	SelectedLabel       *string    `json:"selected_label,omitempty"`
	IsCorrect           bool       `json:"is_correct"`
	ResponseTimeSeconds float64    `json:"response_time_seconds"`
	AnsweredAt          time.Time  `json:"answered_at"`
}

type LessonResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	Subject     string                   `json:"subject"`
	Difficulty  int                      `json:"difficulty"`
	Status      string                   `json:"status"`
	QuestionIDs []string                 `json:"question_ids"`
	Responses   []ResponseRecordResponse `json:"responses"`
	Accuracy    float64                  `json:"accuracy"`
	StartedAt   time.Time                `json:"started_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
}

type SubmitResponseRequest struct {
	QuestionID          string  `json:"question_id"`
	SelectedLabel       *string `json:"selected_label"` // null means skip
	ResponseTimeSeconds float64 `json:"response_time_seconds"`
}

type SubmitResponseResponse struct {
	IsCorrect    bool   `json:"is_correct"`
	Skipped      bool   `json:"skipped"`
	CorrectLabel string `json:"correct_label"`
	Answered     int    `json:"answered"`
	Total        int    `json:"total"`
}

type CompleteLessonResponse struct {
	Lesson          LessonResponse `json:"lesson"`
	Accuracy        float64        `json:"accuracy"`
	DifficultyMove  string         `json:"difficulty_move"`
	DifficultyLevel string         `json:"difficulty_level"`
	MoveReason      string         `json:"move_reason"`
}

func toLessonResponse(l *lesson.Lesson) LessonResponse {
	responses := make([]ResponseRecordResponse, len(l.Responses))
	for i, r := range l.Responses {
		responses[i] = ResponseRecordResponse{
			QuestionID:          r.QuestionID,
			SelectedLabel:       r.SelectedLabel,
			IsCorrect:           r.IsCorrect,
			ResponseTimeSeconds: r.ResponseTimeSeconds,
			AnsweredAt:          r.AnsweredAt,
		}
	}
	return LessonResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		Subject:     string(l.Subject),
		Difficulty:  int(l.Difficulty),
		Status:      string(l.Status),
		QuestionIDs: l.QuestionIDs,
		Responses:   responses,
		Accuracy:    l.Accuracy(),
		StartedAt:   l.StartedAt,
		CompletedAt: l.CompletedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /lessons
func (h *Handler) startLesson(w http.ResponseWriter, r *http.Request) {
	var req StartLessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	subj, err := subject.Parse(req.Subject)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.svc.StartLesson(r.Context(), req.UserID, subj)
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusCreated, toLessonResponse(l))
}

// GET /lessons/{lessonID}
func (h *Handler) getLesson(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetLesson(r.Context(), r.PathValue("lessonID"))
	if h.handleError(w, err, "lesson") {
		return
	}
	respondJSON(w, http.StatusOK, toLessonResponse(l))
}

// GET /users/{userID}/lessons
func (h *Handler) listLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.svc.LessonHistory(r.Context(), r.PathValue("userID"))
	if h.handleError(w, err, "user") {
		return
	}

	out := make([]LessonResponse, len(lessons))
	for i, l := range lessons {
		out[i] = toLessonResponse(l)
	}
	respondJSON(w, http.StatusOK, out)
}

// POST /lessons/{lessonID}/responses
func (h *Handler) submitResponse(w http.ResponseWriter, r *http.Request) {
	var req SubmitResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionID == "" {
		respondError(w, http.StatusBadRequest, "question_id is required")
		return
	}
	if req.ResponseTimeSeconds < 0 {
		respondError(w, http.StatusBadRequest, "response_time_seconds must not be negative")
		return
	}

	result, err := h.svc.SubmitResponse(r.Context(), r.PathValue("lessonID"),
		req.QuestionID, req.SelectedLabel, req.ResponseTimeSeconds)
	if h.handleError(w, err, "lesson") {
		return
	}

	respondJSON(w, http.StatusOK, SubmitResponseResponse{
		IsCorrect:    result.IsCorrect,
		Skipped:      result.Skipped,
		CorrectLabel: result.CorrectLabel,
		Answered:     len(result.Lesson.Responses),
		Total:        len(result.Lesson.QuestionIDs),
	})
}

// POST /lessons/{lessonID}/complete
func (h *Handler) completeLesson(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CompleteLesson(r.Context(), r.PathValue("lessonID"))
	if h.handleError(w, err, "lesson") {
		return
	}

	respondJSON(w, http.StatusOK, CompleteLessonResponse{
		Lesson:          toLessonResponse(result.Lesson),
		Accuracy:        result.Accuracy,
		DifficultyMove:  string(result.Decision.Move),
		DifficultyLevel: string(result.Decision.To),
		MoveReason:      result.Decision.Reason,
	})
}
