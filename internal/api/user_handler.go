package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/domain/userprofile"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateUserRequest struct {
	Name string `json:"name"`
}

type UserResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	DifficultyLevel    string    `json:"difficulty_level"`
	CompletedLessonIDs []string  `json:"completed_lesson_ids"`
	CreatedAt          time.Time `json:"created_at"`
}

type SubjectPerformanceResponse struct {
	Subject        string  `json:"subject"`
	Label          string  `json:"label"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
	Trend          string  `json:"trend"`
}

type WeakAreaResponse struct {
	Subject string `json:"subject"`
	Label   string `json:"label"`
}

func toUserResponse(p *userprofile.Profile) UserResponse {
	completed := p.CompletedLessonIDs
	if completed == nil {
		completed = []string{}
	}
	return UserResponse{
		ID:                 p.ID,
		Name:               p.Name,
		DifficultyLevel:    string(p.DifficultyLevel),
		CompletedLessonIDs: completed,
		CreatedAt:          p.CreatedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /users
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	profile, err := h.svc.CreateUser(r.Context(), req.Name)
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(profile))
}

// GET /users/{userID}
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetUser(r.Context(), r.PathValue("userID"))
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(profile))
}

// GET /users/{userID}/performance
func (h *Handler) getPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.svc.SubjectPerformanceFor(r.Context(), r.PathValue("userID"))
	if h.handleError(w, err, "user") {
		return
	}

	out := make([]SubjectPerformanceResponse, len(perf))
	for i, sp := range perf {
		out[i] = SubjectPerformanceResponse{
			Subject:        string(sp.Subject),
			Label:          sp.Subject.Label(),
			TotalQuestions: sp.TotalQuestions,
			CorrectAnswers: sp.CorrectAnswers,
			Accuracy:       sp.Accuracy,
			Trend:          string(sp.Trend),
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /users/{userID}/weak-areas?limit=N
func (h *Handler) getWeakAreas(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	weak, err := h.svc.WeakAreas(r.Context(), r.PathValue("userID"), limit)
	if h.handleError(w, err, "user") {
		return
	}

	out := make([]WeakAreaResponse, len(weak))
	for i, subj := range weak {
		out[i] = WeakAreaResponse{Subject: string(subj), Label: subj.Label()}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /users/{userID}/review
func (h *Handler) getReviewQuestions(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.IncorrectQuestions(r.Context(), r.PathValue("userID"))
	if h.handleError(w, err, "user") {
		return
	}

	out := make([]ReviewItemResponse, len(items))
	for i, item := range items {
		out[i] = ReviewItemResponse{
			Question:     toQuestionResponse(&item.Question, true),
			LastMissedAt: item.LastMissedAt,
			TimesMissed:  item.TimesMissed,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /subjects
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountQuestionsBySubject(r.Context())
	if h.handleError(w, err, "subjects") {
		return
	}

	type subjectInfo struct {
		Subject   string `json:"subject"`
		Label     string `json:"label"`
		Questions int    `json:"questions"`
	}
	out := make([]subjectInfo, 0, len(subject.All()))
	for _, subj := range subject.All() {
		out = append(out, subjectInfo{
			Subject:   string(subj),
			Label:     subj.Label(),
			Questions: counts[subj],
		})
	}
	respondJSON(w, http.StatusOK, out)
}
