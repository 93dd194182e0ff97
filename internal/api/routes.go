// internal/api/routes.go
package api

import "net/http"

// RegisterRoutes attaches all API routes to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Users
	mux.HandleFunc("POST /users", h.createUser)
	mux.HandleFunc("GET /users/{userID}", h.getUser)
	mux.HandleFunc("GET /users/{userID}/lessons", h.listLessons)
	mux.HandleFunc("GET /users/{userID}/performance", h.getPerformance)
	mux.HandleFunc("GET /users/{userID}/weak-areas", h.getWeakAreas)
	mux.HandleFunc("GET /users/{userID}/review", h.getReviewQuestions)

	// Lessons
	mux.HandleFunc("POST /lessons", h.startLesson)
	mux.HandleFunc("GET /lessons/{lessonID}", h.getLesson)
	mux.HandleFunc("POST /lessons/{lessonID}/responses", h.submitResponse)
	mux.HandleFunc("POST /lessons/{lessonID}/complete", h.completeLesson)

	// Question bank
	mux.HandleFunc("GET /subjects", h.listSubjects)
	mux.HandleFunc("GET /subjects/{subject}/questions", h.listQuestionsBySubject)
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)
}
