package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gradewise/gradewise/internal/model"
)

// requireAdmin guards admin routes with HTTP basic auth against the bcrypt
// hash seeded into the metadata table at startup.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash, err := h.store.GetAdminPasswordHash()
		if err != nil {
			slog.Error("failed to load admin password hash", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if hash == "" {
			respondError(w, http.StatusForbidden, "admin password not configured")
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok || username != "admin" ||
			bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="gradewise admin"`)
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	var req model.ExamImport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Title == "" || len(req.Questions) == 0 {
		respondError(w, http.StatusBadRequest, "title and at least one question are required")
		return
	}
	for _, q := range req.Questions {
		if q.Number == "" || q.MaxMarks <= 0 {
			respondError(w, http.StatusBadRequest, "every question needs a number and positive max_marks")
			return
		}
	}

	exam := model.Exam{
		ID:        uuid.NewString(),
		Title:     req.Title,
		PassMarks: req.PassMarks,
	}
	for _, q := range req.Questions {
		exam.Questions = append(exam.Questions, model.Question{
			ExamID:   exam.ID,
			Number:   q.Number,
			Text:     q.Text,
			MaxMarks: q.MaxMarks,
		})
	}

	if err := h.store.CreateExam(exam); err != nil {
		slog.Error("create exam failed", "title", req.Title, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create exam: "+err.Error())
		return
	}

	slog.Info("created exam", "exam_id", exam.ID, "title", exam.Title, "questions", len(exam.Questions))
	respondJSON(w, http.StatusCreated, exam)
}
