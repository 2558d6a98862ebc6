package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"prepwise/internal/models"
	"prepwise/internal/repo"
)

// Generate creates an interview directly, without a voice call. The body
// accepts both the current and the legacy parameter spellings.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	interview, err := h.service.CreateInterview(r.Context(), &req)
	if err != nil {
		h.internalError(w, err, "Direct interview generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"interview": interview,
	})
}

func (h *Handler) GetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := h.service.GetInterview(r.Context(), id)
	if err != nil {
		h.internalError(w, err, "Failed to fetch interview")
		return
	}
	if interview == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "interview not found"})
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

// GetFeedback returns the calling user's feedback for an interview.
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := h.extractor.GetUserID(r)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing user id"})
		return
	}

	feedback, err := h.service.GetUserFeedback(r.Context(), id, userID)
	if err != nil {
		h.internalError(w, err, "Failed to fetch feedback")
		return
	}
	if feedback == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "feedback not found"})
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

// GetComparison serves the "you vs average" widget.
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := h.extractor.GetUserID(r)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing user id"})
		return
	}

	comparison, err := h.service.GetScoreComparison(r.Context(), id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "feedback not found"})
		return
	}
	if err != nil {
		h.internalError(w, err, "Failed to build score comparison")
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (h *Handler) ListUserInterviews(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	interviews, err := h.service.ListUserInterviews(r.Context(), userID)
	if err != nil {
		h.internalError(w, err, "Failed to list user interviews")
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

func (h *Handler) ListCompletedInterviews(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	interviews, err := h.service.ListCompletedInterviews(r.Context(), userID)
	if err != nil {
		h.internalError(w, err, "Failed to list completed interviews")
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

func (h *Handler) ListTrendingInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.service.ListTrendingInterviews(r.Context(), queryLimit(r))
	if err != nil {
		h.internalError(w, err, "Failed to list trending interviews")
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

// ListLatestInterviews excludes the calling user's own interviews when the
// identity header is present.
func (h *Handler) ListLatestInterviews(w http.ResponseWriter, r *http.Request) {
	userID := h.extractor.GetUserID(r)

	interviews, err := h.service.ListLatestInterviews(r.Context(), userID, queryLimit(r))
	if err != nil {
		h.internalError(w, err, "Failed to list latest interviews")
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
