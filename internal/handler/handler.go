// Package handler exposes the webhook and read API over HTTP. Handlers
// classify failures: expected conditions answer 200 with a success flag,
// anything else answers 500 with a generic body.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"prepwise/internal/models"
	"prepwise/internal/utils/extractor"
)

// Service is the feature surface the HTTP layer consumes.
type Service interface {
	HandleCallEvent(ctx context.Context, event *models.WebhookEvent) (*models.WebhookResponse, error)
	CreateInterview(ctx context.Context, req *models.GenerateRequest) (*models.Interview, error)
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	GetUserFeedback(ctx context.Context, interviewID, userID string) (*models.UserFeedback, error)
	GetScoreComparison(ctx context.Context, interviewID, userID string) (*models.ScoreComparison, error)
	ListUserInterviews(ctx context.Context, userID string) ([]*models.Interview, error)
	ListCompletedInterviews(ctx context.Context, userID string) ([]*models.Interview, error)
	ListTrendingInterviews(ctx context.Context, limit int) ([]*models.Interview, error)
	ListLatestInterviews(ctx context.Context, userID string, limit int) ([]*models.Interview, error)
}

type Handler struct {
	service   Service
	validate  *validator.Validate
	extractor extractor.Extractor
	logger    *zap.Logger
}

func New(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:   service,
		validate:  validator.New(),
		extractor: extractor.New(),
		logger:    logger,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) internalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error(msg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
