package features

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/models"
	"prepwise/internal/repo"
)

// Defaults applied to a sparse but otherwise valid call analysis.
const (
	defaultRole  = "Software Engineer"
	defaultLevel = "junior"
	defaultType  = "technical"
)

// CompletionEvent is published after an interview call finishes, for
// downstream consumers (dashboards, notifications). Best effort only.
type CompletionEvent struct {
	Event       string  `json:"event"`
	InterviewID string  `json:"interviewId"`
	UserID      string  `json:"userId"`
	Score       float64 `json:"score"`
	CompletedAt string  `json:"completedAt"`
}

// HandleCallEvent is one transition attempt of the webhook state machine:
// classify the (event, metadata) pair and dispatch. The returned response is
// always acknowledgeable; a non-nil error means an unexpected internal
// failure the handler should surface as a 500.
func (s *Prepwise) HandleCallEvent(ctx context.Context, event *models.WebhookEvent) (*models.WebhookResponse, error) {
	logger := s.logger.With(zap.String("event", event.Event))

	if event.Event != models.EventCallAnalyzed {
		logger.Info("Ignoring non-analysis call event")
		return &models.WebhookResponse{Success: true, Message: "event ignored"}, nil
	}
	if event.Call == nil || event.Call.Metadata == nil {
		logger.Info("Call event carries no metadata, nothing to do")
		return &models.WebhookResponse{Success: true, Message: "no call metadata"}, nil
	}

	metadata := event.Call.Metadata
	logger = logger.With(
		zap.String("callId", event.Call.CallID),
		zap.String("callType", metadata.Type))

	switch metadata.Type {
	case models.CallTypeGenerate:
		return s.handleGenerateCall(ctx, logger, event.Call)
	case models.CallTypeInterview:
		return s.handleInterviewCall(ctx, logger, event.Call)
	default:
		logger.Info("Unrecognized call metadata type, acknowledging")
		return &models.WebhookResponse{Success: true, Message: "unrecognized call type"}, nil
	}
}

// handleGenerateCall creates an interview from a completed "generate" call.
// The call id is the idempotency key: the existence probe catches most
// redeliveries cheaply and the create-if-absent insert catches the rest.
func (s *Prepwise) handleGenerateCall(ctx context.Context, logger *zap.Logger, call *models.WebhookCall) (*models.WebhookResponse, error) {
	var analysis *models.AnalysisData
	if call.CallAnalysis != nil {
		analysis = call.CallAnalysis.CustomAnalysisData
	}

	techstack := []string(nil)
	if analysis != nil {
		techstack = models.NormalizeTechStack(analysis.TechStack)
	}
	if analysis == nil || call.Metadata.UserID == "" || techstack == nil {
		logger.Warn("Rejecting generate call with incomplete analysis")
		return &models.WebhookResponse{Success: false, Error: "incomplete analysis"}, nil
	}
	if call.CallID == "" {
		// Without a call id there is no idempotency key; rejecting benignly
		// keeps the provider from retrying an unprocessable payload.
		logger.Warn("Rejecting generate call without call id")
		return &models.WebhookResponse{Success: false, Error: "missing call id"}, nil
	}

	exists, err := s.repo.Interview.ExistsByCallID(ctx, call.CallID)
	if err != nil {
		logger.Error("Failed to check call id", zap.Error(err))
		return nil, err
	}
	if exists {
		logger.Info("Duplicate generate call, acknowledging without side effects")
		return &models.WebhookResponse{Success: true, Message: "interview already created"}, nil
	}

	role := firstNonEmpty(analysis.Role, defaultRole)
	level := firstNonEmpty(analysis.Level, defaultLevel)
	qtype := firstNonEmpty(analysis.Type, defaultType)
	amount := int(analysis.Amount)
	if amount <= 0 {
		amount = defaultQuestionAmount
	}

	questions := s.GenerateQuestions(ctx, role, level, qtype, techstack, amount)

	interview := &models.Interview{
		UserID:    call.Metadata.UserID,
		Role:      role,
		Level:     level,
		Type:      qtype,
		TechStack: techstack,
		Questions: questions,
		Finalized: true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		CallID:    call.CallID,
		Stats:     models.NewStats(),
	}

	id, err := s.repo.Interview.CreateFromCall(ctx, interview)
	if errors.Is(err, repo.ErrDuplicateCallID) {
		// Lost the race against a concurrent redelivery; the first writer
		// already created the document.
		logger.Info("Concurrent duplicate delivery, interview already exists")
		return &models.WebhookResponse{Success: true, Message: "interview already created"}, nil
	}
	if err != nil {
		logger.Error("Failed to create interview from call", zap.Error(err))
		return nil, err
	}

	logger.Info("Interview created from call",
		zap.String("interviewId", id), zap.Int("questions", len(questions)))
	return &models.WebhookResponse{Success: true, Message: "interview created"}, nil
}

// handleInterviewCall grades a completed "interview" call: generate feedback
// from the transcript, submit it through the aggregator, then attach the
// transcript and mark the interview completed.
func (s *Prepwise) handleInterviewCall(ctx context.Context, logger *zap.Logger, call *models.WebhookCall) (*models.WebhookResponse, error) {
	interviewID := call.Metadata.InterviewID
	userID := call.Metadata.UserID
	if interviewID == "" || userID == "" {
		logger.Warn("Interview call missing identity metadata")
		return &models.WebhookResponse{Success: false, Error: "missing interview or user id"}, nil
	}
	logger = logger.With(zap.String("interviewId", interviewID), zap.String("userId", userID))

	interview, err := s.repo.Interview.Get(ctx, interviewID)
	if errors.Is(err, repo.ErrNotFound) {
		logger.Warn("Interview not found for completed call")
		return &models.WebhookResponse{Success: false, Error: "interview not found"}, nil
	}
	if err != nil {
		logger.Error("Failed to fetch interview", zap.Error(err))
		return nil, err
	}

	if call.Transcript == "" {
		logger.Warn("Interview call carries no transcript")
		return &models.WebhookResponse{Success: false, Error: "missing transcript"}, nil
	}

	draft, err := s.generator.GenerateFeedback(ctx, interview.Questions, interview.Role, interview.Level, call.Transcript)
	if err != nil || draft == nil || len(draft.Answers) == 0 {
		// Upstream generation failure: report without mutating state; the
		// provider will redeliver and the submission path is idempotent.
		logger.Error("Feedback generation failed", zap.Error(err))
		return &models.WebhookResponse{Success: false, Error: "feedback generation failed"}, nil
	}

	result, err := s.SubmitFeedback(ctx, interviewID, userID, draft)
	if errors.Is(err, ErrMissingFields) {
		return &models.WebhookResponse{Success: false, Error: err.Error()}, nil
	}
	if err != nil {
		logger.Error("Failed to submit feedback", zap.Error(err))
		return nil, err
	}

	completedAt := time.Now()
	if err := s.repo.Interview.Complete(ctx, interviewID, call.Transcript, completedAt); err != nil {
		logger.Error("Failed to mark interview completed", zap.Error(err))
		return nil, err
	}

	s.publishCompletion(ctx, logger, &CompletionEvent{
		Event:       "interview.completed",
		InterviewID: interviewID,
		UserID:      userID,
		Score:       draft.OverallScore,
		CompletedAt: completedAt.UTC().Format(time.RFC3339),
	})

	logger.Info("Interview call processed",
		zap.String("feedbackId", result.FeedbackID),
		zap.Bool("newAttempt", result.NewAttempt))
	return &models.WebhookResponse{Success: true, Message: "feedback recorded"}, nil
}

// publishCompletion is best effort: the broker is off the critical path.
func (s *Prepwise) publishCompletion(ctx context.Context, logger *zap.Logger, event *CompletionEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode completion event", zap.Error(err))
		return
	}
	if err := s.rabbit.Publish(ctx, body); err != nil {
		logger.Warn("Failed to publish completion event", zap.Error(err))
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
