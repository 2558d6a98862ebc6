package features

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/models"
	"prepwise/internal/repo"
)

// ErrMissingFields rejects a submission before any write happens.
var ErrMissingFields = errors.New("missing required fields")

// SubmitResult reports the outcome of a feedback submission.
type SubmitResult struct {
	FeedbackID string `json:"feedbackId"`
	NewAttempt bool   `json:"newAttempt"`
}

// SubmitFeedback persists one user's feedback for one interview exactly once
// per identity. The existence check runs before the write: only a submission
// for a previously unseen (interview, user) pair folds its score into the
// interview's stats, which is what makes webhook redelivery safe.
func (s *Prepwise) SubmitFeedback(ctx context.Context, interviewID, userID string, draft *models.FeedbackDraft) (*SubmitResult, error) {
	if interviewID == "" || userID == "" || draft == nil {
		return nil, ErrMissingFields
	}

	existed, err := s.repo.Feedback.Exists(ctx, interviewID, userID)
	if err != nil {
		s.logger.Error("Failed to check existing feedback",
			zap.String("interviewId", interviewID), zap.String("userId", userID), zap.Error(err))
		return nil, err
	}

	feedback := &models.UserFeedback{
		ID:              models.FeedbackID(interviewID, userID),
		InterviewID:     interviewID,
		UserID:          userID,
		OverallScore:    clampScore(draft.OverallScore),
		OverallFeedback: draft.OverallFeedback,
		Answers:         draft.Answers,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Feedback.Put(ctx, feedback); err != nil {
		s.logger.Error("Failed to save feedback",
			zap.String("feedbackId", feedback.ID), zap.Error(err))
		return nil, err
	}

	if !existed {
		// Stats failures do not fail the submission: the feedback document
		// is the source of truth, the aggregate is a derived view.
		if _, err := s.repo.Interview.UpdateStats(ctx, interviewID, feedback.OverallScore, time.Now()); err != nil {
			s.logger.Error("Failed to update interview stats",
				zap.String("interviewId", interviewID), zap.Error(err))
		}
	} else {
		s.logger.Info("Feedback resubmitted, stats unchanged",
			zap.String("feedbackId", feedback.ID))
	}

	return &SubmitResult{FeedbackID: feedback.ID, NewAttempt: !existed}, nil
}

// GetScoreComparison places a user's score against the interview's running
// aggregate. The percentile is a deliberate affine estimate from the
// average: no raw score distribution is retained.
func (s *Prepwise) GetScoreComparison(ctx context.Context, interviewID, userID string) (*models.ScoreComparison, error) {
	feedback, err := s.repo.Feedback.Get(ctx, interviewID, userID)
	if err != nil {
		return nil, err
	}

	firstAttempt := &models.ScoreComparison{
		UserScore:     feedback.OverallScore,
		AverageScore:  feedback.OverallScore,
		Percentile:    100,
		TotalAttempts: 1,
	}

	interview, err := s.repo.Interview.Get(ctx, interviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return firstAttempt, nil
	}
	if err != nil {
		return nil, err
	}

	stats := interview.Stats
	if stats.TotalAttempts == 0 {
		return firstAttempt, nil
	}

	return &models.ScoreComparison{
		UserScore:     feedback.OverallScore,
		AverageScore:  stats.AverageScore,
		Percentile:    estimatePercentile(feedback.OverallScore, stats.AverageScore),
		TotalAttempts: stats.TotalAttempts,
	}, nil
}

// estimatePercentile scales the distance from the average into [0, 100]
// with 50 pinned to the average itself.
func estimatePercentile(userScore, avgScore float64) int {
	percentile := 50.0
	if userScore > avgScore {
		percentile = 50 + math.Min(50, (userScore-avgScore)/(100-avgScore)*50)
	} else if userScore < avgScore {
		percentile = math.Max(0, 50-(avgScore-userScore)/avgScore*50)
	}
	return int(math.Round(percentile))
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
