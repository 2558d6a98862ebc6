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

// Trending is cached under one key holding the top trendingFetchLimit
// entries; per-request limits slice into it. One key keeps invalidation a
// single delete when a completion event arrives.
const (
	trendingCacheKey   = "interviews:trending"
	trendingCacheTTL   = 2 * time.Minute
	trendingFetchLimit = 50
)

// GetInterview returns nil when the id does not resolve.
func (s *Prepwise) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	interview, err := s.repo.Interview.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return interview, err
}

// GetUserFeedback fetches one user's feedback for one interview; nil when
// they have not taken it.
func (s *Prepwise) GetUserFeedback(ctx context.Context, interviewID, userID string) (*models.UserFeedback, error) {
	feedback, err := s.repo.Feedback.Get(ctx, interviewID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return feedback, err
}

// ListUserInterviews returns the interviews a user created, newest first,
// each enriched with that user's own feedback. Absent users get an empty
// list so callers stay branch-free.
func (s *Prepwise) ListUserInterviews(ctx context.Context, userID string) ([]*models.Interview, error) {
	if userID == "" {
		return []*models.Interview{}, nil
	}

	interviews, err := s.repo.Interview.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, interview := range interviews {
		feedback, err := s.repo.Feedback.Get(ctx, interview.ID, userID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			s.logger.Warn("Failed to attach feedback to interview",
				zap.String("interviewId", interview.ID), zap.Error(err))
			continue
		}
		interview.Feedback = feedback
	}
	return interviews, nil
}

// ListCompletedInterviews drives the completed view from the feedback side:
// every feedback the user owns, joined back to its interview. Feedback whose
// interview no longer exists is dropped silently.
func (s *Prepwise) ListCompletedInterviews(ctx context.Context, userID string) ([]*models.Interview, error) {
	if userID == "" {
		return []*models.Interview{}, nil
	}

	feedbacks, err := s.repo.Feedback.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	interviews := []*models.Interview{}
	for _, feedback := range feedbacks {
		interview, err := s.repo.Interview.Get(ctx, feedback.InterviewID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		interview.Feedback = feedback
		interview.Completed = true
		interviews = append(interviews, interview)
	}
	return interviews, nil
}

// ListTrendingInterviews serves the popularity view through a short-lived
// cache; cache errors fall through to the store.
func (s *Prepwise) ListTrendingInterviews(ctx context.Context, limit int) ([]*models.Interview, error) {
	if limit <= 0 {
		limit = 20
	}

	if cached, err := s.cache.Get(ctx, trendingCacheKey); err == nil && cached != nil {
		var interviews []*models.Interview
		if err := json.Unmarshal(cached, &interviews); err == nil {
			return headInterviews(interviews, limit), nil
		}
	}

	interviews, err := s.repo.Interview.ListTrending(ctx, trendingFetchLimit)
	if err != nil {
		return nil, err
	}

	if body, err := json.Marshal(interviews); err == nil {
		if _, err := s.cache.Set(ctx, trendingCacheKey, body, trendingCacheTTL); err != nil {
			s.logger.Warn("Failed to cache trending interviews", zap.Error(err))
		}
	}
	return headInterviews(interviews, limit), nil
}

func headInterviews(interviews []*models.Interview, limit int) []*models.Interview {
	if len(interviews) > limit {
		return interviews[:limit]
	}
	return interviews
}

// ListLatestInterviews returns finalized interviews excluding the given
// user's own, newest first, each annotated with whether that user has
// completed it.
func (s *Prepwise) ListLatestInterviews(ctx context.Context, userID string, limit int) ([]*models.Interview, error) {
	if limit <= 0 {
		limit = 20
	}

	interviews, err := s.repo.Interview.ListLatest(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		for _, interview := range interviews {
			taken, err := s.repo.Feedback.Exists(ctx, interview.ID, userID)
			if err != nil {
				s.logger.Warn("Failed to check interview completion",
					zap.String("interviewId", interview.ID), zap.Error(err))
				continue
			}
			interview.Completed = taken
		}
	}
	return interviews, nil
}
