package features

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartCompletionWorker consumes interview.completed events from the broker.
// Replicas publish on completion and every replica consumes, so each
// instance drops its trending cache as soon as an attempt lands anywhere.
// Blocks until the consume loop ends; with the Dummy broker it is a no-op.
func (s *Prepwise) StartCompletionWorker(ctx context.Context) error {
	return s.rabbit.Consume(ctx, s.handleCompletionMessage)
}

// handleCompletionMessage acks malformed bodies instead of requeueing them;
// a message that never decodes would otherwise bounce forever.
func (s *Prepwise) handleCompletionMessage(ctx context.Context, msg amqp.Delivery) error {
	var event CompletionEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Warn("Discarding undecodable completion event", zap.Error(err))
		return nil
	}

	if _, err := s.cache.Delete(ctx, trendingCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate trending cache",
			zap.String("interviewId", event.InterviewID), zap.Error(err))
		return err
	}

	s.logger.Info("Trending cache invalidated after interview completion",
		zap.String("interviewId", event.InterviewID),
		zap.String("userId", event.UserID))
	return nil
}
