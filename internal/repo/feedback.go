package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"prepwise/internal/models"
)

type IFeedback interface {
	Get(ctx context.Context, interviewID, userID string) (*models.UserFeedback, error)
	Exists(ctx context.Context, interviewID, userID string) (bool, error)
	Put(ctx context.Context, feedback *models.UserFeedback) error
	ListByUser(ctx context.Context, userID string) ([]*models.UserFeedback, error)
}

type MongoFeedback struct {
	col    *mongo.Collection
	logger *zap.Logger
}

func NewFeedbackRepository(db *mongo.Database, logger *zap.Logger) IFeedback {
	return &MongoFeedback{
		col:    db.Collection("user_feedbacks"),
		logger: logger,
	}
}

// Get looks the document up by composite id first and falls back to an
// equality query on (interviewId, userId). The fallback tolerates historical
// documents written before the composite key scheme.
func (r *MongoFeedback) Get(ctx context.Context, interviewID, userID string) (*models.UserFeedback, error) {
	var feedback models.UserFeedback
	err := r.col.FindOne(ctx, bson.M{"_id": models.FeedbackID(interviewID, userID)}).Decode(&feedback)
	if err == nil {
		return &feedback, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err = r.col.FindOne(ctx, bson.M{"interviewId": interviewID, "userId": userID}, opts).Decode(&feedback)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	return &feedback, nil
}

// Exists checks the composite slot. This runs before Put so the aggregator
// can tell a first submission from a resubmission.
func (r *MongoFeedback) Exists(ctx context.Context, interviewID, userID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": models.FeedbackID(interviewID, userID)})
	if err != nil {
		return false, fmt.Errorf("failed to check feedback existence: %w", err)
	}
	return count > 0, nil
}

// Put writes the document under its composite id with overwrite semantics:
// a resubmission replaces the previous attempt in place.
func (r *MongoFeedback) Put(ctx context.Context, feedback *models.UserFeedback) error {
	feedback.ID = models.FeedbackID(feedback.InterviewID, feedback.UserID)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": feedback.ID}, feedback, opts); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// ListByUser drives the completed-interviews view from the feedback side.
func (r *MongoFeedback) ListByUser(ctx context.Context, userID string) ([]*models.UserFeedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer cur.Close(ctx)

	feedbacks := []*models.UserFeedback{}
	if err := cur.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode feedback list: %w", err)
	}
	return feedbacks, nil
}
