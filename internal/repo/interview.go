package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"

	"prepwise/internal/models"
)

type IInterview interface {
	Get(ctx context.Context, id string) (*models.Interview, error)
	Create(ctx context.Context, interview *models.Interview) (string, error)
	CreateFromCall(ctx context.Context, interview *models.Interview) (string, error)
	ExistsByCallID(ctx context.Context, callID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Interview, error)
	ListLatest(ctx context.Context, excludeUserID string, limit int) ([]*models.Interview, error)
	ListTrending(ctx context.Context, limit int) ([]*models.Interview, error)
	Complete(ctx context.Context, id, transcript string, at time.Time) error
	UpdateStats(ctx context.Context, id string, score float64, at time.Time) (models.Stats, error)
}

type MongoInterview struct {
	client *mongo.Client
	col    *mongo.Collection
	logger *zap.Logger
}

// NewInterviewRepository wires the collection and ensures the sparse unique
// index on callId that backs the create-if-absent write.
func NewInterviewRepository(client *mongo.Client, db *mongo.Database, logger *zap.Logger) IInterview {
	col := db.Collection("interviews")

	_, err := col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "callId", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		logger.Warn("Failed to ensure callId index", zap.Error(err))
	}

	return &MongoInterview{client: client, col: col, logger: logger}
}

func (r *MongoInterview) Get(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&interview)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interview: %w", err)
	}
	return &interview, nil
}

// Create inserts an interview with a store-assigned id.
func (r *MongoInterview) Create(ctx context.Context, interview *models.Interview) (string, error) {
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	if _, err := r.col.InsertOne(ctx, interview); err != nil {
		return "", fmt.Errorf("failed to create interview: %w", err)
	}
	return interview.ID, nil
}

// CreateFromCall inserts the interview created by a "generate" call. The
// unique callId index turns a concurrent duplicate delivery into a
// duplicate-key failure instead of a second document; callers treat
// ErrDuplicateCallID as a benign outcome.
func (r *MongoInterview) CreateFromCall(ctx context.Context, interview *models.Interview) (string, error) {
	if interview.CallID == "" {
		return "", fmt.Errorf("interview has no call id")
	}
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	_, err := r.col.InsertOne(ctx, interview)
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrDuplicateCallID
	}
	if err != nil {
		return "", fmt.Errorf("failed to create interview for call: %w", err)
	}
	return interview.ID, nil
}

func (r *MongoInterview) ExistsByCallID(ctx context.Context, callID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"callId": callID})
	if err != nil {
		return false, fmt.Errorf("failed to check call id: %w", err)
	}
	return count > 0, nil
}

// ListByUser returns the interviews a user created, newest first.
func (r *MongoInterview) ListByUser(ctx context.Context, userID string) ([]*models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.list(ctx, bson.M{"userId": userID}, opts)
}

// ListLatest returns finalized interviews excluding the given user's own,
// newest first.
func (r *MongoInterview) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]*models.Interview, error) {
	filter := bson.M{"finalized": true}
	if excludeUserID != "" {
		filter["userId"] = bson.M{"$ne": excludeUserID}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.list(ctx, filter, opts)
}

// ListTrending orders finalized interviews by attempt count. When the store
// rejects the ordered query (composite index unavailable) it degrades to
// newest-first over the same filter rather than failing the read.
func (r *MongoInterview) ListTrending(ctx context.Context, limit int) ([]*models.Interview, error) {
	filter := bson.M{"finalized": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "stats.totalAttempts", Value: -1}}).
		SetLimit(int64(limit))

	interviews, err := r.list(ctx, filter, opts)
	if err == nil {
		return interviews, nil
	}
	r.logger.Warn("Trending query failed, falling back to createdAt ordering", zap.Error(err))

	opts = options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.list(ctx, filter, opts)
}

func (r *MongoInterview) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Interview, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer cur.Close(ctx)

	interviews := []*models.Interview{}
	if err := cur.All(ctx, &interviews); err != nil {
		return nil, fmt.Errorf("failed to decode interviews: %w", err)
	}
	return interviews, nil
}

// Complete attaches the transcript and marks the interview done. This runs
// after feedback submission and is deliberately a plain overwrite: the call
// transcript for a given call never changes across redeliveries.
func (r *MongoInterview) Complete(ctx context.Context, id, transcript string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"transcript":  transcript,
		"status":      models.StatusCompleted,
		"completedAt": at.UTC().Format(time.RFC3339),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to complete interview: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStats folds one score into the interview's embedded stats inside a
// session transaction. Read and write share the transaction snapshot; the
// driver restarts the callback on transient and commit conflicts, which is
// what keeps two simultaneous submissions from losing an update.
func (r *MongoInterview) UpdateStats(ctx context.Context, id string, score float64, at time.Time) (models.Stats, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var interview models.Interview
		err := r.col.FindOne(sc, bson.M{"_id": id}).Decode(&interview)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInterviewMissing
		}
		if err != nil {
			return nil, err
		}

		stats := interview.Stats
		if stats.TotalAttempts == 0 && stats.LowestScore == 0 {
			// Documents created before stats were embedded.
			stats = models.NewStats()
		}
		stats = stats.Fold(score, at)

		if _, err := r.col.UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": bson.M{"stats": stats}}); err != nil {
			return nil, err
		}
		return stats, nil
	}, txnOpts)
	if err != nil {
		if errors.Is(err, ErrInterviewMissing) {
			return models.Stats{}, ErrInterviewMissing
		}
		return models.Stats{}, fmt.Errorf("stats transaction failed: %w", err)
	}

	stats := result.(models.Stats)
	r.logger.Info("Interview stats updated",
		zap.String("interviewId", id),
		zap.Int("totalAttempts", stats.TotalAttempts),
		zap.Float64("averageScore", stats.AverageScore))
	return stats, nil
}
