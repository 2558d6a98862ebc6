package repo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Domain outcomes callers branch on. Everything else coming out of this
// package is an infrastructure failure.
var (
	ErrNotFound         = errors.New("document not found")
	ErrDuplicateCallID  = errors.New("interview already created for call")
	ErrInterviewMissing = errors.New("interview missing for stats update")
)

type Repository struct {
	Interview IInterview
	Feedback  IFeedback
	Client    *mongo.Client
}

func New(client *mongo.Client, db *mongo.Database, logger *zap.Logger) *Repository {
	return &Repository{
		Client:    client,
		Interview: NewInterviewRepository(client, db, logger),
		Feedback:  NewFeedbackRepository(db, logger),
	}
}
