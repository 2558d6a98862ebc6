package models

import (
	"math"
	"strings"
	"time"
)

// Interview is one interview template stored in the "interviews" collection.
// The ID is the Mongo document id; CallID links the document back to the
// provider call that created it and backs webhook idempotency.
type Interview struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	UserID      string   `bson:"userId" json:"userId"`
	Role        string   `bson:"role" json:"role"`
	Level       string   `bson:"level" json:"level"`
	Type        string   `bson:"type" json:"type"`
	TechStack   []string `bson:"techstack" json:"techstack"`
	Questions   []string `bson:"questions" json:"questions"`
	Finalized   bool     `bson:"finalized" json:"finalized"`
	CreatedAt   string   `bson:"createdAt" json:"createdAt"`
	CallID      string   `bson:"callId,omitempty" json:"callId,omitempty"`
	Status      string   `bson:"status,omitempty" json:"status,omitempty"`
	Transcript  string   `bson:"transcript,omitempty" json:"transcript,omitempty"`
	CompletedAt string   `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Stats       Stats    `bson:"stats" json:"stats"`

	// Feedback is the requesting user's own feedback, attached by list reads.
	// Never persisted on the interview document.
	Feedback *UserFeedback `bson:"-" json:"feedback,omitempty"`
	// Completed is set by the latest-interviews read for the requesting user.
	Completed bool `bson:"-" json:"completed,omitempty"`
}

const StatusCompleted = "completed"

// Stats is the running aggregate of every feedback score folded into an
// interview. It is embedded in the interview document so the fold stays a
// single-document transaction.
type Stats struct {
	TotalAttempts int     `bson:"totalAttempts" json:"totalAttempts"`
	AverageScore  float64 `bson:"averageScore" json:"averageScore"`
	HighestScore  float64 `bson:"highestScore" json:"highestScore"`
	LowestScore   float64 `bson:"lowestScore" json:"lowestScore"`
	LastUpdated   string  `bson:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
}

// NewStats returns the aggregate before any attempt. LowestScore starts at
// 100 so the first real score always lowers it.
func NewStats() Stats {
	return Stats{LowestScore: 100}
}

// Fold returns the aggregate with one more score accounted for. The average
// is maintained incrementally and rounded to one decimal place; it is never
// recomputed from raw feedback documents.
func (s Stats) Fold(score float64, now time.Time) Stats {
	total := s.TotalAttempts + 1
	avg := (s.AverageScore*float64(s.TotalAttempts) + score) / float64(total)
	return Stats{
		TotalAttempts: total,
		AverageScore:  math.Round(avg*10) / 10,
		HighestScore:  math.Max(s.HighestScore, score),
		LowestScore:   math.Min(s.LowestScore, score),
		LastUpdated:   now.UTC().Format(time.RFC3339),
	}
}

// UserFeedback is one user's graded attempt at one interview, stored in the
// "user_feedbacks" collection under the composite id interviewId_userId.
type UserFeedback struct {
	ID              string           `bson:"_id,omitempty" json:"id"`
	InterviewID     string           `bson:"interviewId" json:"interviewId"`
	UserID          string           `bson:"userId" json:"userId"`
	OverallScore    float64          `bson:"overallScore" json:"overallScore"`
	OverallFeedback string           `bson:"overallFeedback" json:"overallFeedback"`
	Answers         []AnswerFeedback `bson:"answers" json:"answers"`
	CreatedAt       string           `bson:"createdAt" json:"createdAt"`
}

// AnswerFeedback grades a single question from the transcript.
type AnswerFeedback struct {
	Question     string   `bson:"question" json:"question"`
	Score        float64  `bson:"score" json:"score"`
	Feedback     string   `bson:"feedback" json:"feedback"`
	UserAnswer   string   `bson:"userAnswer" json:"userAnswer"`
	Strengths    []string `bson:"strengths" json:"strengths"`
	Improvements []string `bson:"improvements" json:"improvements"`
}

// FeedbackDraft is the generative model's grading of one transcript, before
// it is bound to a (interview, user) identity and persisted.
type FeedbackDraft struct {
	OverallScore    float64          `json:"overallScore"`
	OverallFeedback string           `json:"overallFeedback"`
	Answers         []AnswerFeedback `json:"answers"`
}

// FeedbackID builds the composite document id that makes feedback submission
// idempotent per (interview, user).
func FeedbackID(interviewID, userID string) string {
	return interviewID + "_" + userID
}

// ScoreComparison is the "you vs everyone" view for one user's attempt.
type ScoreComparison struct {
	UserScore     float64 `json:"userScore"`
	AverageScore  float64 `json:"averageScore"`
	Percentile    int     `json:"percentile"`
	TotalAttempts int     `json:"totalAttempts"`
}

// NormalizeTechStack turns the provider's comma-joined string into the
// stored list form. A nil result means the caller should apply its default.
func NormalizeTechStack(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
