package features

import (
	"context"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/models"
	"prepwise/internal/utils/parser"
)

const defaultQuestionAmount = 5

// GenerateQuestions walks the generation chain: schema-constrained call,
// then the free-text call with lenient parsing, then the static defaults.
// It never fails outward and never returns an empty list.
func (s *Prepwise) GenerateQuestions(ctx context.Context, role, level, qtype string, techstack []string, amount int) []string {
	if amount <= 0 {
		amount = defaultQuestionAmount
	}

	questions, err := s.generator.GenerateQuestions(ctx, role, level, qtype, techstack, amount)
	if err == nil && len(questions) > 0 {
		return parser.Truncate(questions, amount)
	}
	s.logger.Warn("Structured question generation failed, falling back to free-text parsing",
		zap.String("role", role), zap.Error(err))

	text, err := s.generator.GenerateQuestionsText(ctx, role, level, qtype, techstack, amount)
	if err == nil {
		parsed, perr := parser.ParseQuestionList(text)
		if perr == nil && len(parsed) > 0 {
			return parser.Truncate(parsed, amount)
		}
		s.logger.Warn("Could not parse free-text question response",
			zap.String("role", role), zap.Error(perr))
	} else {
		s.logger.Warn("Free-text question generation failed",
			zap.String("role", role), zap.Error(err))
	}

	s.logger.Error("All question generation failed, returning default questions",
		zap.String("role", role), zap.String("level", level))
	return parser.DefaultQuestions(role, level, techstack, amount)
}

// CreateInterview serves the direct generation endpoint: run the question
// chain and persist a finalized interview with zeroed stats.
func (s *Prepwise) CreateInterview(ctx context.Context, req *models.GenerateRequest) (*models.Interview, error) {
	role, level, qtype, techstack, amount, userID := req.Normalized()

	questions := s.GenerateQuestions(ctx, role, level, qtype, techstack, amount)

	interview := &models.Interview{
		UserID:    userID,
		Role:      role,
		Level:     level,
		Type:      qtype,
		TechStack: techstack,
		Questions: questions,
		Finalized: true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:     models.NewStats(),
	}

	id, err := s.repo.Interview.Create(ctx, interview)
	if err != nil {
		s.logger.Error("Failed to create interview", zap.Error(err))
		return nil, err
	}
	interview.ID = id

	s.logger.Info("Interview created",
		zap.String("interviewId", id),
		zap.String("role", role),
		zap.Int("questions", len(questions)))
	return interview, nil
}
