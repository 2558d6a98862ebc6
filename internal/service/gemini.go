package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"prepwise/internal/models"
)

// Generator is the boundary to the generative-text provider. Question and
// feedback generation are the only two things this service asks of it; the
// free-text variant exists solely as the question chain's fallback.
type Generator interface {
	GenerateQuestions(ctx context.Context, role, level, qtype string, techstack []string, amount int) ([]string, error)
	GenerateQuestionsText(ctx context.Context, role, level, qtype string, techstack []string, amount int) (string, error)
	GenerateFeedback(ctx context.Context, questions []string, role, level, transcript string) (*models.FeedbackDraft, error)
}

// GeminiClient implements Generator against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient builds the client from viper config (gemini.api_key,
// gemini.model). Constructed once at process start and injected.
func NewGeminiClient(ctx context.Context, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  viper.GetString("gemini.api_key"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := viper.GetString("gemini.model")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiClient{client: client, model: model, logger: logger}, nil
}

var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"questions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"questions"},
}

var feedbackSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"overallScore":    {Type: genai.TypeNumber},
		"overallFeedback": {Type: genai.TypeString},
		"answers": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question":     {Type: genai.TypeString},
					"score":        {Type: genai.TypeNumber},
					"feedback":     {Type: genai.TypeString},
					"userAnswer":   {Type: genai.TypeString},
					"strengths":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"improvements": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"question", "score", "feedback"},
			},
		},
	},
	Required: []string{"overallScore", "overallFeedback", "answers"},
}

// GenerateQuestions requests a schema-constrained question list. The model
// may return up to 2x the requested amount; the caller truncates.
func (g *GeminiClient) GenerateQuestions(ctx context.Context, role, level, qtype string, techstack []string, amount int) ([]string, error) {
	prompt := fmt.Sprintf(`Generate exactly %d professional interview questions for a %s %s position.
Tech stack: %s.
Question type: %s.

The questions should be challenging and relevant to the specified level and tech stack.`,
		amount, level, role, strings.Join(techstack, ", "), qtype)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("question generation returned no response")
	}

	text, err := result.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract question response: %w", err)
	}

	var payload struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode question response: %w", err)
	}
	if len(payload.Questions) == 0 || len(payload.Questions) > amount*2 {
		return nil, fmt.Errorf("question response out of bounds: got %d", len(payload.Questions))
	}
	return payload.Questions, nil
}

// GenerateQuestionsText is the free-text fallback call. The prompt constrains
// the output to a JSON array but the result is parsed leniently downstream.
func (g *GeminiClient) GenerateQuestionsText(ctx context.Context, role, level, qtype string, techstack []string, amount int) (string, error) {
	prompt := fmt.Sprintf(`Generate exactly %d interview questions for a %s %s position.
Tech stack: %s.
Question type: %s.

IMPORTANT: Return ONLY a valid JSON array of strings. No explanations, no markdown, no extra text.
Example format: ["Question 1?", "Question 2?", "Question 3?"]

Your response must start with [ and end with ]`,
		amount, level, role, strings.Join(techstack, ", "), qtype)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("free-text question generation failed: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("free-text question generation returned no response")
	}
	text, err := result.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract free-text response: %w", err)
	}
	return text, nil
}

// GenerateFeedback grades a transcript in one schema-constrained call. The
// prompt makes overallScore the mean of per-answer scores; it is not
// recomputed here. Errors propagate; feedback has no fallback chain.
func (g *GeminiClient) GenerateFeedback(ctx context.Context, questions []string, role, level, transcript string) (*models.FeedbackDraft, error) {
	prompt := fmt.Sprintf(`You are an expert interview coach. Analyze this interview and provide detailed feedback.
Role: %s
Level: %s
Questions: %s
Interview Transcript: %s

Provide feedback on the candidate's performance for each question. Include a score out of 100 and a feedback for each question. Also provide strengths and improvements for each question.
IMPORTANT: The "overallScore" must be a calculated average of all individual answer scores, also out of 100.`,
		role, level, strings.Join(questions, "\n"), transcript)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   feedbackSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("feedback generation failed: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("feedback generation returned no response")
	}

	text, err := result.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract feedback response: %w", err)
	}

	var draft models.FeedbackDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode feedback response: %w", err)
	}
	if len(draft.Answers) == 0 {
		return nil, fmt.Errorf("feedback response contained no answers")
	}

	g.logger.Info("Feedback generated",
		zap.Int("answers", len(draft.Answers)),
		zap.Float64("overallScore", draft.OverallScore))

	return &draft, nil
}
