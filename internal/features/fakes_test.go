package features

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prepwise/internal/models"
	"prepwise/internal/repo"
)

// In-memory repositories mirroring the Mongo implementations' contracts,
// including the create-if-absent call-id guard and the stats fold.

type fakeInterviews struct {
	mu     sync.Mutex
	docs   map[string]*models.Interview
	byCall map[string]string
}

func newFakeInterviews() *fakeInterviews {
	return &fakeInterviews{
		docs:   map[string]*models.Interview{},
		byCall: map[string]string{},
	}
}

func (f *fakeInterviews) Get(ctx context.Context, id string) (*models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copy := *doc
	return &copy, nil
}

func (f *fakeInterviews) Create(ctx context.Context, interview *models.Interview) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	copy := *interview
	f.docs[interview.ID] = &copy
	return interview.ID, nil
}

func (f *fakeInterviews) CreateFromCall(ctx context.Context, interview *models.Interview) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if interview.CallID == "" {
		return "", fmt.Errorf("interview has no call id")
	}
	if _, ok := f.byCall[interview.CallID]; ok {
		return "", repo.ErrDuplicateCallID
	}
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	copy := *interview
	f.docs[interview.ID] = &copy
	f.byCall[interview.CallID] = interview.ID
	return interview.ID, nil
}

func (f *fakeInterviews) ExistsByCallID(ctx context.Context, callID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byCall[callID]
	return ok, nil
}

func (f *fakeInterviews) ListByUser(ctx context.Context, userID string) ([]*models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Interview{}
	for _, doc := range f.docs {
		if doc.UserID == userID {
			copy := *doc
			out = append(out, &copy)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeInterviews) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]*models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Interview{}
	for _, doc := range f.docs {
		if doc.Finalized && (excludeUserID == "" || doc.UserID != excludeUserID) {
			copy := *doc
			out = append(out, &copy)
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeInterviews) ListTrending(ctx context.Context, limit int) ([]*models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Interview{}
	for _, doc := range f.docs {
		if doc.Finalized {
			copy := *doc
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stats.TotalAttempts > out[j].Stats.TotalAttempts
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeInterviews) Complete(ctx context.Context, id, transcript string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return repo.ErrNotFound
	}
	doc.Transcript = transcript
	doc.Status = models.StatusCompleted
	doc.CompletedAt = at.UTC().Format(time.RFC3339)
	return nil
}

func (f *fakeInterviews) UpdateStats(ctx context.Context, id string, score float64, at time.Time) (models.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return models.Stats{}, repo.ErrInterviewMissing
	}
	stats := doc.Stats
	if stats.TotalAttempts == 0 && stats.LowestScore == 0 {
		stats = models.NewStats()
	}
	doc.Stats = stats.Fold(score, at)
	return doc.Stats, nil
}

func sortNewestFirst(interviews []*models.Interview) {
	sort.Slice(interviews, func(i, j int) bool {
		return interviews[i].CreatedAt > interviews[j].CreatedAt
	})
}

type fakeFeedbacks struct {
	mu   sync.Mutex
	docs map[string]*models.UserFeedback
}

func newFakeFeedbacks() *fakeFeedbacks {
	return &fakeFeedbacks{docs: map[string]*models.UserFeedback{}}
}

func (f *fakeFeedbacks) Get(ctx context.Context, interviewID, userID string) (*models.UserFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[models.FeedbackID(interviewID, userID)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copy := *doc
	return &copy, nil
}

func (f *fakeFeedbacks) Exists(ctx context.Context, interviewID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.docs[models.FeedbackID(interviewID, userID)]
	return ok, nil
}

func (f *fakeFeedbacks) Put(ctx context.Context, feedback *models.UserFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *feedback
	copy.ID = models.FeedbackID(feedback.InterviewID, feedback.UserID)
	f.docs[copy.ID] = &copy
	return nil
}

func (f *fakeFeedbacks) ListByUser(ctx context.Context, userID string) ([]*models.UserFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.UserFeedback{}
	for _, doc := range f.docs {
		if doc.UserID == userID {
			copy := *doc
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// stubGenerator scripts the generative-model boundary per test.
type stubGenerator struct {
	questionsFn     func(ctx context.Context, role, level, qtype string, techstack []string, amount int) ([]string, error)
	questionsTextFn func(ctx context.Context, role, level, qtype string, techstack []string, amount int) (string, error)
	feedbackFn      func(ctx context.Context, questions []string, role, level, transcript string) (*models.FeedbackDraft, error)
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, role, level, qtype string, techstack []string, amount int) ([]string, error) {
	if g.questionsFn == nil {
		return nil, errUnscripted
	}
	return g.questionsFn(ctx, role, level, qtype, techstack, amount)
}

func (g *stubGenerator) GenerateQuestionsText(ctx context.Context, role, level, qtype string, techstack []string, amount int) (string, error) {
	if g.questionsTextFn == nil {
		return "", errUnscripted
	}
	return g.questionsTextFn(ctx, role, level, qtype, techstack, amount)
}

func (g *stubGenerator) GenerateFeedback(ctx context.Context, questions []string, role, level, transcript string) (*models.FeedbackDraft, error) {
	if g.feedbackFn == nil {
		return nil, errUnscripted
	}
	return g.feedbackFn(ctx, questions, role, level, transcript)
}
