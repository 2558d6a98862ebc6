package features

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepwise/internal/models"
	"prepwise/internal/repo"
	rabbit "prepwise/pkg/rabbit/pkg"
)

type memoryCache struct {
	values map[string][]byte
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expireTime time.Duration) (bool, error) {
	c.values[key] = value
	c.sets++
	return true, nil
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.values[key], nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) (bool, error) {
	delete(c.values, key)
	return true, nil
}

func TestGetInterviewAbsentIsNil(t *testing.T) {
	env := newTestEnv()
	interview, err := env.service.GetInterview(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, interview)
}

func TestListUserInterviewsEmptyUser(t *testing.T) {
	env := newTestEnv()
	interviews, err := env.service.ListUserInterviews(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, interviews)
	assert.Empty(t, interviews)
}

func TestListUserInterviewsAttachesOwnFeedback(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	seedInterview(t, env, "i1", "u1")
	seedInterview(t, env, "i2", "u1")
	_, err := env.service.SubmitFeedback(ctx, "i1", "u1", draft(80))
	require.NoError(t, err)

	interviews, err := env.service.ListUserInterviews(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, interviews, 2)

	byID := map[string]*models.Interview{}
	for _, interview := range interviews {
		byID[interview.ID] = interview
	}
	require.NotNil(t, byID["i1"].Feedback)
	assert.Equal(t, 80.0, byID["i1"].Feedback.OverallScore)
	assert.Nil(t, byID["i2"].Feedback)
}

func TestListCompletedInterviewsDropsDangling(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	seedInterview(t, env, "i1", "creator")
	_, err := env.service.SubmitFeedback(ctx, "i1", "u1", draft(70))
	require.NoError(t, err)
	// Feedback whose interview was deleted must not surface.
	require.NoError(t, env.feedbacks.Put(ctx, &models.UserFeedback{
		InterviewID: "gone", UserID: "u1", OverallScore: 50,
	}))

	interviews, err := env.service.ListCompletedInterviews(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, interviews, 1)
	assert.Equal(t, "i1", interviews[0].ID)
	assert.True(t, interviews[0].Completed)
	require.NotNil(t, interviews[0].Feedback)
}

func TestListLatestAnnotatesCompletion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	seedInterview(t, env, "i1", "other")
	seedInterview(t, env, "i2", "other")
	seedInterview(t, env, "mine", "u1")
	_, err := env.service.SubmitFeedback(ctx, "i1", "u1", draft(70))
	require.NoError(t, err)

	interviews, err := env.service.ListLatestInterviews(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, interviews, 2)

	for _, interview := range interviews {
		assert.NotEqual(t, "mine", interview.ID)
		if interview.ID == "i1" {
			assert.True(t, interview.Completed)
		} else {
			assert.False(t, interview.Completed)
		}
	}
}

func TestListTrendingUsesCache(t *testing.T) {
	interviews := newFakeInterviews()
	feedbacks := newFakeFeedbacks()
	cache := newMemoryCache()
	service := New(&repo.Repository{Interview: interviews, Feedback: feedbacks},
		&stubGenerator{}, &rabbit.Dummy{}, cache, zap.NewNop())
	ctx := context.Background()

	_, err := interviews.Create(ctx, &models.Interview{ID: "i1", Finalized: true})
	require.NoError(t, err)

	first, err := service.ListTrendingInterviews(ctx, 5)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache even after the store changes.
	_, err = interviews.Create(ctx, &models.Interview{ID: "i2", Finalized: true})
	require.NoError(t, err)

	second, err := service.ListTrendingInterviews(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, cache.sets)
}

func TestListTrendingOrdersByAttempts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	seedInterview(t, env, "quiet", "creator")
	seedInterview(t, env, "busy", "creator")
	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := env.service.SubmitFeedback(ctx, "busy", user, draft(70))
		require.NoError(t, err)
	}

	interviews, err := env.service.ListTrendingInterviews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, interviews, 2)
	assert.Equal(t, "busy", interviews[0].ID)
}
