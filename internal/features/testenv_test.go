package features

import (
	"errors"

	"go.uber.org/zap"

	"prepwise/internal/repo"
	redisutil "prepwise/internal/utils/redis"
	rabbit "prepwise/pkg/rabbit/pkg"
)

var errUnscripted = errors.New("generator call not scripted")

type testEnv struct {
	service    *Prepwise
	interviews *fakeInterviews
	feedbacks  *fakeFeedbacks
	generator  *stubGenerator
}

func newTestEnv() *testEnv {
	interviews := newFakeInterviews()
	feedbacks := newFakeFeedbacks()
	generator := &stubGenerator{}

	repository := &repo.Repository{
		Interview: interviews,
		Feedback:  feedbacks,
	}

	return &testEnv{
		service:    New(repository, generator, &rabbit.Dummy{}, redisutil.Dummy(), zap.NewNop()),
		interviews: interviews,
		feedbacks:  feedbacks,
		generator:  generator,
	}
}
