package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"loneton_server/models"
	"loneton_server/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBoom = errors.New("storage unavailable")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// flakyRepo fails selected writes a fixed number of times.
type flakyRepo struct {
	store.Repository

	mu               sync.Mutex
	failSaveUser     map[string]int
	failSaveFeedback int
}

func (f *flakyRepo) SaveUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	if f.failSaveUser[user.ID] > 0 {
		f.failSaveUser[user.ID]--
		f.mu.Unlock()
		return errBoom
	}
	f.mu.Unlock()
	return f.Repository.SaveUser(ctx, user)
}

func (f *flakyRepo) SaveFeedback(ctx context.Context, userID string, feedback []models.Feedback) error {
	f.mu.Lock()
	if f.failSaveFeedback > 0 {
		f.failSaveFeedback--
		f.mu.Unlock()
		return errBoom
	}
	f.mu.Unlock()
	return f.Repository.SaveFeedback(ctx, userID, feedback)
}

func (f *flakyRepo) failUser(userID string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSaveUser[userID] = times
}

type testEnv struct {
	repo     *flakyRepo
	clock    *testClock
	chat     *ChatService
	bots     *BotResponder
	matches  *MatchService
	profiles *UserProfileService
}

func newTestEnv(t *testing.T, opts MatchOptions) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	clock := newTestClock()
	repo := &flakyRepo{Repository: store.New(store.NewMemoryKV()), failSaveUser: map[string]int{}}
	chat := NewChatService(repo, clock.Now, logger)
	bots := NewBotResponder(time.Millisecond, 3*time.Millisecond, logger)
	matches := NewMatchService(repo, chat, bots, clock.Now, logger, opts)
	profiles := NewUserProfileService(repo, clock.Now, logger, matches.Locker())
	t.Cleanup(bots.Stop)

	return &testEnv{repo: repo, clock: clock, chat: chat, bots: bots, matches: matches, profiles: profiles}
}

// seedUser stores a user who has completed the questionnaire.
func (e *testEnv) seedUser(t *testing.T, id string, answers ...int) *models.User {
	t.Helper()
	user := &models.User{
		ID:                        id,
		Name:                      "user " + id,
		Email:                     id + "@example.com",
		CreatedAt:                 e.clock.Now(),
		HasCompletedQuestionnaire: true,
		CompatibilityAnswers:      answers,
	}
	require.NoError(t, e.repo.SaveUser(context.Background(), user))
	return user
}

func (e *testEnv) user(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := e.repo.GetUser(context.Background(), id)
	require.NoError(t, err)
	return user
}

func (e *testEnv) match(t *testing.T, id string) *models.Match {
	t.Helper()
	match, err := e.repo.GetMatch(context.Background(), id)
	require.NoError(t, err)
	return match
}

func answers(values ...int) []int { return values }

// tenOf returns a 10-answer vector filled with v.
func tenOf(v int) []int {
	out := make([]int, models.QuestionnaireLength)
	for i := range out {
		out[i] = v
	}
	return out
}

// withDiff returns base with the first d answers moved one step, which
// scores round(100 * (1 - d/40)) against base.
func withDiff(base []int, d int) []int {
	out := append([]int(nil), base...)
	for i := 0; i < d; i++ {
		if out[i] < models.MaxAnswer {
			out[i]++
		} else {
			out[i]--
		}
	}
	return out
}
