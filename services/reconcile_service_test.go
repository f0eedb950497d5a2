package services

import (
	"context"
	"testing"
	"time"

	"loneton_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconcileService_RunOnceExpiresAndClears(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	ctx := context.Background()

	match := matchedPair(t, env)

	reflecting := env.seedUser(t, "c", tenOf(1)...)
	endsAt := env.clock.Now().Add(time.Hour)
	reflecting.IsInReflectionPeriod = true
	reflecting.ReflectionEndsAt = &endsAt
	require.NoError(t, env.repo.SaveUser(ctx, reflecting))

	reconciler := NewReconcileService(env.repo, env.matches, time.Minute, zap.NewNop())

	n, err := reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, models.MatchStatusActive, env.match(t, match.ID).Status)
	assert.True(t, env.user(t, "c").IsInReflectionPeriod)

	env.clock.Advance(48 * time.Hour)

	n, err = reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, models.MatchStatusExpired, env.match(t, match.ID).Status)
	assert.Empty(t, env.user(t, "a").CurrentMatch)
	assert.Empty(t, env.user(t, "b").CurrentMatch)
	c := env.user(t, "c")
	assert.False(t, c.IsInReflectionPeriod)
	assert.Nil(t, c.ReflectionEndsAt)

	before := []models.User{*env.user(t, "a"), *env.user(t, "b"), *env.user(t, "c")}
	_, err = reconciler.RunOnce(ctx)
	require.NoError(t, err)
	after := []models.User{*env.user(t, "a"), *env.user(t, "b"), *env.user(t, "c")}
	assert.Equal(t, before, after, "a second pass changes nothing")
}

func TestReconcileService_ContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	ctx := context.Background()

	stale := env.seedUser(t, "x", tenOf(2)...)
	stale.CurrentMatch = "m-gone"
	require.NoError(t, env.repo.SaveUser(ctx, stale))

	reflecting := env.seedUser(t, "y", tenOf(2)...)
	endsAt := env.clock.Now().Add(-time.Minute)
	reflecting.IsInReflectionPeriod = true
	reflecting.ReflectionEndsAt = &endsAt
	require.NoError(t, env.repo.SaveUser(ctx, reflecting))

	env.repo.failUser("x", 1)
	reconciler := NewReconcileService(env.repo, env.matches, time.Minute, zap.NewNop())

	n, err := reconciler.RunOnce(ctx)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, n)
	assert.False(t, env.user(t, "y").IsInReflectionPeriod)
	assert.Equal(t, "m-gone", env.user(t, "x").CurrentMatch)

	n, err = reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, env.user(t, "x").CurrentMatch)
}

func TestReconcileService_RunStopsOnCancel(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	env.seedUser(t, "a", tenOf(3)...)

	reconciler := NewReconcileService(env.repo, env.matches, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reconciler.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop after cancel")
	}
}
