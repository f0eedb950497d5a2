package cmd

import (
	"context"
	"testing"
	"time"

	"loneton_server/config"
	"loneton_server/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(backend string) config.AppConfig {
	return config.AppConfig{
		StoreBackend:      backend,
		ReconcileInterval: time.Minute,
		BotReplyMin:       time.Millisecond,
		BotReplyMax:       time.Millisecond,
	}
}

func TestNewApp_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	a, err := newApp(ctx, testConfig(config.BackendMemory), zap.NewNop())
	require.NoError(t, err)
	defer a.close()

	assert.Nil(t, a.s3)
	assert.Nil(t, a.httpServices().S3)
	assert.NotNil(t, a.httpServices().Matches)

	user, err := a.users.Register(ctx, models.User{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	n, err := a.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	status, err := a.matches.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, status.CanGetNewMatch)
}

func TestNewApp_RedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(config.BackendRedis)
	cfg.RedisAddrs = []string{mr.Addr()}

	a, err := newApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	user, err := a.users.Register(ctx, models.User{Name: "Ben", Email: "ben@example.com"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("loneton:user:"+user.ID))

	a.close()
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(config.BackendRedis)
	cfg.RedisAddrs = []string{addr}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := newApp(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "failed to reach redis")
}

func TestNewApp_UnknownBackend(t *testing.T) {
	_, err := newApp(context.Background(), testConfig("cassandra"), zap.NewNop())
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["reconcile"])
	assert.NotNil(t, reconcileCmd.Flags().Lookup("once"))
}
