package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "STORE_BACKEND", "REDIS_ADDR", "REDIS_CLUSTER", "S3_BUCKET_NAME",
		"MATCH_LATENCY", "RECONCILE_INTERVAL", "BOT_FALLBACK", "BOT_REPLY_MIN", "BOT_REPLY_MAX",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"localhost:6379"}, cfg.RedisAddrs)
	assert.False(t, cfg.RedisCluster)
	assert.Empty(t, cfg.S3Bucket)
	assert.Equal(t, 1500*time.Millisecond, cfg.MatchLatency)
	assert.Equal(t, time.Minute, cfg.ReconcileInterval)
	assert.False(t, cfg.BotFallback)
	assert.Equal(t, time.Second, cfg.BotReplyMin)
	assert.Equal(t, 3*time.Second, cfg.BotReplyMax)
	assert.False(t, cfg.IsDevelopment())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "r1:6379,r2:6379")
	t.Setenv("REDIS_CLUSTER", "true")
	t.Setenv("MATCH_LATENCY", "0s")
	t.Setenv("RECONCILE_INTERVAL", "5m")
	t.Setenv("BOT_FALLBACK", "true")
	t.Setenv("BOT_REPLY_MIN", "3s")
	t.Setenv("BOT_REPLY_MAX", "1s")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.RedisAddrs)
	assert.True(t, cfg.RedisCluster)
	assert.Zero(t, cfg.MatchLatency)
	assert.Equal(t, 5*time.Minute, cfg.ReconcileInterval)
	assert.True(t, cfg.BotFallback)
	assert.Equal(t, 3*time.Second, cfg.BotReplyMin)
	assert.Equal(t, 3*time.Second, cfg.BotReplyMax, "max is raised to min")
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MATCH_LATENCY", "soon")
	t.Setenv("RECONCILE_INTERVAL", "-1m")
	t.Setenv("BOT_FALLBACK", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 1500*time.Millisecond, cfg.MatchLatency)
	assert.Equal(t, time.Minute, cfg.ReconcileInterval)
	assert.False(t, cfg.BotFallback)
}
