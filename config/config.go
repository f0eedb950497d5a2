package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

type AppConfig struct {
	Port   string
	AppEnv string

	StoreBackend  string
	DynamoTable   string
	AWSRegion     string
	RedisAddrs    []string
	RedisPassword string
	RedisCluster  bool
	S3Bucket      string

	MatchLatency      time.Duration
	ReconcileInterval time.Duration
	BotFallback       bool
	BotReplyMin       time.Duration
	BotReplyMax       time.Duration
}

// IsDevelopment reports whether APP_ENV selects development logging.
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file and then the environment.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("Loneton: No .env file found, relying on system env vars")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables alone.
func FromEnv() AppConfig {
	cfg := AppConfig{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "production"),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		DynamoTable:   getEnv("DYNAMO_TABLE", "loneton"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		RedisAddrs:    strings.Split(getEnv("REDIS_ADDR", "localhost:6379"), ","),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisCluster:  getBool("REDIS_CLUSTER", false),
		S3Bucket:      getEnv("S3_BUCKET_NAME", ""),

		MatchLatency:      getDuration("MATCH_LATENCY", 1500*time.Millisecond),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", time.Minute),
		BotFallback:       getBool("BOT_FALLBACK", false),
		BotReplyMin:       getDuration("BOT_REPLY_MIN", time.Second),
		BotReplyMax:       getDuration("BOT_REPLY_MAX", 3*time.Second),
	}
	if cfg.BotReplyMax < cfg.BotReplyMin {
		cfg.BotReplyMax = cfg.BotReplyMin
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}
