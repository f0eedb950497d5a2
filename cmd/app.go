package cmd

import (
	"context"
	"fmt"
	"time"

	"loneton_server/config"
	"loneton_server/routes"
	"loneton_server/services"
	"loneton_server/store"

	"go.uber.org/zap"
)

// app holds the wired services shared by every command.
type app struct {
	cfg    config.AppConfig
	logger *zap.Logger

	repo       store.Repository
	bots       *services.BotResponder
	matches    *services.MatchService
	users      *services.UserProfileService
	s3         *services.S3Service
	reconciler *services.ReconcileService

	closers []func() error
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newApp(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	kv, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.repo = store.New(kv)

	now := time.Now
	chat := services.NewChatService(a.repo, now, logger)
	a.bots = services.NewBotResponder(cfg.BotReplyMin, cfg.BotReplyMax, logger)
	a.matches = services.NewMatchService(a.repo, chat, a.bots, now, logger, services.MatchOptions{
		MatchLatency: cfg.MatchLatency,
		BotFallback:  cfg.BotFallback,
	})
	a.users = services.NewUserProfileService(a.repo, now, logger, a.matches.Locker())
	a.reconciler = services.NewReconcileService(a.repo, a.matches, cfg.ReconcileInterval, logger)

	if cfg.S3Bucket != "" {
		client, err := services.InitializeS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		a.s3 = services.NewS3Service(client, cfg.S3Bucket, now)
	} else {
		logger.Warn("S3_BUCKET_NAME not set, avatar upload routes disabled")
	}

	return a, nil
}

func (a *app) openStore(ctx context.Context) (store.KeyValueStore, error) {
	switch a.cfg.StoreBackend {
	case config.BackendMemory:
		a.logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryKV(), nil

	case config.BackendDynamoDB:
		client, err := store.InitializeDynamoDBClient(ctx, a.cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		a.logger.Info("DynamoDB client initialized", zap.String("table", a.cfg.DynamoTable))
		return store.NewDynamoKV(client, a.cfg.DynamoTable, a.logger), nil

	case config.BackendRedis:
		kv := store.NewRedisKV(a.cfg.RedisAddrs, a.cfg.RedisPassword, a.cfg.RedisCluster, "loneton")
		if err := kv.Ping(ctx); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		a.closers = append(a.closers, kv.Close)
		a.logger.Info("Redis client initialized", zap.Strings("addrs", a.cfg.RedisAddrs))
		return kv, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", a.cfg.StoreBackend)
}

func (a *app) httpServices() routes.Services {
	return routes.Services{Users: a.users, Matches: a.matches, S3: a.s3}
}

// close stops pending bot replies and releases store connections.
func (a *app) close() {
	a.bots.Stop()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("error closing resource", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
