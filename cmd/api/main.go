package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sngm3741/interview-assist/api/internal/config"
	"github.com/sngm3741/interview-assist/api/internal/infrastructure/cache"
	mongodoc "github.com/sngm3741/interview-assist/api/internal/infrastructure/mongo"
	"github.com/sngm3741/interview-assist/api/internal/logger"
	"github.com/sngm3741/interview-assist/api/internal/server"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl.Info("config loaded", zap.Stringer("config", cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.Mongo.URI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		zl.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
	}

	cfg.Import.Transactional = mongodoc.ResolveTransactional(ctx, client, cfg.Import.Transactional, zl)

	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient = cache.NewClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err := cache.Ping(ctx, redisClient); err != nil {
			// キャッシュなしでも動作するので起動は続ける
			zl.Warn("Redis に接続できません。キャッシュは都度ミスになります", zap.Error(err))
		}
	}

	app := server.New(cfg, zl, client, redisClient)
	if err := app.Run(); err != nil {
		zl.Fatal("サーバーが異常終了しました", zap.Error(err))
	}
}
