package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/sngm3741/interview-assist/api/internal/config"
	mongodoc "github.com/sngm3741/interview-assist/api/internal/infrastructure/mongo"
	"github.com/sngm3741/interview-assist/api/internal/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type seedOptions struct {
	envName         string
	dropCollections bool
	withSamples     bool
}

// sampleRows は初期表示用の質問。既定の職務に各カテゴリ数件ずつ入れる。
var sampleRows = []adminapp.ImportRow{
	{Job: adminapp.DefaultJobName, Category: "a", Question: "REST と gRPC の違いを説明してください。"},
	{Job: adminapp.DefaultJobName, Category: "a", Question: "データベースのインデックスが遅くなるのはどんな場合ですか？"},
	{Job: adminapp.DefaultJobName, Category: "a", Question: "Explain how you would make an HTTP handler idempotent."},
	{Job: adminapp.DefaultJobName, Category: "b", Question: "チームで意見が対立したときの経験を教えてください。"},
	{Job: adminapp.DefaultJobName, Category: "b", Question: "Tell me about a production incident you owned."},
	{Job: adminapp.DefaultJobName, Category: "c", Question: "リリース直前に重大なバグが見つかったらどうしますか？"},
	{Job: adminapp.DefaultJobName, Category: "c", Question: "How would you handle a teammate missing deadlines repeatedly?"},
	{Job: adminapp.DefaultJobName, Category: "d", Question: "日本にある信号機の数を見積もってください。"},
	{Job: adminapp.DefaultJobName, Category: "d", Question: "How many golf balls fit in a school bus?", Active: "0"},
}

func main() {
	opts := parseFlags()
	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("Seed に失敗しました: %v", err)
	}
}

// run は Seed を実行する。defer した切断処理が走るよう、エラーは呼び出し元へ返す。
func run(ctx context.Context, opts seedOptions) error {
	if err := loadEnvFiles(opts.envName); err != nil {
		return fmt.Errorf("環境変数の読み込みに失敗しました: %w", err)
	}

	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	zl, err := logger.NewLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("ロガーの初期化に失敗しました: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.Mongo.Database)
	transactional := mongodoc.ResolveTransactional(ctx, client, cfg.Import.Transactional, zl)
	cols := mongodoc.Collections{
		Jobs:                cfg.Mongo.JobCollection,
		Questions:           cfg.Mongo.QuestionCollection,
		FailedNotifications: cfg.Mongo.FailedNotificationCollection,
	}

	if opts.dropCollections {
		if err := mongodoc.DropCollections(ctx, db, cols); err != nil {
			return fmt.Errorf("コレクション削除に失敗しました: %w", err)
		}
		zl.Info("既存コレクションを削除しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cols); err != nil {
		return fmt.Errorf("インデックス作成に失敗しました: %w", err)
	}

	jobRepo := mongodoc.NewJobRepository(db, cols.Jobs, cols.Questions, transactional)
	if err := adminapp.NewJobService(jobRepo, nil).EnsureDefault(ctx); err != nil {
		return fmt.Errorf("既定の職務の作成に失敗しました: %w", err)
	}

	var result adminapp.ImportResult
	if opts.withSamples {
		importer := adminapp.NewImportService(adminapp.ImportConfig{
			Jobs:           jobRepo,
			Questions:      mongodoc.NewQuestionRepository(db, cols.Questions, transactional),
			Logger:         zl,
			BatchThreshold: cfg.Import.BatchThreshold,
			BatchCeiling:   cfg.Import.BatchCeiling,
		})
		result, err = importer.Import(ctx, adminapp.NewSliceSource(sampleRows), adminapp.ImportOptions{})
		if err != nil {
			return fmt.Errorf("サンプル質問の投入に失敗しました: %w", err)
		}
	}

	zl.Info("Seed 完了",
		zap.String("database", cfg.Mongo.Database),
		zap.String("env", opts.envName),
		zap.Int("inserted", result.Inserted),
		zap.Int("deactivated", result.Deactivated),
	)
	return nil
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.BoolVar(&opts.dropCollections, "drop", false, "既存コレクションを削除してから投入する")
	flag.BoolVar(&opts.withSamples, "samples", true, "既定の職務にサンプル質問を投入する")
	flag.Parse()
	return opts
}

// loadEnvFiles は ../env/shared.env と ../env/<name>.env を読み込む。存在しないファイルは無視する。
func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	for _, file := range []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	} {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s の読み込みに失敗しました: %w", file, err)
		}
	}
	return nil
}
