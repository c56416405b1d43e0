// Command import はスプレッドシートを API を介さずに直接取り込む。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/sngm3741/interview-assist/api/internal/config"
	"github.com/sngm3741/interview-assist/api/internal/infrastructure/cache"
	mongodoc "github.com/sngm3741/interview-assist/api/internal/infrastructure/mongo"
	"github.com/sngm3741/interview-assist/api/internal/infrastructure/spreadsheet"
	"github.com/sngm3741/interview-assist/api/internal/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: import -file questions.xlsx [-update]")

func main() {
	file := flag.String("file", "", "取り込む .xlsx ファイルのパス")
	update := flag.Bool("update", false, "既存の質問の有効/無効を上書きする")
	flag.Parse()

	if err := run(context.Background(), *file, *update, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Printf("インポートに失敗しました: %v", err)
		os.Exit(1)
	}
}

// run は取り込みを 1 回実行する。defer した後始末が必ず走るよう、終了は main に任せる。
func run(ctx context.Context, file string, update bool, out io.Writer) error {
	if file == "" {
		return errUsage
	}

	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.NewLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	source, err := spreadsheet.OpenXLSX(f)
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	defer source.Close()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zl.Warn("MongoDB 切断時にエラー", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Mongo.Database)
	transactional := mongodoc.ResolveTransactional(connectCtx, client, cfg.Import.Transactional, zl)

	// 稼働中 API のキャッシュを無効化するため Redis があれば世代を進める
	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient = cache.NewClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		defer redisClient.Close()
	}

	importer := adminapp.NewImportService(adminapp.ImportConfig{
		Jobs:           mongodoc.NewJobRepository(db, cfg.Mongo.JobCollection, cfg.Mongo.QuestionCollection, transactional),
		Questions:      mongodoc.NewQuestionRepository(db, cfg.Mongo.QuestionCollection, transactional),
		Invalidator:    cache.NewCatalogCache(redisClient, cfg.Cache.TTL, zl),
		Logger:         zl,
		BatchThreshold: cfg.Import.BatchThreshold,
		BatchCeiling:   cfg.Import.BatchCeiling,
	})

	result, err := importer.Import(ctx, source, adminapp.ImportOptions{UpdateExisting: update})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "inserted=%d updated=%d deactivated=%d\n", result.Inserted, result.Updated, result.Deactivated)
	return err
}
