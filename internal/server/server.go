package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/sngm3741/interview-assist/api/internal/config"
	"github.com/sngm3741/interview-assist/api/internal/infrastructure/cache"
	mongodoc "github.com/sngm3741/interview-assist/api/internal/infrastructure/mongo"
	adminhttp "github.com/sngm3741/interview-assist/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/interview-assist/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/interview-assist/api/internal/interfaces/http/public"
	"github.com/sngm3741/interview-assist/api/internal/notify"
	publicapp "github.com/sngm3741/interview-assist/api/internal/public/application"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Server は HTTP サーバーのライフサイクルを管理し、閲覧/管理の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *zap.Logger
	client         *mongo.Client
	redis          *redis.Client
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
	requestTimeout time.Duration

	publicHandler *publichttp.Handler
	adminHandler  *adminhttp.Handler
}

// New は Config と各クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
// redisClient は nil 可 (キャッシュ無効)。cfg.Import.Transactional は mongodoc.ResolveTransactional 済みの値を渡す。
func New(cfg *config.Config, logger *zap.Logger, client *mongo.Client, redisClient *redis.Client) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := client.Database(cfg.Mongo.Database)

	catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.TTL, logger.Named("cache"))

	jobRepo := mongodoc.NewJobRepository(db, cfg.Mongo.JobCollection, cfg.Mongo.QuestionCollection, cfg.Import.Transactional)
	questionRepo := mongodoc.NewQuestionRepository(db, cfg.Mongo.QuestionCollection, cfg.Import.Transactional)
	failures := mongodoc.NewFailedNotificationRepository(db, cfg.Mongo.FailedNotificationCollection)

	jobService := adminapp.NewJobService(jobRepo, catalogCache)
	questionService := adminapp.NewQuestionService(jobRepo, questionRepo, catalogCache)
	importService := adminapp.NewImportService(adminapp.ImportConfig{
		Jobs:           jobRepo,
		Questions:      questionRepo,
		Invalidator:    catalogCache,
		Logger:         logger.Named("import"),
		BatchThreshold: cfg.Import.BatchThreshold,
		BatchCeiling:   cfg.Import.BatchCeiling,
	})

	var notifier adminhttp.ImportNotifier
	messenger := notify.New(notify.Config{
		GatewayURL:         cfg.Messenger.Endpoint,
		DiscordDestination: cfg.Messenger.DiscordDestination,
		SlackDestination:   cfg.Messenger.SlackDestination,
		Timeout:            cfg.Messenger.Timeout,
		Failures:           failures,
		Logger:             logger.Named("notify"),
	})
	if messenger.Enabled() {
		notifier = messenger
	}

	catalogService := publicapp.NewCatalogQueryService(
		mongodoc.NewCatalogJobRepository(db, cfg.Mongo.JobCollection),
		mongodoc.NewCatalogQuestionRepository(db, cfg.Mongo.QuestionCollection),
		catalogCache,
	)

	return &Server{
		logger:         logger,
		client:         client,
		redis:          redisClient,
		jwtConfigs:     cfg.JWTConfigs(),
		jwtAudience:    strings.TrimSpace(cfg.Auth.Audience),
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		requestTimeout: cfg.RequestTimeout,
		publicHandler: publichttp.NewHandler(publichttp.Config{
			Logger:  logger.Named("public"),
			Catalog: catalogService,
		}),
		adminHandler: adminhttp.NewHandler(adminhttp.Config{
			Logger:          logger.Named("admin"),
			JobService:      jobService,
			QuestionService: questionService,
			ImportService:   importService,
			Notifier:        notifier,
			MaxUploadBytes:  cfg.Import.MaxUploadBytes,
		}),
	}
}

// Router は閲覧 API と JWT 保護された管理 API をまとめたルータを返す。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Group(func(r chi.Router) {
		if s.requestTimeout > 0 {
			r.Use(middleware.Timeout(s.requestTimeout))
		}
		s.publicHandler.Register(r)
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		s.adminHandler.Register(r)
	})
	return router
}

// Run はHTTPサーバーを起動し、シグナル受信またはサーバー異常終了まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(httpServer, errChan)
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB (と設定されていれば Redis) への疎通を確認する。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		if s.redis != nil {
			if err := cache.Ping(ctx, s.redis); err != nil {
				// キャッシュは任意なので 200 のまま degraded を返す
				commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
					"status": "degraded",
					"cache":  err.Error(),
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Authorization ヘッダーがありません")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Bearer トークンを指定してください")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "アクセストークンが空です")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
		}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithUser(r.Context(), user)))
	})
}

// parseAuthToken は JWT 設定を順番に試し、署名と Issuer/Audience を検証する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !slices.Contains(claims.Audience, s.jwtAudience) {
			continue
		}
		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を行う。
func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		s.logger.Info("シグナルを受信。サーバー停止処理を開始します", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("サーバー停止時にエラー", zap.Error(err))
		}
	}

	s.shutdown(context.Background())
	return runErr
}

// shutdown は外部クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("MongoDB 切断時にエラー", zap.Error(err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Redis 切断時にエラー", zap.Error(err))
		}
	}
}
