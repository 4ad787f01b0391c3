package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api"
	"github.com/leon37/Hamhama/internal/api/controller"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/auth"
	"github.com/leon37/Hamhama/internal/config"
	"github.com/leon37/Hamhama/internal/infrastructure/cache"
	"github.com/leon37/Hamhama/internal/infrastructure/database"
	"github.com/leon37/Hamhama/internal/infrastructure/embedding"
	"github.com/leon37/Hamhama/internal/infrastructure/events"
	"github.com/leon37/Hamhama/internal/infrastructure/llm"
	"github.com/leon37/Hamhama/internal/infrastructure/storage"
	"github.com/leon37/Hamhama/internal/infrastructure/vectordb"
	"github.com/leon37/Hamhama/internal/repository"
	"github.com/leon37/Hamhama/internal/service"
)

// @title           Hamhama API
// @version         1.0
// @description     基于 Go + Gin + Qdrant 的菜谱社交后端
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 请在输入框中输入 "Bearer <token>" (注意 Bearer 和 token 之间有空格)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	conf, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	// 1. 初始化 Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     conf.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("Hamhama 系统启动中...")
	gin.SetMode(conf.Server.Mode)

	// 2. Infra Initialization
	db, err := database.NewConnection(conf.Database, conf.Server.Mode == gin.DebugMode)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	substituteCache := newCache(ctx, conf.Redis)
	store, err := newStore(ctx, conf.Storage)
	if err != nil {
		log.Fatalf("Failed to init picture storage: %v", err)
	}
	publisher, closePublisher := newPublisher(conf.NATS)
	defer closePublisher()
	embedder, index, closeIndex := newRecipeIndex(ctx, conf)
	defer closeIndex()
	llmClient := llm.NewOpenAIClient(conf.LLM.APIKey, conf.LLM.BaseURL, conf.LLM.Model)

	// 3. Layer Wiring (依赖注入)
	userRepo := repository.NewUserRepo(db)
	socialRepo := repository.NewSocialRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	tokens := auth.NewTokenService(conf.JWT.Secret, conf.JWT.TTL)

	authSvc := service.NewAuthService(userRepo, tokens)
	socialSvc := service.NewSocialService(userRepo, socialRepo, publisher)
	userSvc := service.NewUserService(userRepo, socialRepo, recipeRepo, socialSvc, store, index)
	recipeSvc := service.NewRecipeService(recipeRepo, embedder, index)
	commentSvc := service.NewCommentService(repository.NewCommentRepo(db), recipeRepo)
	ratingSvc := service.NewRatingService(repository.NewRatingRepo(db), recipeRepo)
	substituteSvc := service.NewSubstituteService(llmClient, substituteCache)

	if conf.Admin.Username != "" {
		if err := authSvc.EnsureAdmin(ctx, conf.Admin.Username, conf.Admin.Email, conf.Admin.Password); err != nil {
			log.Fatalf("Failed to bootstrap admin: %v", err)
		}
	}

	// 4. Server Start
	r := gin.Default()
	api.RegisterRoutes(r, api.Controllers{
		Auth:       controller.NewAuthController(authSvc),
		User:       controller.NewUserController(userSvc, socialSvc),
		Admin:      controller.NewAdminController(userSvc),
		Recipe:     controller.NewRecipeController(recipeSvc),
		Comment:    controller.NewCommentController(commentSvc),
		Rating:     controller.NewRatingController(ratingSvc),
		Substitute: controller.NewSubstituteController(substituteSvc),
	}, api.Options{
		CorsOrigins: conf.Server.CorsOrigins,
		Resolver:    authSvc,
		AuthLimiter: middleware.NewIPRateLimiter(conf.RateLimit.RPS, conf.RateLimit.Burst),
	})

	srv := &http.Server{Addr: conf.Server.Port, Handler: r}
	go func() {
		slog.Info("Hamhama Web Server 启动中", "port", conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("服务器启动失败", "error", err)
			os.Exit(1)
		}
	}()

	// 5. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

// newCache 配置了 Redis 就用 Redis，连不上时退回进程内缓存
func newCache(ctx context.Context, conf config.RedisConfig) cache.Cache {
	if conf.Addr == "" {
		return cache.NewMemoryCache(conf.TTL)
	}
	client, err := cache.NewRedisClient(ctx, conf.Addr, conf.Password, conf.DB)
	if err != nil {
		slog.Warn("redis unavailable, falling back to in-process cache", "addr", conf.Addr, "error", err)
		return cache.NewMemoryCache(conf.TTL)
	}
	return cache.NewRedisCache(client, "hamhama:", conf.TTL)
}

func newStore(ctx context.Context, conf config.StorageConfig) (storage.Store, error) {
	if conf.Driver == "s3" {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    conf.S3Bucket,
			Region:    conf.S3Region,
			Endpoint:  conf.S3Endpoint,
			AccessKey: conf.S3AccessKey,
			SecretKey: conf.S3SecretKey,
		})
	}
	return storage.NewLocalStore(conf.LocalDir)
}

// newPublisher NATS 不可用时不发布事件，不影响主流程
func newPublisher(conf config.NATSConfig) (events.Publisher, func()) {
	if conf.URL == "" {
		return events.NopPublisher{}, func() {}
	}
	conn, err := events.ConnectNATS(conf.URL)
	if err != nil {
		slog.Warn("nats unavailable, social events disabled", "url", conf.URL, "error", err)
		return events.NopPublisher{}, func() {}
	}
	return events.NewNATSPublisher(conn, conf.SubjectPrefix), func() { conn.Drain() }
}

// newRecipeIndex 未配置 Qdrant 时语义搜索不可用，其余功能照常
func newRecipeIndex(ctx context.Context, conf *config.Config) (embedding.Provider, repository.RecipeIndex, func()) {
	if conf.Qdrant.Host == "" {
		slog.Info("qdrant not configured, semantic search disabled")
		return nil, nil, func() {}
	}
	vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port, conf.Qdrant.CollectionName, conf.Embedding.Dimension)
	if err != nil {
		slog.Warn("qdrant unavailable, semantic search disabled", "error", err)
		return nil, nil, func() {}
	}
	if err := vecClient.InitCollection(ctx); err != nil {
		slog.Warn("qdrant collection init failed, semantic search disabled", "error", err)
		vecClient.Close()
		return nil, nil, func() {}
	}
	embedder := embedding.NewOpenAIClient(conf.Embedding.APIKey, conf.Embedding.BaseURL, conf.Embedding.Model)
	return embedder, vectordb.NewQdrantRepository(vecClient), vecClient.Close
}
