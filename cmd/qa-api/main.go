// Package main 历史问答 API 服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"historical-qa-api/internal/application/analysis"
	"historical-qa-api/internal/config"
	"historical-qa-api/internal/infrastructure/embedding"
	"historical-qa-api/internal/infrastructure/llm"
	"historical-qa-api/internal/infrastructure/persistence/milvus"
	"historical-qa-api/internal/infrastructure/persistence/postgres"
	redisdb "historical-qa-api/internal/infrastructure/persistence/redis"
	"historical-qa-api/internal/interfaces/http/handler"
	"historical-qa-api/internal/interfaces/http/router"
	"historical-qa-api/pkg/logger"
	"historical-qa-api/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting qa-api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
		"semantic_enabled", cfg.SemanticEnabled(),
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 初始化 PostgreSQL
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to init postgres client", err)
	}
	defer pgClient.Close()

	// 初始化 Redis
	redisClient, err := redisdb.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to init redis client", err)
	}
	defer redisClient.Close()

	cache := redisdb.NewCache(redisClient)
	answerCache := redisdb.NewAnswerCache(cache, cfg.Cache.AnswerTTL)
	limiter := redisdb.NewRateLimiter(redisClient)

	// 初始化语义检索通道（embedding 未配置时退化为手工检索）
	var milvusClient *milvus.Client
	var semanticStore *milvus.SemanticStore
	if cfg.SemanticEnabled() {
		milvusClient, err = milvus.NewClient(ctx, &cfg.Vector.Milvus)
		if err != nil {
			logger.Fatal(ctx, "failed to init milvus client", err)
		}
		defer milvusClient.Close()

		embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
		if err != nil {
			logger.Fatal(ctx, "failed to init embedder", err)
		}

		semanticStore = milvus.NewSemanticStore(embedder, milvus.NewRepository(milvusClient))
	} else {
		semanticStore = milvus.NewSemanticStore(nil, nil)
		log.Warn("semantic search disabled", "reason", semanticStore.DisabledReason())
	}

	// 组装分析管线
	graphStore := postgres.NewGraphStore(pgClient)
	coordinator := analysis.NewCoordinator(graphStore, semanticStore, cfg.Retrieval)
	compressor := analysis.NewCompressor(cfg.Compression)

	factory := llm.NewEinoFactory(cfg)
	generator := llm.NewGenerator(factory, cfg.LLM.DefaultProvider)

	service := analysis.NewService(coordinator, compressor, generator, answerCache)

	// 组装路由
	r := router.New(cfg, router.Handlers{
		Health:       handler.NewHealthHandler(pgClient, redisClient, milvusClient),
		Analyze:      handler.NewAnalyzeHandler(service),
		Capabilities: handler.NewCapabilitiesHandler(semanticStore),
	}, limiter)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
