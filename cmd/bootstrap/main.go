package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"historical-qa-api/internal/config"
	"historical-qa-api/internal/domain/entity"
	"historical-qa-api/internal/infrastructure/persistence/milvus"
	"historical-qa-api/internal/infrastructure/persistence/postgres"
	"historical-qa-api/internal/infrastructure/persistence/redis"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化 PostgreSQL 并迁移史料表结构
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("failed to init postgres client: %v", err)
	}
	defer pgClient.Close()

	fmt.Println("Migrating database schema...")
	if err := pgClient.DB().WithContext(ctx).AutoMigrate(
		&entity.CharacterProfile{},
		&entity.Episode{},
		&entity.HistoricalEvent{},
		&entity.Relationship{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Database schema migrated.")

	// 3. 语料变更后清掉已缓存的问答结果
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		log.Fatalf("failed to init redis client: %v", err)
	}
	defer redisClient.Close()

	if err := redis.NewCache(redisClient).InvalidateAnalyses(ctx); err != nil {
		log.Fatalf("failed to invalidate cached answers: %v", err)
	}
	fmt.Println("Cached answers invalidated.")

	// 4. 初始化 Milvus 段落集合（仅在配置了语义检索时）
	if !cfg.SemanticEnabled() {
		fmt.Println("Semantic search not configured, skipping vector store setup.")
		fmt.Println("Bootstrap completed successfully.")
		return
	}

	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		log.Fatalf("failed to init milvus client: %v", err)
	}
	defer milvusClient.Close()

	repo := milvus.NewRepository(milvusClient)

	exists, err := milvusClient.HasCollection(ctx, milvusClient.Collection())
	if err != nil {
		log.Fatalf("failed to check collection: %v", err)
	}
	if exists {
		fmt.Printf("Collection %s already exists.\n", milvusClient.Collection())
	} else {
		fmt.Printf("Creating collection %s...\n", milvusClient.Collection())
		if err := repo.CreateCollection(ctx); err != nil {
			log.Fatalf("failed to create collection: %v", err)
		}
		if err := repo.CreateIndex(ctx); err != nil {
			log.Fatalf("failed to create index: %v", err)
		}
	}
	if err := milvusClient.LoadCollection(ctx, milvusClient.Collection()); err != nil {
		log.Fatalf("failed to load collection: %v", err)
	}
	fmt.Println("Vector store ready.")

	fmt.Println("Bootstrap completed successfully.")
}
