// Package main 语料导入工具
// 从 JSON 语料文件导入人物档案、叙事片段、历史事件与人物关系，
// 配置了语义检索时同时向量化段落并写入 Milvus
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"historical-qa-api/internal/config"
	"historical-qa-api/internal/domain/entity"
	"historical-qa-api/internal/infrastructure/embedding"
	"historical-qa-api/internal/infrastructure/persistence/milvus"
	"historical-qa-api/internal/infrastructure/persistence/postgres"
)

// corpus 语料文件结构
type corpus struct {
	Profiles      []*entity.CharacterProfile `json:"profiles"`
	Episodes      []*entity.Episode          `json:"episodes"`
	Events        []*entity.HistoricalEvent  `json:"events"`
	Relationships []*entity.Relationship     `json:"relationships"`
	Passages      []corpusPassage            `json:"passages"`
}

// corpusPassage 待向量化的段落
type corpusPassage struct {
	TextContent  string `json:"text_content"`
	SourceBook   string `json:"source_book"`
	ChapterTitle string `json:"chapter_title"`
	PassageType  string `json:"passage_type"`
}

func main() {
	_ = godotenv.Load()

	corpusPath := flag.String("corpus", "corpus.json", "path to the corpus JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	data, err := os.ReadFile(*corpusPath)
	if err != nil {
		log.Fatalf("failed to read corpus file: %v", err)
	}
	var c corpus
	if err := json.Unmarshal(data, &c); err != nil {
		log.Fatalf("failed to parse corpus file: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("failed to init postgres client: %v", err)
	}
	defer pgClient.Close()

	profiles := postgres.NewProfileRepository(pgClient)
	episodes := postgres.NewEpisodeRepository(pgClient)
	events := postgres.NewEventRepository(pgClient)
	relationships := postgres.NewRelationshipRepository(pgClient)

	for _, p := range c.Profiles {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if err := profiles.Create(ctx, p); err != nil {
			log.Fatalf("failed to create profile %s: %v", p.CharacterName, err)
		}
	}
	if all, err := profiles.List(ctx); err == nil {
		fmt.Printf("Imported %d character profiles (%d total in store).\n", len(c.Profiles), len(all))
	} else {
		fmt.Printf("Imported %d character profiles.\n", len(c.Profiles))
	}

	for _, ep := range c.Episodes {
		if ep.ID == "" {
			ep.ID = uuid.New().String()
		}
		if err := episodes.Create(ctx, ep); err != nil {
			log.Fatalf("failed to create episode %s: %v", ep.Title, err)
		}
	}
	fmt.Printf("Imported %d episodes.\n", len(c.Episodes))

	for _, ev := range c.Events {
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		if err := events.Create(ctx, ev); err != nil {
			log.Fatalf("failed to create event %s: %v", ev.EventName, err)
		}
	}
	fmt.Printf("Imported %d historical events.\n", len(c.Events))

	for _, rel := range c.Relationships {
		if rel.ID == "" {
			rel.ID = uuid.New().String()
		}
		if err := relationships.Create(ctx, rel); err != nil {
			log.Fatalf("failed to create relationship %s-%s: %v", rel.FromCharacter, rel.ToCharacter, err)
		}
	}
	fmt.Printf("Imported %d relationships.\n", len(c.Relationships))

	if counts, err := episodes.CountBySourceBook(ctx); err == nil {
		for book, n := range counts {
			fmt.Printf("  %s: %d episodes\n", book, n)
		}
	}

	if len(c.Passages) == 0 {
		fmt.Println("No passages in corpus, skipping vector import.")
		return
	}
	if !cfg.SemanticEnabled() {
		fmt.Println("Semantic search not configured, skipping vector import.")
		return
	}

	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		log.Fatalf("failed to init milvus client: %v", err)
	}
	defer milvusClient.Close()

	embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		log.Fatalf("failed to init embedder: %v", err)
	}

	repo := milvus.NewRepository(milvusClient)

	batchSize := cfg.Embedding.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	imported := 0
	for lo := 0; lo < len(c.Passages); lo += batchSize {
		hi := lo + batchSize
		if hi > len(c.Passages) {
			hi = len(c.Passages)
		}
		batch := c.Passages[lo:hi]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.TextContent
		}
		vectors, err := embedder.EmbedStrings(ctx, texts)
		if err != nil {
			log.Fatalf("failed to embed passages: %v", err)
		}
		if len(vectors) != len(batch) {
			log.Fatalf("embedder returned %d vectors for %d passages", len(vectors), len(batch))
		}

		passages := make([]*milvus.Passage, len(batch))
		for i, p := range batch {
			vec := make([]float32, len(vectors[i]))
			for j, v := range vectors[i] {
				vec[j] = float32(v)
			}
			passages[i] = &milvus.Passage{
				ID:           uuid.New().String(),
				Vector:       vec,
				SourceBook:   p.SourceBook,
				ChapterTitle: p.ChapterTitle,
				PassageType:  p.PassageType,
				TextContent:  p.TextContent,
			}
		}
		if err := repo.InsertPassages(ctx, passages); err != nil {
			log.Fatalf("failed to insert passages: %v", err)
		}
		imported += len(passages)
	}
	fmt.Printf("Imported %d passages into vector store.\n", imported)
}
