package postgres

import (
	"context"
	"fmt"

	"historical-qa-api/internal/domain/entity"
)

// EpisodeRepository 叙事片段仓储实现
type EpisodeRepository struct {
	client *Client
}

// NewEpisodeRepository 创建叙事片段仓储
func NewEpisodeRepository(client *Client) *EpisodeRepository {
	return &EpisodeRepository{client: client}
}

// Create 创建叙事片段
func (r *EpisodeRepository) Create(ctx context.Context, episode *entity.Episode) error {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(episode).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create episode: %w", err)
	}
	return nil
}

// SearchByKeyword 按关键词在正文与标题中模糊匹配
func (r *EpisodeRepository) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]*entity.Episode, error) {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.SearchByKeyword")
	defer span.End()

	pattern := "%" + keyword + "%"
	var episodes []*entity.Episode
	err := r.client.db.WithContext(ctx).
		Where("content ILIKE ? OR title ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&episodes).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search episodes by keyword: %w", err)
	}
	return episodes, nil
}

// SearchByCharacter 按出场人物名匹配
func (r *EpisodeRepository) SearchByCharacter(ctx context.Context, name string, limit int) ([]*entity.Episode, error) {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.SearchByCharacter")
	defer span.End()

	pattern := "%" + name + "%"
	var episodes []*entity.Episode
	err := r.client.db.WithContext(ctx).
		Where("characters ILIKE ? OR content ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&episodes).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search episodes by character: %w", err)
	}
	return episodes, nil
}

// CountBySourceBook 统计各来源书籍的片段数量
func (r *EpisodeRepository) CountBySourceBook(ctx context.Context) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.CountBySourceBook")
	defer span.End()

	type row struct {
		SourceBook string
		Count      int
	}
	var rows []row
	err := r.client.db.WithContext(ctx).
		Model(&entity.Episode{}).
		Select("source_book, COUNT(*) AS count").
		Group("source_book").
		Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count episodes by source book: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.SourceBook] = r.Count
	}
	return out, nil
}
