package repository

import (
	"context"

	"historical-qa-api/internal/domain/entity"
)

// EpisodeRepository 叙事片段仓储接口
type EpisodeRepository interface {
	// Create 创建叙事片段
	Create(ctx context.Context, episode *entity.Episode) error

	// SearchByKeyword 按关键词在正文中模糊匹配，按创建时间倒序
	SearchByKeyword(ctx context.Context, keyword string, limit int) ([]*entity.Episode, error)

	// SearchByCharacter 按出场人物名匹配
	SearchByCharacter(ctx context.Context, name string, limit int) ([]*entity.Episode, error)

	// CountBySourceBook 统计各来源书籍的片段数量
	CountBySourceBook(ctx context.Context) (map[string]int, error)
}
