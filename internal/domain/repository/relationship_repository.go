package repository

import (
	"context"

	"historical-qa-api/internal/domain/entity"
)

// RelationshipRepository 人物关系仓储接口
type RelationshipRepository interface {
	// Create 创建关系边
	Create(ctx context.Context, rel *entity.Relationship) error

	// GetByCharacter 获取以 name 为任一端点的关系边
	GetByCharacter(ctx context.Context, name string, limit int) ([]*entity.Relationship, error)

	// GetNeighborhood 以 name 为起点做限深遍历，返回沿途的全部关系边
	// depth 最大为 2，超出按 2 处理
	GetNeighborhood(ctx context.Context, name string, depth, limit int) ([]*entity.Relationship, error)
}
