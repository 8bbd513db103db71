package postgres

import (
	"context"
	"fmt"

	"historical-qa-api/internal/domain/entity"
)

// RelationshipRepository 人物关系仓储实现
type RelationshipRepository struct {
	client *Client
}

// NewRelationshipRepository 创建人物关系仓储
func NewRelationshipRepository(client *Client) *RelationshipRepository {
	return &RelationshipRepository{client: client}
}

// Create 创建关系边
func (r *RelationshipRepository) Create(ctx context.Context, rel *entity.Relationship) error {
	ctx, span := tracer.Start(ctx, "postgres.RelationshipRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(rel).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}

// GetByCharacter 获取以 name 为任一端点的关系边
func (r *RelationshipRepository) GetByCharacter(ctx context.Context, name string, limit int) ([]*entity.Relationship, error) {
	ctx, span := tracer.Start(ctx, "postgres.RelationshipRepository.GetByCharacter")
	defer span.End()

	pattern := "%" + name + "%"
	var rels []*entity.Relationship
	err := r.client.db.WithContext(ctx).
		Where("from_character ILIKE ? OR to_character ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&rels).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get relationships by character: %w", err)
	}
	return rels, nil
}

// GetNeighborhood 以 name 为起点做限深遍历
// depth 超出 2 时按 2 处理，结果去重且总量受 limit 约束
func (r *RelationshipRepository) GetNeighborhood(ctx context.Context, name string, depth, limit int) ([]*entity.Relationship, error) {
	ctx, span := tracer.Start(ctx, "postgres.RelationshipRepository.GetNeighborhood")
	defer span.End()

	if depth < 1 {
		depth = 1
	}
	if depth > 2 {
		depth = 2
	}

	seen := make(map[string]bool)
	visited := map[string]bool{name: true}
	frontier := []string{name}

	var out []*entity.Relationship
	for d := 0; d < depth && len(frontier) > 0 && len(out) < limit; d++ {
		var next []string
		for _, node := range frontier {
			rels, err := r.GetByCharacter(ctx, node, limit-len(out))
			if err != nil {
				return nil, err
			}
			for _, rel := range rels {
				if seen[rel.ID] {
					continue
				}
				seen[rel.ID] = true
				out = append(out, rel)
				if len(out) >= limit {
					return out, nil
				}
				if other := rel.Other(node); other != "" && !visited[other] {
					visited[other] = true
					next = append(next, other)
				}
			}
		}
		frontier = next
	}
	return out, nil
}
