// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"historical-qa-api/internal/domain/entity"
)

// ProfileRepository 人物档案仓储实现
type ProfileRepository struct {
	client *Client
}

// NewProfileRepository 创建人物档案仓储
func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// Create 创建人物档案
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.CharacterProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(profile).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create character profile: %w", err)
	}
	return nil
}

// GetByName 根据主名或别名获取档案
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*entity.CharacterProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByName")
	defer span.End()

	// aliases 是逗号分隔文本，ILIKE 只做粗筛，命中与否由 Matches 判定
	var candidates []*entity.CharacterProfile
	err := r.client.db.WithContext(ctx).
		Where("character_name ILIKE ? OR aliases ILIKE ?", name, "%"+name+"%").
		Find(&candidates).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get character profile: %w", err)
	}
	for _, candidate := range candidates {
		if candidate.Matches(name) {
			return candidate, nil
		}
	}
	return nil, nil
}

// GetByNames 批量获取档案，保持入参顺序
func (r *ProfileRepository) GetByNames(ctx context.Context, names []string) ([]*entity.CharacterProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByNames")
	defer span.End()

	out := make([]*entity.CharacterProfile, 0, len(names))
	for _, name := range names {
		profile, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			out = append(out, profile)
		}
	}
	return out, nil
}

// List 列出全部档案
func (r *ProfileRepository) List(ctx context.Context) ([]*entity.CharacterProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.List")
	defer span.End()

	var profiles []*entity.CharacterProfile
	if err := r.client.db.WithContext(ctx).Order("character_name ASC").Find(&profiles).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list character profiles: %w", err)
	}
	return profiles, nil
}
