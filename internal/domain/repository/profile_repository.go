// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"historical-qa-api/internal/domain/entity"
)

// ProfileRepository 人物档案仓储接口
type ProfileRepository interface {
	// Create 创建人物档案
	Create(ctx context.Context, profile *entity.CharacterProfile) error

	// GetByName 根据主名或别名获取档案（不区分大小写），未命中返回 nil
	GetByName(ctx context.Context, name string) (*entity.CharacterProfile, error)

	// GetByNames 批量获取档案，保持入参顺序，未命中项跳过
	GetByNames(ctx context.Context, names []string) ([]*entity.CharacterProfile, error)

	// List 列出全部档案
	List(ctx context.Context) ([]*entity.CharacterProfile, error)
}
