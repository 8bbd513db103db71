package repository

import (
	"context"

	"historical-qa-api/internal/domain/entity"
)

// EventRepository 历史事件仓储接口
type EventRepository interface {
	// Create 创建历史事件
	Create(ctx context.Context, event *entity.HistoricalEvent) error

	// SearchByKeyword 按事件名或叙事功能模糊匹配
	SearchByKeyword(ctx context.Context, keyword string, limit int) ([]*entity.HistoricalEvent, error)

	// SearchByTimeframe 按年份（和可选月份，0 表示不限）查询，按时间升序
	SearchByTimeframe(ctx context.Context, year, month int, limit int) ([]*entity.HistoricalEvent, error)

	// SearchByParticipant 查询指定人物参与的事件，按时间升序
	SearchByParticipant(ctx context.Context, name string, limit int) ([]*entity.HistoricalEvent, error)
}
