package postgres

import (
	"context"
	"fmt"

	"historical-qa-api/internal/domain/entity"
)

// EventRepository 历史事件仓储实现
type EventRepository struct {
	client *Client
}

// NewEventRepository 创建历史事件仓储
func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// Create 创建历史事件
func (r *EventRepository) Create(ctx context.Context, event *entity.HistoricalEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create historical event: %w", err)
	}
	return nil
}

// SearchByKeyword 按事件名或叙事功能模糊匹配
func (r *EventRepository) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]*entity.HistoricalEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.SearchByKeyword")
	defer span.End()

	pattern := "%" + keyword + "%"
	var events []*entity.HistoricalEvent
	err := r.client.db.WithContext(ctx).
		Where("event_name ILIKE ? OR narrative_function ILIKE ?", pattern, pattern).
		Order("event_year ASC, event_month ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search events by keyword: %w", err)
	}
	return events, nil
}

// SearchByTimeframe 按年份和可选月份查询
func (r *EventRepository) SearchByTimeframe(ctx context.Context, year, month int, limit int) ([]*entity.HistoricalEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.SearchByTimeframe")
	defer span.End()

	query := r.client.db.WithContext(ctx).Where("event_year = ?", year)
	if month > 0 {
		query = query.Where("event_month = ?", month)
	}

	var events []*entity.HistoricalEvent
	err := query.Order("event_year ASC, event_month ASC").Limit(limit).Find(&events).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search events by timeframe: %w", err)
	}
	return events, nil
}

// SearchByParticipant 查询指定人物参与的事件
func (r *EventRepository) SearchByParticipant(ctx context.Context, name string, limit int) ([]*entity.HistoricalEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.SearchByParticipant")
	defer span.End()

	var events []*entity.HistoricalEvent
	err := r.client.db.WithContext(ctx).
		Where("? = ANY(participants)", name).
		Order("event_year ASC, event_month ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search events by participant: %w", err)
	}
	return events, nil
}
