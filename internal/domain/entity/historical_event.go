package entity

import (
	"time"

	"github.com/lib/pq"
)

// HistoricalEvent 历史事件
type HistoricalEvent struct {
	ID                string         `json:"id"`
	EventName         string         `json:"event_name"`
	Description       string         `json:"description"`
	NarrativeFunction string         `json:"narrative_function,omitempty"`
	EventMonth        int            `json:"event_month,omitempty"` // 1-12，0 表示未知
	EventYear         int            `json:"event_year,omitempty"`
	Participants      pq.StringArray `gorm:"type:text[]" json:"participants,omitempty"`
	SourceBook        string         `json:"source_book,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// TableName 指定表名
func (HistoricalEvent) TableName() string {
	return "historical_events"
}
