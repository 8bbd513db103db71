package entity

import (
	"time"
)

// Episode 叙事片段
// 从史料书籍中切分出的连续叙事段落，是手工检索的主要正文来源
type Episode struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Content      string    `json:"content"`
	SourceBook   string    `json:"source_book"`
	ChapterTitle string    `json:"chapter_title,omitempty"`
	Characters   string    `json:"characters,omitempty"` // 逗号分隔的出场人物
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (Episode) TableName() string {
	return "episodes"
}
