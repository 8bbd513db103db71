package entity

import (
	"time"
)

// Relationship 人物关系边
// FromCharacter/ToCharacter 构成有向边，图遍历时双向匹配
type Relationship struct {
	ID            string    `json:"id"`
	FromCharacter string    `json:"from_character"`
	ToCharacter   string    `json:"to_character"`
	RelationType  string    `json:"relation_type"`
	Description   string    `json:"description,omitempty"`
	SourceBook    string    `json:"source_book,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName 指定表名
func (Relationship) TableName() string {
	return "relationships"
}

// Other 返回关系中除 name 以外的另一端，未命中返回空串
func (r *Relationship) Other(name string) string {
	switch name {
	case r.FromCharacter:
		return r.ToCharacter
	case r.ToCharacter:
		return r.FromCharacter
	default:
		return ""
	}
}
