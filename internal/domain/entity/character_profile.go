// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// CharacterProfile 历史人物档案
// Profile 为权威人物小传，检索时原文直出，永不参与压缩
type CharacterProfile struct {
	ID            string    `json:"id"`
	CharacterName string    `json:"character_name"`
	Aliases       string    `json:"aliases,omitempty"` // 逗号分隔的别名列表
	Profile       string    `json:"profile"`
	SourceBooks   string    `json:"source_books,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CharacterProfile) TableName() string {
	return "character_profiles"
}

// AliasList 返回规范化后的别名切片
func (p *CharacterProfile) AliasList() []string {
	if p.Aliases == "" {
		return nil
	}
	parts := strings.Split(p.Aliases, ",")
	out := make([]string, 0, len(parts))
	for _, a := range parts {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Matches 判断给定名称是否命中主名或任一别名（不区分大小写）
func (p *CharacterProfile) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if strings.ToLower(p.CharacterName) == name {
		return true
	}
	for _, a := range p.AliasList() {
		if strings.ToLower(a) == name {
			return true
		}
	}
	return false
}
