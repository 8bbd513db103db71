// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionPassages 史料段落集合
	CollectionPassages = "passages"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// PassagesSchema 史料段落 Collection Schema
func PassagesSchema(collectionName string) *entity.Schema {
	if collectionName == "" {
		collectionName = CollectionPassages
	}
	return &entity.Schema{
		CollectionName: collectionName,
		Description:    "Source book passages for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "source_book",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "256",
				},
			},
			{
				Name:     "chapter_title",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "passage_type",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "text_content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// Passage 史料段落数据结构
type Passage struct {
	ID           string    `json:"id"`
	Vector       []float32 `json:"vector"`
	SourceBook   string    `json:"source_book"`
	ChapterTitle string    `json:"chapter_title"`
	PassageType  string    `json:"passage_type"`
	TextContent  string    `json:"text_content"`
}
