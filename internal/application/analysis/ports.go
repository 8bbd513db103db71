package analysis

import (
	"context"
)

// GraphStore 手工检索通道
// 基于结构化史料（人物档案、叙事片段、历史事件、人物关系）做确定性查询，
// 始终可用，是语义通道失效时的兜底
type GraphStore interface {
	// Retrieve 按类别策略检索证据，entities 为查询中识别出的人物/地点
	Retrieve(ctx context.Context, query string, category Category, entities []string) ([]EvidenceItem, error)
}

// SemanticStore 语义检索通道
// 依赖外部 embedding 服务，属可选能力，未配置时 Enabled 返回 false
type SemanticStore interface {
	// Enabled 能力是否可用
	Enabled() bool

	// DisabledReason 能力不可用时的原因说明
	DisabledReason() string

	// Search 向量相似度检索，结果按相似度降序
	Search(ctx context.Context, query string, topK int) ([]EvidenceItem, error)
}

// Generator 答案生成器
type Generator interface {
	// Generate 根据系统提示词与用户提示词生成答案
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AnswerCache 答案缓存
type AnswerCache interface {
	// Get 按键读取缓存的分析结果，未命中返回 (nil, nil)
	Get(ctx context.Context, key string) (*Result, error)

	// Set 写入分析结果
	Set(ctx context.Context, key string, result *Result) error
}
