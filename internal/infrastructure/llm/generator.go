package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"

	"historical-qa-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// Generator 基于 Eino ChatModel 的答案生成器
type Generator struct {
	factory  *EinoFactory
	provider string
}

// NewGenerator 创建答案生成器，provider 为空时使用默认提供商
func NewGenerator(factory *EinoFactory, provider string) *Generator {
	return &Generator{factory: factory, provider: provider}
}

// Generate 根据系统提示词与用户提示词生成答案
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.Generator.Generate")
	defer span.End()

	chatModel, err := g.factory.Get(ctx, g.provider)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to get chat model: %w", err)
	}

	providerName := g.provider
	if providerName == "" {
		providerName = g.factory.config.DefaultProvider
	}
	modelName := g.factory.config.Providers[providerName].Model

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}

	start := time.Now()
	out, err := chatModel.Generate(ctx, messages)
	metrics.LLMCallDuration.WithLabelValues(providerName, modelName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(providerName, modelName, "error").Inc()
		span.RecordError(err)
		return "", fmt.Errorf("chat model generate failed: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues(providerName, modelName, "ok").Inc()

	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		metrics.LLMTokensUsed.WithLabelValues(providerName, modelName, "prompt").
			Add(float64(out.ResponseMeta.Usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(providerName, modelName, "completion").
			Add(float64(out.ResponseMeta.Usage.CompletionTokens))
	}

	return out.Content, nil
}
