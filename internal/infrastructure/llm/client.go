package llm

import "context"

// Provider 定义了 LLM 的通用行为
type Provider interface {
	// StreamSubstitutes 流式返回 suggest_substitutes 工具调用的参数片段，拼接后是完整 JSON
	StreamSubstitutes(ctx context.Context, ingredient string) (<-chan string, error)
}
