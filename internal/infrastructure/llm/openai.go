package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/sashabaranov/go-openai"
)

const maxSubstitutes = 5

const substitutesSystemPrompt = `You are a culinary assistant. When given an ingredient, suggest up to %d common substitutes a home cook can use.
Always answer by calling the %s tool. Keep reasons short and practical. Do not invent exotic ingredients.`

// OpenAIClient 任何 OpenAI 兼容接口 (OpenAI / DeepSeek / 本地模型) 都可以接入
type OpenAIClient struct {
	modelName string
	client    *openai.Client
}

func NewOpenAIClient(apiKey, baseURL, modelName string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		modelName: modelName,
		client:    openai.NewClientWithConfig(config),
	}
}

// greedyTemperature Temperature 带 omitempty，0 不会被发送，用最小的非零值代替
const greedyTemperature = math.SmallestNonzeroFloat32

func (c *OpenAIClient) StreamSubstitutes(ctx context.Context, ingredient string) (<-chan string, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.substitutesRequest(ingredient))
	if err != nil {
		return nil, fmt.Errorf("llm stream: %w", err)
	}

	outCh := make(chan string, 10)
	go func() {
		defer close(outCh)
		defer stream.Close()
		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				slog.Error("llm stream error", "err", err)
				return
			}
			if len(response.Choices) == 0 {
				continue
			}
			delta := response.Choices[0].Delta
			fragment := delta.Content
			if len(delta.ToolCalls) > 0 {
				fragment = delta.ToolCalls[0].Function.Arguments
			}
			if fragment == "" {
				continue
			}
			select {
			case outCh <- fragment:
			case <-ctx.Done():
				return
			}
		}
	}()

	return outCh, nil
}

func (c *OpenAIClient) substitutesRequest(ingredient string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(substitutesSystemPrompt, maxSubstitutes, SuggestSubstitutesTool)},
			{Role: openai.ChatMessageRoleUser, Content: ingredient},
		},
		Tools: []openai.Tool{
			GenerateSubstitutesTool(maxSubstitutes),
		},
		// 强制调用工具，保证输出是结构化 JSON
		ToolChoice: openai.ToolChoice{
			Type: openai.ToolTypeFunction,
			Function: openai.ToolFunction{
				Name: SuggestSubstitutesTool,
			},
		},
		Temperature: greedyTemperature,
		Stream:      true,
	}
}
