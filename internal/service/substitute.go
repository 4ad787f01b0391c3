package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leon37/Hamhama/internal/infrastructure/cache"
	"github.com/leon37/Hamhama/internal/infrastructure/llm"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
)

const maxIngredientLen = 100

// CommitFunc 流结束后用完整文本收尾
type CommitFunc func(full string) (*model.SubstituteResult, error)

// SubstituteService 食材替代建议，结果按归一化的食材名缓存
type SubstituteService struct {
	llmClient llm.Provider
	cache     cache.Cache
}

func NewSubstituteService(llmClient llm.Provider, c cache.Cache) *SubstituteService {
	return &SubstituteService{llmClient: llmClient, cache: c}
}

// NormalizeIngredient 小写、去首尾空白、合并连续空白
func NormalizeIngredient(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func cacheKey(normalized string) string {
	return "substitutes:" + normalized
}

// Stream 返回片段流和收尾函数。缓存命中时流里只有一条完整 JSON
func (s *SubstituteService) Stream(ctx context.Context, actor *model.Principal, ingredient string) (<-chan string, CommitFunc, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, nil, err
	}
	normalized := NormalizeIngredient(ingredient)
	if normalized == "" {
		return nil, nil, fmt.Errorf("%w: ingredient is required", model.ErrInvalidArgument)
	}
	if len(normalized) > maxIngredientLen {
		return nil, nil, fmt.Errorf("%w: ingredient name too long", model.ErrInvalidArgument)
	}

	// 1. 查缓存，缓存故障不阻断流程
	if cached, ok, err := s.cache.Get(ctx, cacheKey(normalized)); err != nil {
		slog.Warn("substitute cache get failed", "err", err)
	} else if ok {
		ch := make(chan string, 1)
		ch <- cached
		close(ch)
		return ch, func(full string) (*model.SubstituteResult, error) {
			return llm.ParseSubstitutes(full)
		}, nil
	}

	// 2. 调用大模型
	slog.Info("asking llm for substitutes", "ingredient", normalized, "user", actor.UserID)
	streamCh, err := s.llmClient.StreamSubstitutes(ctx, normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}

	commitFunc := func(full string) (*model.SubstituteResult, error) {
		result, err := llm.ParseSubstitutes(full)
		if err != nil {
			slog.Error("llm returned unusable substitutes", "ingredient", normalized, "err", err)
			return nil, fmt.Errorf("%w: %v", model.ErrUnavailable, err)
		}
		if result.Original == "" {
			result.Original = normalized
		}

		// 3. 写缓存
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey(normalized), string(data)); err != nil {
				slog.Warn("substitute cache set failed", "err", err)
			}
		}
		return result, nil
	}

	return streamCh, commitFunc, nil
}

// Suggest 非流式版本：读完整个流再收尾
func (s *SubstituteService) Suggest(ctx context.Context, actor *model.Principal, ingredient string) (*model.SubstituteResult, error) {
	streamCh, commit, err := s.Stream(ctx, actor, ingredient)
	if err != nil {
		return nil, err
	}
	var full strings.Builder
	for fragment := range streamCh {
		full.WriteString(fragment)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return commit(full.String())
}
