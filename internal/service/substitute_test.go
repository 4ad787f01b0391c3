package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leon37/Hamhama/internal/infrastructure/cache"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM 把固定回复拆成小片段流出
type fakeLLM struct {
	reply string
	err   error
	calls atomic.Int32
}

func (f *fakeLLM) StreamSubstitutes(_ context.Context, _ string) (<-chan string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan string)
	go func() {
		defer close(ch)
		for i := 0; i < len(f.reply); i += 7 {
			end := min(i+7, len(f.reply))
			ch <- f.reply[i:end]
		}
	}()
	return ch, nil
}

const butterReply = `{"original":"butter","substitutes":[{"name":"olive oil","reason":"similar fat content"},{"name":"applesauce","reason":"moisture in baking"}]}`

func TestSuggest_CachesByNormalizedName(t *testing.T) {
	provider := &fakeLLM{reply: butterReply}
	svc := NewSubstituteService(provider, cache.NewMemoryCache(time.Hour))
	ctx := context.Background()
	actor := &model.Principal{UserID: 1, Username: "alice"}

	res, err := svc.Suggest(ctx, actor, "Butter")
	require.NoError(t, err)
	assert.Equal(t, "butter", res.Original)
	require.Len(t, res.Substitutes, 2)
	assert.Equal(t, "olive oil", res.Substitutes[0].Name)

	again, err := svc.Suggest(ctx, actor, "  BUTTER ")
	require.NoError(t, err)
	assert.Equal(t, res, again)
	assert.EqualValues(t, 1, provider.calls.Load())
}

func TestStream_FragmentsConcatenate(t *testing.T) {
	provider := &fakeLLM{reply: butterReply}
	svc := NewSubstituteService(provider, cache.NewMemoryCache(time.Hour))

	ch, commit, err := svc.Stream(context.Background(), &model.Principal{UserID: 1}, "butter")
	require.NoError(t, err)
	var parts []string
	full := ""
	for frag := range ch {
		parts = append(parts, frag)
		full += frag
	}
	assert.Greater(t, len(parts), 1)
	assert.Equal(t, butterReply, full)

	res, err := commit(full)
	require.NoError(t, err)
	assert.Len(t, res.Substitutes, 2)
}

func TestSuggest_Errors(t *testing.T) {
	ctx := context.Background()
	actor := &model.Principal{UserID: 1}

	svc := NewSubstituteService(&fakeLLM{reply: butterReply}, cache.NewMemoryCache(time.Hour))
	_, err := svc.Suggest(ctx, nil, "butter")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	_, err = svc.Suggest(ctx, actor, "   ")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	down := NewSubstituteService(&fakeLLM{err: errors.New("connection refused")}, cache.NewMemoryCache(time.Hour))
	_, err = down.Suggest(ctx, actor, "butter")
	assert.ErrorIs(t, err, model.ErrUnavailable)

	// 坏输出不进缓存
	garbage := &fakeLLM{reply: "I think you could use margarine."}
	svc = NewSubstituteService(garbage, cache.NewMemoryCache(time.Hour))
	_, err = svc.Suggest(ctx, actor, "butter")
	assert.ErrorIs(t, err, model.ErrUnavailable)
	_, err = svc.Suggest(ctx, actor, "butter")
	assert.ErrorIs(t, err, model.ErrUnavailable)
	assert.EqualValues(t, 2, garbage.calls.Load())
}
