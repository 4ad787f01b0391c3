package service

import (
	"context"
	"testing"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatings(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	_, bobP := env.newUser(t, "bob", false)
	recipe := testutil.CreateRecipe(t, env.db, alice.ID, "Dal", model.CategoryVegetarian, "lentils")

	sum, err := env.rating.Rate(ctx, aliceP, recipe.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.YourRating)

	sum, err = env.rating.Rate(ctx, bobP, recipe.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, sum.Average, 1e-9)
	assert.EqualValues(t, 2, sum.Count)

	// 重复评分覆盖
	sum, err = env.rating.Rate(ctx, bobP, recipe.ID, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, sum.Average, 1e-9)
	assert.EqualValues(t, 2, sum.Count)

	for _, v := range []int{0, 6, -1} {
		_, err = env.rating.Rate(ctx, bobP, recipe.ID, v)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	}
	_, err = env.rating.Rate(ctx, bobP, 4242, 3)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = env.rating.Rate(ctx, nil, recipe.ID, 3)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	sum, err = env.rating.Remove(ctx, bobP, recipe.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, sum.Average, 1e-9)
	_, err = env.rating.Remove(ctx, bobP, recipe.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	avg, err := env.rating.Average(ctx, recipe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, avg.Count)
	_, err = env.rating.Average(ctx, 4242)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
