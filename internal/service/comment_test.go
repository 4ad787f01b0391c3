package service

import (
	"context"
	"strings"
	"testing"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	_, bobP := env.newUser(t, "bob", false)
	_, adminP := env.newUser(t, "root", false, model.RoleUser, model.RoleAdmin)
	recipe := testutil.CreateRecipe(t, env.db, alice.ID, "Dal", model.CategoryVegetarian, "lentils")

	c, err := env.comment.Add(ctx, bobP, recipe.ID, "  tasty  ")
	require.NoError(t, err)
	assert.Equal(t, "tasty", c.Content)
	assert.Equal(t, "bob", c.Username)

	_, err = env.comment.Add(ctx, bobP, recipe.ID, "   ")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = env.comment.Add(ctx, bobP, recipe.ID, strings.Repeat("x", maxCommentLen+1))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = env.comment.Add(ctx, bobP, 4242, "hello")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = env.comment.Add(ctx, nil, recipe.ID, "hello")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	list, err := env.comment.ListByRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)

	empty, err := env.comment.ListByRecipe(ctx, 4242)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// 只有作者能改
	_, err = env.comment.Update(ctx, aliceP, c.ID, "hijacked")
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	updated, err := env.comment.Update(ctx, bobP, c.ID, "very tasty")
	require.NoError(t, err)
	assert.Equal(t, "very tasty", updated.Content)

	// 作者或管理员能删
	assert.ErrorIs(t, env.comment.Delete(ctx, aliceP, c.ID), model.ErrAccessDenied)
	require.NoError(t, env.comment.Delete(ctx, adminP, c.ID))
	assert.ErrorIs(t, env.comment.Delete(ctx, bobP, c.ID), model.ErrNotFound)
}
