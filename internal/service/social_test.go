package service

import (
	"context"
	"testing"

	"github.com/leon37/Hamhama/internal/infrastructure/events"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow_SelfIsInvalid(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)

	err := env.social.Follow(ctx, aliceP, alice.ID)
	assert.ErrorIs(t, err, model.ErrInvalidOperation)

	err = env.social.Block(ctx, aliceP, alice.ID)
	assert.ErrorIs(t, err, model.ErrInvalidOperation)

	n, err := env.socials.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	blocked, err := env.socials.BlockedUsers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, blocked)
}

func TestFollow_IdempotentAndNotFound(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	_, aliceP := env.newUser(t, "alice", false)
	bob, _ := env.newUser(t, "bob", false)

	require.NoError(t, env.social.Follow(ctx, aliceP, bob.ID))
	require.NoError(t, env.social.Follow(ctx, aliceP, bob.ID))

	followers, err := env.socials.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	assert.ErrorIs(t, env.social.Follow(ctx, aliceP, 4242), model.ErrNotFound)
	assert.ErrorIs(t, env.social.Follow(ctx, nil, bob.ID), model.ErrUnauthenticated)

	// 取消不存在的关注是成功的空操作
	require.NoError(t, env.social.Unfollow(ctx, aliceP, bob.ID))
	require.NoError(t, env.social.Unfollow(ctx, aliceP, bob.ID))
	require.NoError(t, env.social.Unfollow(ctx, aliceP, 4242))

	assert.Equal(t, []string{events.UserFollowed, events.UserFollowed, events.UserUnfollowed, events.UserUnfollowed, events.UserUnfollowed}, env.publisher.types())
}

func TestFollow_InverseRelationHolds(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	names := []string{"alice", "bob", "carol", "dave"}
	users := make([]*model.User, 0, len(names))
	actors := make([]*model.Principal, 0, len(names))
	for _, n := range names {
		u, p := env.newUser(t, n, false)
		users = append(users, u)
		actors = append(actors, p)
	}

	require.NoError(t, env.social.Follow(ctx, actors[0], users[1].ID))
	require.NoError(t, env.social.Follow(ctx, actors[1], users[0].ID))
	require.NoError(t, env.social.Follow(ctx, actors[2], users[0].ID))
	require.NoError(t, env.social.Follow(ctx, actors[3], users[1].ID))
	require.NoError(t, env.social.Block(ctx, actors[1], users[0].ID))
	require.NoError(t, env.social.Unfollow(ctx, actors[3], users[1].ID))
	require.NoError(t, env.social.Follow(ctx, actors[3], users[2].ID))

	for _, a := range users {
		following, err := env.social.GetFollowing(ctx, nil, a.ID)
		require.NoError(t, err)
		for _, b := range users {
			followers, err := env.social.GetFollowers(ctx, nil, b.ID)
			require.NoError(t, err)
			assert.Equal(t,
				containsID(ids(following), b.ID),
				containsID(ids(followers), a.ID),
				"%s -> %s", a.Username, b.Username)
		}
	}
}

func containsID(list []uint, id uint) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func TestBlock_SeversBothDirections(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", false)

	require.NoError(t, env.social.Follow(ctx, aliceP, bob.ID))
	require.NoError(t, env.social.Follow(ctx, bobP, alice.ID))

	require.NoError(t, env.social.Block(ctx, aliceP, bob.ID))

	aliceFollowing, err := env.social.GetFollowing(ctx, aliceP, alice.ID)
	require.NoError(t, err)
	bobFollowing, err := env.social.GetFollowing(ctx, bobP, bob.ID)
	require.NoError(t, err)
	assert.NotContains(t, ids(aliceFollowing), bob.ID)
	assert.NotContains(t, ids(bobFollowing), alice.ID)

	// 重复拉黑是硬错误
	assert.ErrorIs(t, env.social.Block(ctx, aliceP, bob.ID), model.ErrAlreadyBlocked)

	// 被拉黑的一方无法重新关注
	assert.ErrorIs(t, env.social.Follow(ctx, bobP, alice.ID), model.ErrAccessDenied)

	// 解除拉黑不恢复关注
	require.NoError(t, env.social.Unblock(ctx, aliceP, bob.ID))
	ok, err := env.socials.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, env.social.Unblock(ctx, aliceP, bob.ID), model.ErrNotBlocked)
	assert.ErrorIs(t, env.social.Unblock(ctx, aliceP, 4242), model.ErrNotFound)
	assert.ErrorIs(t, env.social.Block(ctx, aliceP, 4242), model.ErrNotFound)
}

func TestFollow_BlockerMayFollowBlockedUser(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, _ := env.newUser(t, "bob", false)

	require.NoError(t, env.social.Block(ctx, aliceP, bob.ID))
	require.NoError(t, env.social.Follow(ctx, aliceP, bob.ID))

	following, err := env.social.GetFollowing(ctx, aliceP, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids(following))

	// 拉黑关系保持不变
	blocked, err := env.socials.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestBlock_IsDirected(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", false)

	require.NoError(t, env.social.Block(ctx, aliceP, bob.ID))

	// bob 没有拉黑 alice，所以 bob 拉黑 alice 仍然可以成功
	require.NoError(t, env.social.Block(ctx, bobP, alice.ID))
	assert.ErrorIs(t, env.social.Unblock(ctx, bobP, 4242), model.ErrNotFound)
	require.NoError(t, env.social.Unblock(ctx, bobP, alice.ID))
	assert.ErrorIs(t, env.social.Unblock(ctx, bobP, alice.ID), model.ErrNotBlocked)

	blocked, err := env.social.GetBlockedUsers(ctx, aliceP, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids(blocked))
}

func TestVisibility_PrivateProfile(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", true)
	_, carolP := env.newUser(t, "carol", false)

	// 公开主页对匿名可见
	ok, err := env.social.IsProfileAccessible(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// 私密主页
	ok, err = env.social.IsProfileAccessible(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = env.social.IsProfileAccessible(ctx, bob.ID, bobP)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.social.IsProfileAccessible(ctx, bob.ID, aliceP)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.social.GetFollowers(ctx, nil, bob.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	_, err = env.social.GetFollowing(ctx, carolP, bob.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	require.NoError(t, env.social.Follow(ctx, aliceP, bob.ID))
	ok, err = env.social.IsProfileAccessible(ctx, bob.ID, aliceP)
	require.NoError(t, err)
	assert.True(t, ok)
	followers, err := env.social.GetFollowers(ctx, aliceP, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{alice.ID}, ids(followers))

	ok, err = env.social.IsProfileAccessible(ctx, bob.ID, carolP)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.social.IsProfileAccessible(ctx, 4242, nil)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetBlockedUsers_SelfOrAdmin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", false)
	_, adminP := env.newUser(t, "root", false, model.RoleUser, model.RoleAdmin)

	require.NoError(t, env.social.Block(ctx, aliceP, bob.ID))

	list, err := env.social.GetBlockedUsers(ctx, adminP, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids(list))

	_, err = env.social.GetBlockedUsers(ctx, bobP, alice.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	_, err = env.social.GetBlockedUsers(ctx, nil, alice.ID)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}
