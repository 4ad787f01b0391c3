package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jpegHeader 足以让 http.DetectContentType 判定为 image/jpeg
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestGetProfile_Visibility(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", true)
	_, adminP := env.newUser(t, "root", false, model.RoleUser, model.RoleAdmin)
	recipe := testutil.CreateRecipe(t, env.db, alice.ID, "Dal", model.CategoryVegetarian, "lentils")

	require.NoError(t, env.recipe.Like(ctx, bobP, recipe.ID))
	require.NoError(t, env.social.Follow(ctx, bobP, alice.ID))

	// 公开主页：匿名可见但看不到邮箱
	profile, err := env.user.GetProfile(ctx, nil, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Email)
	assert.EqualValues(t, 1, profile.FollowersCount)
	assert.Equal(t, PictureURL(alice.ID), profile.PictureURL)

	// 私密主页
	_, err = env.user.GetProfile(ctx, nil, bob.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	_, err = env.user.GetProfile(ctx, aliceP, bob.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	// 管理员没有特殊可见性
	_, err = env.user.GetProfile(ctx, adminP, bob.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	me, err := env.user.GetMe(ctx, bobP)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", me.Email)
	assert.Equal(t, []uint{recipe.ID}, me.LikedRecipeIDs)
	assert.EqualValues(t, 1, me.FollowingCount)

	_, err = env.user.GetProfile(ctx, nil, 4242)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", false)
	_, adminP := env.newUser(t, "root", false, model.RoleUser, model.RoleAdmin)

	taken := "bob"
	_, err := env.user.UpdateUser(ctx, aliceP, alice.ID, UpdateUserInput{Username: &taken})
	assert.ErrorIs(t, err, model.ErrConflict)

	email := "alice@new.example.com"
	updated, err := env.user.UpdateUser(ctx, aliceP, alice.ID, UpdateUserInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "alice", updated.Username)

	_, err = env.user.UpdateUser(ctx, bobP, alice.ID, UpdateUserInput{Email: &email})
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	name := "robert"
	updated, err = env.user.UpdateUser(ctx, adminP, bob.ID, UpdateUserInput{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.Username)
}

func TestPrivacy(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	_, bobP := env.newUser(t, "bob", false)

	require.NoError(t, env.user.SetPrivacy(ctx, aliceP, alice.ID, true))
	private, err := env.user.GetPrivacy(ctx, aliceP, alice.ID)
	require.NoError(t, err)
	assert.True(t, private)

	_, err = env.user.GetPrivacy(ctx, bobP, alice.ID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	assert.ErrorIs(t, env.user.SetPrivacy(ctx, nil, alice.ID, false), model.ErrUnauthenticated)

	ok, err := env.social.IsProfileAccessible(ctx, alice.ID, bobP)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminOperations(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	_, adminP := env.newUser(t, "root", false, model.RoleUser, model.RoleAdmin)

	_, err := env.user.ListUsers(ctx, aliceP)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	_, err = env.user.ListUsers(ctx, nil)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	users, err := env.user.ListUsers(ctx, adminP)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	created, err := env.user.CreateUser(ctx, adminP, CreateUserInput{
		Username: "mod", Email: "mod@example.com", Password: "modpass", Roles: []model.Role{model.RoleAdmin},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.RoleAdmin}, created.Roles)

	updated, err := env.user.SetRoles(ctx, adminP, alice.ID, []model.Role{model.RoleUser, model.RoleAdmin, model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.RoleUser, model.RoleAdmin}, updated.Roles)
	_, err = env.user.SetRoles(ctx, adminP, alice.ID, nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	got, err := env.user.GetUser(ctx, adminP, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.HasRole(model.RoleAdmin))
}

func TestDeleteUser_Cascades(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	bob, bobP := env.newUser(t, "bob", false)
	_, adminP := env.newUser(t, "root", false, model.RoleUser, model.RoleAdmin)

	require.NoError(t, env.social.Follow(ctx, aliceP, bob.ID))
	require.NoError(t, env.social.Follow(ctx, bobP, alice.ID))
	require.NoError(t, env.social.Block(ctx, bobP, adminP.UserID))

	assert.ErrorIs(t, env.user.DeleteUser(ctx, aliceP, bob.ID), model.ErrAccessDenied)
	require.NoError(t, env.user.DeleteUser(ctx, adminP, bob.ID))

	_, err := env.users.FindByID(ctx, bob.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	following, err := env.social.GetFollowing(ctx, aliceP, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
	followers, err := env.social.GetFollowers(ctx, aliceP, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	assert.ErrorIs(t, env.user.DeleteUser(ctx, adminP, bob.ID), model.ErrNotFound)
}

func TestUploadPicture(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, aliceP := env.newUser(t, "alice", false)
	_, bobP := env.newUser(t, "bob", false)

	data := append(append([]byte{}, jpegHeader...), bytes.Repeat([]byte{0x42}, 64)...)
	url, err := env.user.UploadPicture(ctx, aliceP, alice.ID, data)
	require.NoError(t, err)
	assert.Equal(t, PictureURL(alice.ID), url)
	assert.True(t, strings.HasPrefix(url, "/api/v1/profile-pictures/"))

	got, err := env.user.GetPicture(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = env.user.UploadPicture(ctx, aliceP, alice.ID, []byte("\x89PNG\r\n\x1a\n0000"))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = env.user.UploadPicture(ctx, aliceP, alice.ID, nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	big := append(append([]byte{}, jpegHeader...), make([]byte, MaxPictureSize)...)
	_, err = env.user.UploadPicture(ctx, aliceP, alice.ID, big)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = env.user.UploadPicture(ctx, bobP, alice.ID, data)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	require.NoError(t, env.user.DeletePicture(ctx, aliceP, alice.ID))
	_, err = env.user.GetPicture(ctx, alice.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
