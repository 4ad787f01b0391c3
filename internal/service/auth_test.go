package service

import (
	"context"
	"testing"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Defaults(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterInput{Username: "  alice ", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []model.Role{model.RoleUser}, user.Roles)
	assert.False(t, user.IsPrivate)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, model.ErrConflict)
	_, err = env.auth.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"short username", RegisterInput{Username: "al", Email: "a@example.com", Password: "secret1"}},
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@example.com", Password: "123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tc.in)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, _ := env.newUser(t, "alice", false)

	res, err := env.auth.Login(ctx, "alice", "password")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.UserID)
	assert.NotEmpty(t, res.Token)

	_, err = env.auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "nobody", "password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice, _ := env.newUser(t, "alice", false, model.RoleUser, model.RoleAdmin)

	res, err := env.auth.Login(ctx, "alice", "password")
	require.NoError(t, err)

	p, ok := env.auth.Authenticate(ctx, res.Token)
	require.True(t, ok)
	assert.Equal(t, alice.ID, p.UserID)
	assert.True(t, p.HasRole(model.RoleAdmin))

	for _, token := range []string{"", "garbage", res.Token + "x"} {
		p, ok := env.auth.Authenticate(ctx, token)
		assert.False(t, ok)
		assert.Nil(t, p)
	}

	// 改名后旧令牌的主体解析不到用户
	newName := "alice_renamed"
	_, err = env.user.UpdateUser(ctx, alice.Principal(), alice.ID, UpdateUserInput{Username: &newName})
	require.NoError(t, err)
	_, ok = env.auth.Authenticate(ctx, res.Token)
	assert.False(t, ok)
}

func TestChangePassword(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	_, aliceP := env.newUser(t, "alice", false)

	assert.ErrorIs(t, env.auth.ChangePassword(ctx, aliceP, "nope", "newpass1"), model.ErrInvalidCredentials)
	require.NoError(t, env.auth.ChangePassword(ctx, aliceP, "password", "newpass1"))

	_, err := env.auth.Login(ctx, "alice", "newpass1")
	require.NoError(t, err)
	assert.ErrorIs(t, env.auth.ChangePassword(ctx, nil, "a", "b"), model.ErrUnauthenticated)
}

func TestEnsureAdmin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.EnsureAdmin(ctx, "root", "root@example.com", "rootpass"))
	require.NoError(t, env.auth.EnsureAdmin(ctx, "root", "root@example.com", "rootpass"))
	root, err := env.users.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, root.HasRole(model.RoleAdmin))

	env.newUser(t, "bob", false)
	require.NoError(t, env.auth.EnsureAdmin(ctx, "bob", "bob@example.com", "ignored"))
	bob, err := env.users.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Role{model.RoleUser, model.RoleAdmin}, bob.Roles)
}
