package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/leon37/Hamhama/internal/auth"
	"github.com/leon37/Hamhama/internal/infrastructure/events"
	"github.com/leon37/Hamhama/internal/infrastructure/storage"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/repository"
	"github.com/leon37/Hamhama/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.SocialEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.SocialEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepo
	socials   repository.SocialRepo
	recipes   repository.RecipeRepo
	tokens    *auth.TokenService
	publisher *recordingPublisher

	auth    *AuthService
	social  *SocialService
	user    *UserService
	recipe  *RecipeService
	comment *CommentService
	rating  *RatingService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepo(db),
		socials:   repository.NewSocialRepo(db),
		recipes:   repository.NewRecipeRepo(db),
		tokens:    auth.NewTokenService("test-secret", time.Hour),
		publisher: &recordingPublisher{},
	}
	env.auth = NewAuthService(env.users, env.tokens)
	env.social = NewSocialService(env.users, env.socials, env.publisher)
	env.user = NewUserService(env.users, env.socials, env.recipes, env.social, store, nil)
	env.recipe = NewRecipeService(env.recipes, nil, nil)
	env.comment = NewCommentService(repository.NewCommentRepo(db), env.recipes)
	env.rating = NewRatingService(repository.NewRatingRepo(db), env.recipes)
	return env
}

// newUser 落库并返回对应的请求方
func (e *testEnv) newUser(t *testing.T, name string, private bool, roles ...model.Role) (*model.User, *model.Principal) {
	t.Helper()
	u := testutil.CreateUser(t, e.db, name, private, roles...)
	return u, u.Principal()
}

func ids(list []model.UserSummary) []uint {
	out := make([]uint, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}
