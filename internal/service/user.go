package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leon37/Hamhama/internal/infrastructure/storage"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
	"github.com/leon37/Hamhama/internal/repository"
)

// MaxPictureSize 头像上限 5MB
const MaxPictureSize = 5 << 20

// PictureURL 头像的公开下载地址
func PictureURL(userID uint) string {
	return fmt.Sprintf("/api/v1/profile-pictures/%d", userID)
}

func pictureKey(userID uint) string {
	return fmt.Sprintf("%d.jpg", userID)
}

type UserService struct {
	userRepo   repository.UserRepo
	socialRepo repository.SocialRepo
	recipeRepo repository.RecipeRepo
	social     *SocialService
	store      storage.Store
	index      repository.RecipeIndex // 可为 nil
}

func NewUserService(
	userRepo repository.UserRepo,
	socialRepo repository.SocialRepo,
	recipeRepo repository.RecipeRepo,
	social *SocialService,
	store storage.Store,
	index repository.RecipeIndex,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		socialRepo: socialRepo,
		recipeRepo: recipeRepo,
		social:     social,
		store:      store,
		index:      index,
	}
}

// ==========================================
// 管理员操作
// ==========================================

func (s *UserService) ListUsers(ctx context.Context, actor *model.Principal) ([]model.User, error) {
	if err := policy.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, actor *model.Principal, id uint) (*model.User, error) {
	if err := policy.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

// CreateUserInput 管理员创建用户
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Roles    []model.Role
}

func (s *UserService) CreateUser(ctx context.Context, actor *model.Principal, in CreateUserInput) (*model.User, error) {
	if err := policy.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return createUser(ctx, s.userRepo, in.Username, in.Email, in.Password, in.Roles)
}

// DeleteUser 级联删除用户，随后异步清理向量索引和头像
func (s *UserService) DeleteUser(ctx context.Context, actor *model.Principal, id uint) error {
	if err := policy.RequireRole(actor, model.RoleAdmin); err != nil {
		return err
	}
	recipeIDs, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	slog.Info("user deleted", "id", id, "by", actor.UserID, "recipes", len(recipeIDs))

	go func() {
		// 请求结束后 ctx 会被取消，这里用新的 context
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if s.index != nil && len(recipeIDs) > 0 {
			if err := s.index.Delete(bgCtx, recipeIDs); err != nil {
				slog.Error("failed to drop recipe vectors", "user", id, "error", err)
			}
		}
		if err := s.store.Delete(bgCtx, pictureKey(id)); err != nil {
			slog.Error("failed to delete profile picture", "user", id, "error", err)
		}
	}()
	return nil
}

// SetRoles 替换用户的角色集合，不能为空
func (s *UserService) SetRoles(ctx context.Context, actor *model.Principal, id uint, roles []model.Role) (*model.User, error) {
	if err := policy.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: role set must not be empty", model.ErrInvalidArgument)
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = dedupeRoles(roles)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ==========================================
// 本人或管理员
// ==========================================

// UpdateUserInput 为 nil 的字段不修改
type UpdateUserInput struct {
	Username *string
	Email    *string
}

func (s *UserService) UpdateUser(ctx context.Context, actor *model.Principal, id uint, in UpdateUserInput) (*model.User, error) {
	if err := policy.RequireSelfOrRole(actor, id, model.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != user.Username {
			if err := validateUsername(username); err != nil {
				return nil, err
			}
			if exists, err := s.userRepo.ExistsByUsername(ctx, username); err != nil {
				return nil, err
			} else if exists {
				return nil, fmt.Errorf("%w: username %q is taken", model.ErrConflict, username)
			}
			user.Username = username
		}
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			if err := validateEmail(email); err != nil {
				return nil, err
			}
			if exists, err := s.userRepo.ExistsByEmail(ctx, email); err != nil {
				return nil, err
			} else if exists {
				return nil, fmt.Errorf("%w: email is already registered", model.ErrConflict)
			}
			user.Email = email
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetPrivacy(ctx context.Context, actor *model.Principal, id uint) (bool, error) {
	if err := policy.RequireSelfOrRole(actor, id, model.RoleAdmin); err != nil {
		return false, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsPrivate, nil
}

func (s *UserService) SetPrivacy(ctx context.Context, actor *model.Principal, id uint, private bool) error {
	if err := policy.RequireSelfOrRole(actor, id, model.RoleAdmin); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsPrivate = private
	return s.userRepo.Save(ctx, user)
}

// ==========================================
// 主页
// ==========================================

// GetProfile 先过可见性判定，再组装主页数据
func (s *UserService) GetProfile(ctx context.Context, actor *model.Principal, id uint) (*model.UserProfile, error) {
	// 1. 可见性
	owner, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.social.canView(ctx, owner, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: profile of user %d is private", model.ErrAccessDenied, id)
	}

	// 2. 组装
	followers, err := s.socialRepo.CountFollowers(ctx, id)
	if err != nil {
		return nil, err
	}
	following, err := s.socialRepo.CountFollowing(ctx, id)
	if err != nil {
		return nil, err
	}
	liked, err := s.recipeRepo.LikedRecipeIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		ID:             owner.ID,
		Username:       owner.Username,
		IsPrivate:      owner.IsPrivate,
		FollowersCount: followers,
		FollowingCount: following,
		LikedRecipeIDs: liked,
		PictureURL:     PictureURL(owner.ID),
	}
	// 邮箱只给本人和管理员看
	if actor.IsUser(owner.ID) || actor.HasRole(model.RoleAdmin) {
		profile.Email = owner.Email
	}
	return profile, nil
}

// GetMe 当前登录用户自己的主页
func (s *UserService) GetMe(ctx context.Context, actor *model.Principal) (*model.UserProfile, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, actor, actor.UserID)
}

// ==========================================
// 头像
// ==========================================

// UploadPicture 只接受 JPEG，最大 5MB
func (s *UserService) UploadPicture(ctx context.Context, actor *model.Principal, id uint, data []byte) (string, error) {
	if err := policy.RequireSelfOrRole(actor, id, model.RoleAdmin); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", model.ErrInvalidArgument)
	}
	if len(data) > MaxPictureSize {
		return "", fmt.Errorf("%w: picture exceeds 5MB", model.ErrInvalidArgument)
	}
	if ct := http.DetectContentType(data); ct != "image/jpeg" {
		return "", fmt.Errorf("%w: only JPEG pictures are accepted, got %s", model.ErrInvalidArgument, ct)
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return "", err
	}

	if err := s.store.Put(ctx, pictureKey(id), data, "image/jpeg"); err != nil {
		return "", err
	}
	return PictureURL(id), nil
}

func (s *UserService) DeletePicture(ctx context.Context, actor *model.Principal, id uint) error {
	if err := policy.RequireSelfOrRole(actor, id, model.RoleAdmin); err != nil {
		return err
	}
	return s.store.Delete(ctx, pictureKey(id))
}

// GetPicture 公开读取
func (s *UserService) GetPicture(ctx context.Context, id uint) ([]byte, error) {
	return s.store.Get(ctx, pictureKey(id))
}

func dedupeRoles(roles []model.Role) []model.Role {
	out := make([]model.Role, 0, len(roles))
	seen := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
