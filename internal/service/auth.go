package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leon37/Hamhama/internal/auth"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
	"github.com/leon37/Hamhama/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
)

type AuthService struct {
	userRepo repository.UserRepo
	tokens   *auth.TokenService
}

func NewAuthService(userRepo repository.UserRepo, tokens *auth.TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	UserID    uint         `json:"user_id"`
	Username  string       `json:"username"`
	Roles     []model.Role `json:"roles"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Register 注册，角色默认为 USER，主页默认公开
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	return createUser(ctx, s.userRepo, in.Username, in.Email, in.Password, nil)
}

// Login 校验账号密码，颁发令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	// 1. 查用户，不存在和密码错误返回同一个错误
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. 比对密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// 3. 生成令牌
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Roles:     user.Roles,
		ExpiresAt: time.Now().Add(s.tokens.TTL()),
	}, nil
}

// Authenticate 把令牌解析为请求方。任何失败都视为匿名，不向上抛错
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Principal, bool) {
	// 1. 解出用户名
	username, err := s.tokens.ExtractSubject(token)
	if err != nil {
		slog.Debug("bearer token rejected", "err", err)
		return nil, false
	}

	// 2. 查用户
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		slog.Debug("token subject not resolvable", "username", username, "err", err)
		return nil, false
	}

	// 3. 校验签名、过期时间和主体
	if !s.tokens.Validate(token, user) {
		return nil, false
	}
	return user.Principal(), true
}

// ChangePassword 本人修改密码，需要旧密码
func (s *AuthService) ChangePassword(ctx context.Context, actor *model.Principal, oldPassword, newPassword string) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return model.ErrInvalidCredentials
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.userRepo.Save(ctx, user)
}

// EnsureAdmin 启动时保证管理员账号存在，已存在时只补齐 ADMIN 角色
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, model.ErrNotFound):
		_, err = createUser(ctx, s.userRepo, username, email, password, []model.Role{model.RoleUser, model.RoleAdmin})
		if err == nil {
			slog.Info("admin account created", "username", username)
		}
		return err
	case err != nil:
		return err
	}

	if user.HasRole(model.RoleAdmin) {
		return nil
	}
	user.Roles = append(user.Roles, model.RoleAdmin)
	slog.Info("admin role granted", "username", username)
	return s.userRepo.Save(ctx, user)
}

// createUser 注册和管理员创建共用
func createUser(ctx context.Context, repo repository.UserRepo, username, email, password string, roles []model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 1. 校验
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = []model.Role{model.RoleUser}
	}

	// 2. 唯一性，DB 唯一索引兜底并发
	if exists, err := repo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: username %q is taken", model.ErrConflict, username)
	}
	if exists, err := repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: email is already registered", model.ErrConflict)
	}

	// 3. 密码加密
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	// 4. 落库
	user := &model.User{
		Username: username,
		Email:    email,
		Password: hash,
		Roles:    roles,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("%w: password must be at least 6 characters", model.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}
	return string(hash), nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", model.ErrInvalidArgument, minUsernameLen, maxUsernameLen)
	}
	return nil
}

func validateEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid email", model.ErrInvalidArgument)
	}
	return nil
}
