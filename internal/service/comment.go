package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
	"github.com/leon37/Hamhama/internal/repository"
)

const maxCommentLen = 2000

// CommentView 评论 + 作者用户名
type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	RecipeID  uint      `json:"recipe_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCommentView(c *model.Comment, username string) CommentView {
	if c.User != nil {
		username = c.User.Username
	}
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		RecipeID:  c.RecipeID,
		UserID:    c.UserID,
		Username:  username,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CommentService struct {
	commentRepo repository.CommentRepo
	recipeRepo  repository.RecipeRepo
}

func NewCommentService(commentRepo repository.CommentRepo, recipeRepo repository.RecipeRepo) *CommentService {
	return &CommentService{commentRepo: commentRepo, recipeRepo: recipeRepo}
}

func (s *CommentService) Add(ctx context.Context, actor *model.Principal, recipeID uint, content string) (*CommentView, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	content, err := cleanComment(content)
	if err != nil {
		return nil, err
	}
	exists, err := s.recipeRepo.Exists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: recipe %d", model.ErrNotFound, recipeID)
	}

	comment := &model.Comment{Content: content, RecipeID: recipeID, UserID: actor.UserID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	view := toCommentView(comment, actor.Username)
	return &view, nil
}

// ListByRecipe 菜谱不存在时返回空列表
func (s *CommentService) ListByRecipe(ctx context.Context, recipeID uint) ([]CommentView, error) {
	comments, err := s.commentRepo.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, toCommentView(&comments[i], ""))
	}
	return views, nil
}

// Update 只有作者本人可以修改
func (s *CommentService) Update(ctx context.Context, actor *model.Principal, commentID uint, content string) (*CommentView, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	content, err := cleanComment(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: only the author can edit comment %d", model.ErrAccessDenied, commentID)
	}

	comment.Content = content
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	view := toCommentView(comment, actor.Username)
	return &view, nil
}

// Delete 作者或管理员
func (s *CommentService) Delete(ctx context.Context, actor *model.Principal, commentID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := policy.RequireSelfOrRole(actor, comment.UserID, model.RoleAdmin); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func cleanComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: comment must not be empty", model.ErrInvalidArgument)
	}
	if len([]rune(content)) > maxCommentLen {
		return "", fmt.Errorf("%w: comment exceeds %d characters", model.ErrInvalidArgument, maxCommentLen)
	}
	return content, nil
}
