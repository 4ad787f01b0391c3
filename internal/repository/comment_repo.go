package repository

import (
	"context"
	"fmt"

	"github.com/leon37/Hamhama/internal/model"
	"gorm.io/gorm"
)

type CommentRepo interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByRecipe(ctx context.Context, recipeID uint) ([]model.Comment, error)
	Save(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Create(comment).Error
}

func (r *commentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("comment %d", id))
	}
	return &c, nil
}

// ListByRecipe 按时间正序，预加载作者
func (r *commentRepo) ListByRecipe(ctx context.Context, recipeID uint) ([]model.Comment, error) {
	comments := make([]model.Comment, 0)
	err := r.db.WithContext(ctx).Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepo) Save(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Save(comment).Error
}

func (r *commentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
