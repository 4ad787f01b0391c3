package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/leon37/Hamhama/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter 菜谱列表筛选条件
type RecipeFilter struct {
	Name       string
	Category   model.RecipeCategory
	Ingredient string
	Page       int
	PageSize   int
}

// RecipeRepo 菜谱目录只读访问 + 点赞 + 评分均值维护
type RecipeRepo interface {
	FindByID(ctx context.Context, id uint) (*model.Recipe, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter RecipeFilter) ([]model.Recipe, int64, error)
	// EachBatch 分批遍历全部菜谱 (离线索引用)
	EachBatch(ctx context.Context, size int, fn func([]model.Recipe) error) error

	AddLike(ctx context.Context, userID, recipeID uint) error
	RemoveLike(ctx context.Context, userID, recipeID uint) error
	LikedRecipeIDs(ctx context.Context, userID uint) ([]uint, error)
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepo {
	return &recipeRepo{db: db}
}

func (r *recipeRepo) FindByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").First(&recipe, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("recipe %d", id))
	}
	return &recipe, nil
}

// FindByIDs 结果顺序与 ids 一致，不存在的 id 直接跳过
func (r *recipeRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return []model.Recipe{}, nil
	}
	var found []model.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Recipe, len(found))
	for _, rc := range found {
		byID[rc.ID] = rc
	}
	out := make([]model.Recipe, 0, len(found))
	for _, id := range ids {
		if rc, ok := byID[id]; ok {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (r *recipeRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *recipeRepo) List(ctx context.Context, filter RecipeFilter) ([]model.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{})

	// 1. 组装条件
	if name := strings.TrimSpace(filter.Name); name != "" {
		like := "%" + strings.ToLower(name) + "%"
		query = query.Where("(LOWER(recipes.name) LIKE ? OR LOWER(recipes.description) LIKE ?)", like, like)
	}
	if filter.Category != "" {
		query = query.Where("recipes.category = ?", filter.Category)
	}
	if ing := strings.TrimSpace(filter.Ingredient); ing != "" {
		sub := r.db.Table("recipe_ingredients").
			Select("recipe_ingredients.recipe_id").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Where("LOWER(ingredients.name) LIKE ?", "%"+strings.ToLower(ing)+"%")
		query = query.Where("recipes.id IN (?)", sub)
	}

	// 2. 总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 3. 分页
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	recipes := make([]model.Recipe, 0)
	err := query.Preload("Ingredients").
		Order("recipes.id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&recipes).Error
	return recipes, total, err
}

func (r *recipeRepo) EachBatch(ctx context.Context, size int, fn func([]model.Recipe) error) error {
	var batch []model.Recipe
	res := r.db.WithContext(ctx).Preload("Ingredients").FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return res.Error
}

func (r *recipeRepo) AddLike(ctx context.Context, userID, recipeID uint) error {
	like := model.RecipeLike{UserID: userID, RecipeID: recipeID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

func (r *recipeRepo) RemoveLike(ctx context.Context, userID, recipeID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.RecipeLike{}).Error
}

func (r *recipeRepo) LikedRecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).Model(&model.RecipeLike{}).
		Where("user_id = ?", userID).
		Order("recipe_id").
		Pluck("recipe_id", &ids).Error
	return ids, err
}
