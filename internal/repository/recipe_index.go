package repository

import (
	"context"

	"github.com/leon37/Hamhama/internal/model"
)

// RecipeHit 语义搜索命中
type RecipeHit struct {
	RecipeID uint
	Score    float32
}

// RecipeIndex 菜谱向量索引，实现见 infrastructure/vectordb
type RecipeIndex interface {
	Upsert(ctx context.Context, recipe *model.Recipe, vector []float32) error
	Search(ctx context.Context, vector []float32, limit int, category model.RecipeCategory) ([]RecipeHit, error)
	Delete(ctx context.Context, recipeIDs []uint) error
}
