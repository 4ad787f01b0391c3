package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leon37/Hamhama/internal/infrastructure/embedding"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
	"github.com/leon37/Hamhama/internal/repository"
)

const maxSearchLimit = 50

// RecipeMatch 语义搜索结果
type RecipeMatch struct {
	Recipe model.Recipe `json:"recipe"`
	Score  float32      `json:"score"`
}

// RecipeService 菜谱目录读取、点赞和语义搜索
type RecipeService struct {
	recipeRepo repository.RecipeRepo
	embedder   embedding.Provider     // 可为 nil
	index      repository.RecipeIndex // 可为 nil
}

func NewRecipeService(recipeRepo repository.RecipeRepo, embedder embedding.Provider, index repository.RecipeIndex) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		embedder:   embedder,
		index:      index,
	}
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	return s.recipeRepo.FindByID(ctx, id)
}

func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter) ([]model.Recipe, int64, error) {
	if filter.Category != "" {
		if err := validateCategory(filter.Category); err != nil {
			return nil, 0, err
		}
	}
	return s.recipeRepo.List(ctx, filter)
}

// Like 点赞，重复点赞幂等
func (s *RecipeService) Like(ctx context.Context, actor *model.Principal, recipeID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	return s.recipeRepo.AddLike(ctx, actor.UserID, recipeID)
}

func (s *RecipeService) Unlike(ctx context.Context, actor *model.Principal, recipeID uint) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	return s.recipeRepo.RemoveLike(ctx, actor.UserID, recipeID)
}

// LikedRecipes 当前用户点赞过的菜谱
func (s *RecipeService) LikedRecipes(ctx context.Context, actor *model.Principal) ([]model.Recipe, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	ids, err := s.recipeRepo.LikedRecipeIDs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.recipeRepo.FindByIDs(ctx, ids)
}

// SearchSimilar 语义搜索：向量化查询词 -> Qdrant 检索 -> 回表
func (s *RecipeService) SearchSimilar(ctx context.Context, query string, limit int, category model.RecipeCategory) ([]RecipeMatch, error) {
	if s.index == nil || s.embedder == nil {
		return nil, fmt.Errorf("%w: semantic search is not configured", model.ErrUnavailable)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", model.ErrInvalidArgument)
	}
	if category != "" {
		if err := validateCategory(category); err != nil {
			return nil, err
		}
	}
	if limit < 1 || limit > maxSearchLimit {
		limit = 10
	}

	// 1. 向量化
	vector, err := s.embedder.GetVector(ctx, query)
	if err != nil {
		slog.Error("embed query failed", "error", err)
		return nil, fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}

	// 2. 检索
	hits, err := s.index.Search(ctx, vector, limit, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}

	// 3. 回表，索引里可能残留已删除的菜谱，直接跳过
	ids := make([]uint, 0, len(hits))
	scores := make(map[uint]float32, len(hits))
	for _, h := range hits {
		ids = append(ids, h.RecipeID)
		scores[h.RecipeID] = h.Score
	}
	recipes, err := s.recipeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	matches := make([]RecipeMatch, 0, len(recipes))
	for _, r := range recipes {
		matches = append(matches, RecipeMatch{Recipe: r, Score: scores[r.ID]})
	}
	return matches, nil
}

// Reindex 全量重建向量索引，返回成功写入的条数。单条失败只记日志
func (s *RecipeService) Reindex(ctx context.Context, batchSize int) (int, error) {
	if s.index == nil || s.embedder == nil {
		return 0, fmt.Errorf("%w: semantic search is not configured", model.ErrUnavailable)
	}
	indexed := 0
	err := s.recipeRepo.EachBatch(ctx, batchSize, func(batch []model.Recipe) error {
		for i := range batch {
			recipe := &batch[i]
			vector, err := s.embedder.GetVector(ctx, recipeText(recipe))
			if err != nil {
				slog.Error("failed to embed recipe", "id", recipe.ID, "error", err)
				continue
			}
			if err := s.index.Upsert(ctx, recipe, vector); err != nil {
				slog.Error("failed to index recipe", "id", recipe.ID, "error", err)
				continue
			}
			indexed++
		}
		slog.Info("reindex progress", "indexed", indexed)
		return ctx.Err()
	})
	return indexed, err
}

func (s *RecipeService) requireRecipe(ctx context.Context, id uint) error {
	exists, err := s.recipeRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: recipe %d", model.ErrNotFound, id)
	}
	return nil
}

// recipeText 用于向量化的菜谱文本
func recipeText(recipe *model.Recipe) string {
	names := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		names = append(names, ing.Name)
	}
	return fmt.Sprintf("%s\n%s\ncategory: %s\ningredients: %s",
		recipe.Name, recipe.Description, recipe.Category, strings.Join(names, ", "))
}

func validateCategory(c model.RecipeCategory) error {
	for _, known := range model.RecipeCategories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown category %q", model.ErrInvalidArgument, c)
}
