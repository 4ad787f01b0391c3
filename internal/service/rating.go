package service

import (
	"context"
	"fmt"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/policy"
	"github.com/leon37/Hamhama/internal/repository"
)

// RatingSummary 评分汇总
type RatingSummary struct {
	RecipeID   uint    `json:"recipe_id"`
	Average    float64 `json:"average"`
	Count      int64   `json:"count"`
	YourRating int     `json:"your_rating,omitempty"`
}

type RatingService struct {
	ratingRepo repository.RatingRepo
	recipeRepo repository.RecipeRepo
}

func NewRatingService(ratingRepo repository.RatingRepo, recipeRepo repository.RecipeRepo) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, recipeRepo: recipeRepo}
}

// Rate 1~5 分，每人每菜谱一条，重复评分覆盖
func (s *RatingService) Rate(ctx context.Context, actor *model.Principal, recipeID uint, value int) (*RatingSummary, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if value < model.MinRating || value > model.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", model.ErrInvalidArgument, model.MinRating, model.MaxRating)
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	rating, _, err := s.ratingRepo.Rate(ctx, actor.UserID, recipeID, value)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.ratingRepo.Average(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{RecipeID: recipeID, Average: avg, Count: count, YourRating: rating.Value}, nil
}

// Average 公开的平均分
func (s *RatingService) Average(ctx context.Context, recipeID uint) (*RatingSummary, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	avg, count, err := s.ratingRepo.Average(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{RecipeID: recipeID, Average: avg, Count: count}, nil
}

// Remove 删除自己的评分
func (s *RatingService) Remove(ctx context.Context, actor *model.Principal, recipeID uint) (*RatingSummary, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	removed, _, err := s.ratingRepo.Remove(ctx, actor.UserID, recipeID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, fmt.Errorf("%w: no rating for recipe %d", model.ErrNotFound, recipeID)
	}
	avg, count, err := s.ratingRepo.Average(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{RecipeID: recipeID, Average: avg, Count: count}, nil
}

func (s *RatingService) requireRecipe(ctx context.Context, id uint) error {
	exists, err := s.recipeRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: recipe %d", model.ErrNotFound, id)
	}
	return nil
}
