package repository

import (
	"context"
	"errors"

	"github.com/leon37/Hamhama/internal/model"
	"gorm.io/gorm"
)

type RatingRepo interface {
	// Rate 写入或覆盖评分，并在同一事务里重算菜谱平均分
	Rate(ctx context.Context, userID, recipeID uint, value int) (*model.Rating, float64, error)
	// Remove 删除评分并重算，返回是否存在过
	Remove(ctx context.Context, userID, recipeID uint) (bool, float64, error)
	Average(ctx context.Context, recipeID uint) (float64, int64, error)
}

type ratingRepo struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &ratingRepo{db: db}
}

func (r *ratingRepo) Rate(ctx context.Context, userID, recipeID uint, value int) (*model.Rating, float64, error) {
	var rating model.Rating
	var avg float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = model.Rating{UserID: userID, RecipeID: recipeID, Value: value}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			rating.Value = value
			if err := tx.Save(&rating).Error; err != nil {
				return err
			}
		}

		avg, err = recomputeAverage(tx, recipeID)
		return err
	})
	if err != nil {
		return nil, 0, translate(err, "rating")
	}
	return &rating, avg, nil
}

func (r *ratingRepo) Remove(ctx context.Context, userID, recipeID uint) (bool, float64, error) {
	var removed bool
	var avg float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.Rating{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		var err error
		avg, err = recomputeAverage(tx, recipeID)
		return err
	})
	return removed, avg, err
}

func (r *ratingRepo) Average(ctx context.Context, recipeID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(rating_value), 0) AS avg, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}

// recomputeAverage 重新计算并回写菜谱平均分
func recomputeAverage(tx *gorm.DB, recipeID uint) (float64, error) {
	var avg float64
	if err := tx.Model(&model.Rating{}).
		Select("COALESCE(AVG(rating_value), 0)").
		Where("recipe_id = ?", recipeID).
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	err := tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Update("average_rating", avg).Error
	return avg, err
}
