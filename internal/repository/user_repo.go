package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/leon37/Hamhama/internal/model"
	"gorm.io/gorm"
)

// UserRepo 账户持久化接口
type UserRepo interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	// Delete 级联删除，返回被删除的该用户上传的菜谱 ID
	Delete(ctx context.Context, id uint) ([]uint, error)
	List(ctx context.Context) ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", username))
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user with email")
	}
	return &user, nil
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "username or email already taken")
}

func (r *userRepo) Save(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "username or email already taken")
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// Delete 在一个事务里删除用户及所有指向/来自该用户的边，以及其上传的菜谱
func (r *userRepo) Delete(ctx context.Context, id uint) ([]uint, error) {
	var recipeIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 确认存在
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			return translate(err, fmt.Sprintf("user %d", id))
		}

		// 2. 社交边
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR blocked_user_id = ?", id, id).Delete(&model.Block{}).Error; err != nil {
			return err
		}

		// 3. 用户自己的点赞、评论、评分
		if err := tx.Where("user_id = ?", id).Delete(&model.RecipeLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		var ratedRecipeIDs []uint
		if err := tx.Model(&model.Rating{}).Where("user_id = ?", id).Pluck("recipe_id", &ratedRecipeIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}

		// 4. 上传的菜谱及其依附数据
		if err := tx.Model(&model.Recipe{}).Where("user_id = ?", id).Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		if err := deleteRecipes(tx, recipeIDs); err != nil {
			return err
		}

		// 5. 被删掉评分的其他菜谱需要重算平均分
		for _, rid := range ratedRecipeIDs {
			if slices.Contains(recipeIDs, rid) {
				continue
			}
			if _, err := recomputeAverage(tx, rid); err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return recipeIDs, nil
}

func deleteRecipes(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("recipe_id IN ?", ids).Delete(&model.RecipeLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id IN ?", ids).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id IN ?", ids).Delete(&model.Rating{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Recipe{}).Error
}
