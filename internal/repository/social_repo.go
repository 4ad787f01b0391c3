package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/leon37/Hamhama/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialRepo 关注边与拉黑边。粉丝列表是关注边的反向查询，不单独存储
type SocialRepo interface {
	AddFollow(ctx context.Context, followerID, followingID uint) error
	RemoveFollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]model.UserSummary, error)
	Following(ctx context.Context, userID uint) ([]model.UserSummary, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)

	IsBlocked(ctx context.Context, userID, targetID uint) (bool, error)
	// BlockAndSever 同一事务内写入拉黑边并删除双向关注边
	BlockAndSever(ctx context.Context, userID, targetID uint) error
	// RemoveBlock 返回是否真的删除了一条边
	RemoveBlock(ctx context.Context, userID, targetID uint) (bool, error)
	BlockedUsers(ctx context.Context, userID uint) ([]model.UserSummary, error)
}

type socialRepo struct {
	db *gorm.DB
}

func NewSocialRepo(db *gorm.DB) SocialRepo {
	return &socialRepo{db: db}
}

// AddFollow 重复关注不报错
func (r *socialRepo) AddFollow(ctx context.Context, followerID, followingID uint) error {
	edge := model.Follow{FollowerID: followerID, FollowingID: followingID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

func (r *socialRepo) RemoveFollow(ctx context.Context, followerID, followingID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
}

func (r *socialRepo) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	return n > 0, err
}

func (r *socialRepo) Followers(ctx context.Context, userID uint) ([]model.UserSummary, error) {
	return r.summaries(ctx, "JOIN user_follows ON user_follows.follower_id = users.id", "user_follows.following_id = ?", userID)
}

func (r *socialRepo) Following(ctx context.Context, userID uint) ([]model.UserSummary, error) {
	return r.summaries(ctx, "JOIN user_follows ON user_follows.following_id = users.id", "user_follows.follower_id = ?", userID)
}

func (r *socialRepo) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *socialRepo) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *socialRepo) IsBlocked(ctx context.Context, userID, targetID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("user_id = ? AND blocked_user_id = ?", userID, targetID).
		Count(&n).Error
	return n > 0, err
}

func (r *socialRepo) BlockAndSever(ctx context.Context, userID, targetID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 写入拉黑边，主键冲突说明已拉黑
		if err := tx.Create(&model.Block{UserID: userID, BlockedUserID: targetID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user %d", model.ErrAlreadyBlocked, targetID)
			}
			return err
		}

		// 2. 切断双向关注
		return tx.Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			userID, targetID, targetID, userID).
			Delete(&model.Follow{}).Error
	})
}

func (r *socialRepo) RemoveBlock(ctx context.Context, userID, targetID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND blocked_user_id = ?", userID, targetID).
		Delete(&model.Block{})
	return res.RowsAffected > 0, res.Error
}

func (r *socialRepo) BlockedUsers(ctx context.Context, userID uint) ([]model.UserSummary, error) {
	return r.summaries(ctx, "JOIN blocked_users ON blocked_users.blocked_user_id = users.id", "blocked_users.user_id = ?", userID)
}

func (r *socialRepo) summaries(ctx context.Context, join, where string, userID uint) ([]model.UserSummary, error) {
	out := make([]model.UserSummary, 0)
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.id, users.username, users.is_private").
		Joins(join).
		Where(where, userID).
		Order("users.username").
		Scan(&out).Error
	return out, err
}
