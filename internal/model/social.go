package model

import "time"

// Follow 有向关注边 follower -> following
type Follow struct {
	FollowerID  uint      `gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt   time.Time
}

func (Follow) TableName() string {
	return "user_follows"
}

// Block 有向拉黑边 user -> blocked_user
type Block struct {
	UserID        uint      `gorm:"primaryKey;autoIncrement:false"`
	BlockedUserID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt     time.Time
}

func (Block) TableName() string {
	return "blocked_users"
}

// RecipeLike 用户点赞的菜谱
type RecipeLike struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	RecipeID  uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (RecipeLike) TableName() string {
	return "user_likes"
}

// UserSummary 关注/粉丝/黑名单列表里展示的精简信息
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	IsPrivate bool   `json:"is_private"`
}

// UserProfile 个人主页
type UserProfile struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"` // 仅本人或管理员可见
	IsPrivate      bool   `json:"is_private"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
	LikedRecipeIDs []uint `json:"liked_recipe_ids"`
	PictureURL     string `json:"picture_url,omitempty"`
}
