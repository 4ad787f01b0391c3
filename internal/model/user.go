package model

import "time"

// User 账户实体。社交关系 (关注/拉黑/点赞) 以边表存储，不挂在实体上
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Roles     []Role    `gorm:"type:varchar(64);not null;serializer:json" json:"roles"`
	IsPrivate bool      `gorm:"not null;default:false" json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasRole 判断是否持有某个角色
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal 生成请求级别的身份投影
func (u *User) Principal() *Principal {
	return &Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Authorities: Authorities(u.Roles),
	}
}
