package model

import "time"

// RecipeCategory 菜谱分类
type RecipeCategory string

const (
	CategoryVegetarian    RecipeCategory = "VEGETARIAN"
	CategoryNonVegetarian RecipeCategory = "NON_VEGETARIAN"
	CategoryHighProtein   RecipeCategory = "HIGH_PROTEIN"
	CategoryLowCarb       RecipeCategory = "LOW_CARB"
)

var RecipeCategories = []RecipeCategory{
	CategoryVegetarian,
	CategoryNonVegetarian,
	CategoryHighProtein,
	CategoryLowCarb,
}

// Recipe 菜谱目录。数据由批量导入写入，本服务只读并维护评分
type Recipe struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Category      RecipeCategory `gorm:"type:varchar(32);index" json:"category"`
	UserID        uint           `gorm:"index" json:"user_id"` // 上传者
	AverageRating float64        `gorm:"not null;default:0" json:"average_rating"`
	Ingredients   []Ingredient   `gorm:"many2many:recipe_ingredients" json:"ingredients,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient 食材
type Ingredient struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Comment 菜谱评论
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	RecipeID  uint      `gorm:"not null;index" json:"recipe_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Rating 每个用户对每个菜谱最多一条评分
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     int       `gorm:"column:rating_value;not null" json:"value"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_rating_user_recipe" json:"recipe_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_user_recipe" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

const (
	MinRating = 1
	MaxRating = 5
)
