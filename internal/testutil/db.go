// Package testutil 测试用的公共夹具
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/leon37/Hamhama/internal/config"
	"github.com/leon37/Hamhama/internal/infrastructure/database"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB 每个测试独立的内存 SQLite，已建表
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewConnection(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, false)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser 直接落库一个用户，密码为 "password"
func CreateUser(t testing.TB, db *gorm.DB, username string, private bool, roles ...model.Role) *model.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []model.Role{model.RoleUser}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  string(hash),
		Roles:     roles,
		IsPrivate: private,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

// CreateRecipe 模拟批量导入写入的菜谱
func CreateRecipe(t testing.TB, db *gorm.DB, ownerID uint, name string, category model.RecipeCategory, ingredients ...string) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		Name:        name,
		Description: "A recipe for " + name,
		Category:    category,
		UserID:      ownerID,
	}
	for _, ing := range ingredients {
		var in model.Ingredient
		require.NoError(t, db.Where(model.Ingredient{Name: ing}).FirstOrCreate(&in).Error)
		recipe.Ingredients = append(recipe.Ingredients, in)
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
