package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/leon37/Hamhama/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_SQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := NewConnection(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1}, false)
	require.NoError(t, err)

	for _, table := range []string{"users", "user_follows", "blocked_users", "user_likes", "recipes", "recipe_ingredients", "comments", "ratings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := NewConnection(config.DatabaseConfig{Driver: "oracle"}, false)
	assert.ErrorContains(t, err, "unsupported database driver")
}
