package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/model"
)

const actorKey = "actor"

// Resolver 把 bearer token 解析为请求方，由 service.AuthService 实现
type Resolver interface {
	Authenticate(ctx context.Context, token string) (*model.Principal, bool)
}

// Authenticate 每个请求都经过这里。
// 令牌缺失或无效时按匿名继续，是否拒绝由后面的路由守卫和 service 决定
func Authenticate(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 格式通常是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			slog.Debug("malformed authorization header, continuing as anonymous", "path", c.FullPath())
			c.Next()
			return
		}

		if principal, ok := resolver.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1])); ok {
			c.Set(actorKey, principal)
		}
		c.Next()
	}
}

// Actor 当前请求方，匿名时为 nil
func Actor(c *gin.Context) *model.Principal {
	val, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	p, _ := val.(*model.Principal)
	return p
}

// RequireAuth 需要登录
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Actor(c) == nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthenticated, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireRole 需要持有指定角色
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthenticated, "authentication required")
			return
		}
		if !actor.HasRole(role) {
			response.Abort(c, http.StatusForbidden, response.CodeAccessDenied, "role "+string(role)+" required")
			return
		}
		c.Next()
	}
}
