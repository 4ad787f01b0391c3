package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// Cors 只对配置里的 Origin 放行，列表里有 "*" 时放行所有来源
func Cors(allowedOrigins []string) gin.HandlerFunc {
	allowAll := slices.Contains(allowedOrigins, "*")

	return func(c *gin.Context) {
		method := c.Request.Method
		origin := c.Request.Header.Get("Origin")

		// 1. 设置允许的 Origin
		switch {
		case origin == "":
			// 非浏览器请求，不需要 CORS 头
		case allowAll || slices.Contains(allowedOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		// 2. 设置其他允许的 Header
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")

		// 3. OPTIONS 预检直接返回 204
		if method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
