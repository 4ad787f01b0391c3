package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/controller"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/model"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/leon37/Hamhama/docs"
)

// Controllers 路由需要的全部 controller
type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Admin      *controller.AdminController
	Recipe     *controller.RecipeController
	Comment    *controller.CommentController
	Rating     *controller.RatingController
	Substitute *controller.SubstituteController
}

// Options 中间件参数
type Options struct {
	CorsOrigins []string
	Resolver    middleware.Resolver
	AuthLimiter *middleware.IPRateLimiter // 为 nil 时不限流
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, ctrls Controllers, opts Options) {
	r.Use(middleware.RequestID(), middleware.Cors(opts.CorsOrigins), middleware.Authenticate(opts.Resolver))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// 公开接口，匿名也可以访问，可见性由 service 判定
	authGroup := v1.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(opts.AuthLimiter.Middleware())
	}
	{
		authGroup.POST("/register", ctrls.Auth.Register)
		authGroup.POST("/login", ctrls.Auth.Login)
	}
	v1.GET("/recipes", ctrls.Recipe.List)
	v1.GET("/recipes/search", ctrls.Recipe.Search)
	v1.GET("/recipes/:id", ctrls.Recipe.Get)
	v1.GET("/recipes/:id/comments", ctrls.Comment.List)
	v1.GET("/recipes/:id/rating", ctrls.Rating.Get)
	v1.GET("/users/:id/profile", ctrls.User.Profile)
	v1.GET("/users/:id/followers", ctrls.User.Followers)
	v1.GET("/users/:id/following", ctrls.User.Following)
	v1.GET("/profile-pictures/:id", ctrls.User.GetPicture)

	// 需要登录；本人或管理员的校验在 service 里
	protected := v1.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/me", ctrls.User.Me)
		protected.PUT("/me/password", ctrls.Auth.ChangePassword)
		protected.GET("/me/likes", ctrls.Recipe.Liked)

		protected.PUT("/users/:id", ctrls.User.Update)
		protected.POST("/users/:id/follow", ctrls.User.Follow)
		protected.DELETE("/users/:id/follow", ctrls.User.Unfollow)
		protected.POST("/users/:id/block", ctrls.User.Block)
		protected.DELETE("/users/:id/block", ctrls.User.Unblock)
		protected.GET("/users/:id/blocked", ctrls.User.Blocked)
		protected.GET("/users/:id/privacy", ctrls.User.GetPrivacy)
		protected.PUT("/users/:id/privacy", ctrls.User.SetPrivacy)
		protected.PUT("/users/:id/picture", ctrls.User.UploadPicture)
		protected.DELETE("/users/:id/picture", ctrls.User.DeletePicture)

		protected.POST("/recipes/:id/like", ctrls.Recipe.Like)
		protected.DELETE("/recipes/:id/like", ctrls.Recipe.Unlike)
		protected.POST("/recipes/:id/comments", ctrls.Comment.Create)
		protected.PUT("/comments/:id", ctrls.Comment.Update)
		protected.DELETE("/comments/:id", ctrls.Comment.Delete)
		protected.PUT("/recipes/:id/rating", ctrls.Rating.Rate)
		protected.DELETE("/recipes/:id/rating", ctrls.Rating.Remove)

		protected.POST("/substitutes", ctrls.Substitute.Suggest)
		protected.POST("/substitutes/stream", ctrls.Substitute.Stream)
	}

	// 管理员
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/users", ctrls.Admin.ListUsers)
		admin.POST("/users", ctrls.Admin.CreateUser)
		admin.GET("/users/:id", ctrls.Admin.GetUser)
		admin.DELETE("/users/:id", ctrls.Admin.DeleteUser)
		admin.PUT("/users/:id/roles", ctrls.Admin.SetRoles)
	}
}
