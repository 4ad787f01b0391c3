package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/service"
)

// AuthController 处理用户认证
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController 构造函数
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// ==========================================
// DTOs (请求/响应参数定义)
// ==========================================

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ==========================================
// Handlers
// ==========================================

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户，角色为 USER，主页默认公开
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册参数"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response "参数错误"
// @Failure 409 {object} response.Response "用户名或邮箱已被占用"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest

	// 1. 参数校验
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Register params invalid", "err", err)
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// 2. 业务逻辑
	user, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, "register", err)
		return
	}

	// 3. 成功响应
	slog.Info("User registered", "id", user.ID, "username", user.Username)
	response.Created(c, user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验账号密码，颁发 JWT Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录参数"
// @Success 200 {object} response.Response{data=service.LoginResult} "包含 Token"
// @Failure 401 {object} response.Response "账号或密码错误"
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest

	// 1. 参数校验
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// 2. 业务逻辑，失败时提示信息模糊化
	result, err := ctrl.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("Login failed", "username", req.Username, "err", err)
		fail(c, "login", err)
		return
	}

	// 3. 成功响应
	slog.Info("User logged in", "userID", result.UserID)
	response.Success(c, result)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "旧密码和新密码"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response "旧密码错误"
// @Router /me/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if err := ctrl.authService.ChangePassword(c.Request.Context(), middleware.Actor(c), req.OldPassword, req.NewPassword); err != nil {
		fail(c, "change password", err)
		return
	}
	response.Success(c, nil)
}
