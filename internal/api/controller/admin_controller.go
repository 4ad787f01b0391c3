package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/service"
)

// AdminController 用户管理，路由层已经要求 ADMIN 角色
type AdminController struct {
	userService *service.UserService
}

func NewAdminController(userService *service.UserService) *AdminController {
	return &AdminController{userService: userService}
}

type CreateUserRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Roles    []string `json:"roles"`
}

type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

func parseRoles(raw []string) ([]model.Role, error) {
	roles := make([]model.Role, 0, len(raw))
	for _, r := range raw {
		role, err := model.ParseRole(r)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.userService.ListUsers(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fail(c, "list users", err)
		return
	}
	response.Success(c, users)
}

// GetUser 用户详情
// @Summary 用户详情
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response{data=model.User}
// @Router /admin/users/{id} [get]
func (ctrl *AdminController) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := ctrl.userService.GetUser(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "get user", err)
		return
	}
	response.Success(c, user)
}

// CreateUser 创建用户
// @Summary 创建用户
// @Description roles 为空时默认为 USER
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "用户信息"
// @Success 201 {object} response.Response{data=model.User}
// @Router /admin/users [post]
func (ctrl *AdminController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		fail(c, "create user", err)
		return
	}
	user, err := ctrl.userService.CreateUser(c.Request.Context(), middleware.Actor(c), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    roles,
	})
	if err != nil {
		fail(c, "create user", err)
		return
	}
	slog.Info("user created by admin", "id", user.ID, "admin", middleware.Actor(c).UserID)
	response.Created(c, user)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Description 级联删除社交关系、点赞、评论、评分和该用户的菜谱
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response
// @Router /admin/users/{id} [delete]
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.userService.DeleteUser(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, "delete user", err)
		return
	}
	response.Success(c, nil)
}

// SetRoles 替换角色
// @Summary 修改角色
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param request body SetRolesRequest true "新的角色集合"
// @Success 200 {object} response.Response{data=model.User}
// @Router /admin/users/{id}/roles [put]
func (ctrl *AdminController) SetRoles(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		fail(c, "set roles", err)
		return
	}
	user, err := ctrl.userService.SetRoles(c.Request.Context(), middleware.Actor(c), id, roles)
	if err != nil {
		fail(c, "set roles", err)
		return
	}
	response.Success(c, user)
}
