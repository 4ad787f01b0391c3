package controller

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/service"
)

// UserController 主页、社交关系、隐私设置和头像
type UserController struct {
	userService   *service.UserService
	socialService *service.SocialService
}

func NewUserController(userService *service.UserService, socialService *service.SocialService) *UserController {
	return &UserController{userService: userService, socialService: socialService}
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type PrivacyRequest struct {
	IsPrivate *bool `json:"is_private" binding:"required"`
}

type PrivacyResponse struct {
	IsPrivate bool `json:"is_private"`
}

type PictureResponse struct {
	URL string `json:"url"`
}

// Profile 查看用户主页
// @Summary 用户主页
// @Description 私密主页只对本人和粉丝可见，邮箱只对本人和管理员可见
// @Tags User
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Failure 403 {object} response.Response "私密主页"
// @Failure 404 {object} response.Response "用户不存在"
// @Router /users/{id}/profile [get]
func (ctrl *UserController) Profile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := ctrl.userService.GetProfile(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "get profile", err)
		return
	}
	response.Success(c, profile)
}

// Me 当前用户自己的主页
// @Summary 我的主页
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Router /me [get]
func (ctrl *UserController) Me(c *gin.Context) {
	profile, err := ctrl.userService.GetMe(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fail(c, "get me", err)
		return
	}
	response.Success(c, profile)
}

// Update 修改用户名 / 邮箱
// @Summary 修改用户资料
// @Description 本人或管理员
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param request body UpdateUserRequest true "为空的字段不修改"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 409 {object} response.Response "用户名或邮箱已被占用"
// @Router /users/{id} [put]
func (ctrl *UserController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	user, err := ctrl.userService.UpdateUser(c.Request.Context(), middleware.Actor(c), id, service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		fail(c, "update user", err)
		return
	}
	response.Success(c, user)
}

// Follow 关注
// @Summary 关注用户
// @Description 重复关注幂等成功
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path int true "被关注的用户 ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "不能关注自己"
// @Failure 403 {object} response.Response "对方已将你拉黑"
// @Failure 404 {object} response.Response "用户不存在"
// @Router /users/{id}/follow [post]
func (ctrl *UserController) Follow(c *gin.Context) {
	ctrl.socialAction(c, "follow", ctrl.socialService.Follow)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/follow [delete]
func (ctrl *UserController) Unfollow(c *gin.Context) {
	ctrl.socialAction(c, "unfollow", ctrl.socialService.Unfollow)
}

// Block 拉黑
// @Summary 拉黑用户
// @Description 同时切断双方的关注关系
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response "已经拉黑"
// @Router /users/{id}/block [post]
func (ctrl *UserController) Block(c *gin.Context) {
	ctrl.socialAction(c, "block", ctrl.socialService.Block)
}

// Unblock 解除拉黑
// @Summary 解除拉黑
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response "没有拉黑该用户"
// @Router /users/{id}/block [delete]
func (ctrl *UserController) Unblock(c *gin.Context) {
	ctrl.socialAction(c, "unblock", ctrl.socialService.Unblock)
}

func (ctrl *UserController) socialAction(c *gin.Context, op string, action func(ctx context.Context, actor *model.Principal, targetID uint) error) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := action(c.Request.Context(), middleware.Actor(c), targetID); err != nil {
		fail(c, op, err)
		return
	}
	response.Success(c, nil)
}

// Followers 粉丝列表
// @Summary 粉丝列表
// @Tags Social
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response{data=[]model.UserSummary}
// @Failure 403 {object} response.Response "私密主页"
// @Router /users/{id}/followers [get]
func (ctrl *UserController) Followers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.socialService.GetFollowers(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "get followers", err)
		return
	}
	response.Success(c, list)
}

// Following 关注列表
// @Summary 关注列表
// @Tags Social
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response{data=[]model.UserSummary}
// @Failure 403 {object} response.Response "私密主页"
// @Router /users/{id}/following [get]
func (ctrl *UserController) Following(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.socialService.GetFollowing(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "get following", err)
		return
	}
	response.Success(c, list)
}

// Blocked 黑名单
// @Summary 黑名单
// @Description 本人或管理员
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response{data=[]model.UserSummary}
// @Router /users/{id}/blocked [get]
func (ctrl *UserController) Blocked(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.socialService.GetBlockedUsers(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "get blocked users", err)
		return
	}
	response.Success(c, list)
}

// GetPrivacy 读取隐私设置
// @Summary 隐私设置
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response{data=PrivacyResponse}
// @Router /users/{id}/privacy [get]
func (ctrl *UserController) GetPrivacy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	private, err := ctrl.userService.GetPrivacy(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "get privacy", err)
		return
	}
	response.Success(c, PrivacyResponse{IsPrivate: private})
}

// SetPrivacy 修改隐私设置
// @Summary 修改隐私设置
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param request body PrivacyRequest true "是否私密"
// @Success 200 {object} response.Response{data=PrivacyResponse}
// @Router /users/{id}/privacy [put]
func (ctrl *UserController) SetPrivacy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if err := ctrl.userService.SetPrivacy(c.Request.Context(), middleware.Actor(c), id, *req.IsPrivate); err != nil {
		fail(c, "set privacy", err)
		return
	}
	response.Success(c, PrivacyResponse{IsPrivate: *req.IsPrivate})
}

// UploadPicture 上传头像
// @Summary 上传头像
// @Description multipart 字段名为 file，只接受 JPEG，最大 5MB
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param file formData file true "JPEG 图片"
// @Success 200 {object} response.Response{data=PictureResponse}
// @Router /users/{id}/picture [put]
func (ctrl *UserController) UploadPicture(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// 1. 读文件，多读一个字节用来判断是否超限
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cannot read file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxPictureSize+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cannot read file")
		return
	}

	// 2. 校验并保存
	url, err := ctrl.userService.UploadPicture(c.Request.Context(), middleware.Actor(c), id, data)
	if err != nil {
		fail(c, "upload picture", err)
		return
	}
	response.Success(c, PictureResponse{URL: url})
}

// DeletePicture 删除头像
// @Summary 删除头像
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/picture [delete]
func (ctrl *UserController) DeletePicture(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.userService.DeletePicture(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, "delete picture", err)
		return
	}
	response.Success(c, nil)
}

// GetPicture 下载头像
// @Summary 下载头像
// @Tags User
// @Produce jpeg
// @Param id path int true "用户 ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /profile-pictures/{id} [get]
func (ctrl *UserController) GetPicture(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := ctrl.userService.GetPicture(c.Request.Context(), id)
	if err != nil {
		fail(c, "get picture", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "image/jpeg", data)
}
