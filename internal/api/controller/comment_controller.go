package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/service"
)

type CommentController struct {
	commentService *service.CommentService
}

func NewCommentController(commentService *service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// List 菜谱评论
// @Summary 评论列表
// @Tags Comment
// @Produce json
// @Param id path int true "菜谱 ID"
// @Success 200 {object} response.Response{data=[]service.CommentView}
// @Router /recipes/{id}/comments [get]
func (ctrl *CommentController) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.commentService.ListByRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, "list comments", err)
		return
	}
	response.Success(c, list)
}

// Create 发表评论
// @Summary 发表评论
// @Tags Comment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱 ID"
// @Param request body CommentRequest true "评论内容"
// @Success 201 {object} response.Response{data=service.CommentView}
// @Router /recipes/{id}/comments [post]
func (ctrl *CommentController) Create(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	view, err := ctrl.commentService.Add(c.Request.Context(), middleware.Actor(c), id, req.Content)
	if err != nil {
		fail(c, "add comment", err)
		return
	}
	response.Created(c, view)
}

// Update 修改评论
// @Summary 修改评论
// @Description 仅作者本人
// @Tags Comment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论 ID"
// @Param request body CommentRequest true "评论内容"
// @Success 200 {object} response.Response{data=service.CommentView}
// @Router /comments/{id} [put]
func (ctrl *CommentController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	view, err := ctrl.commentService.Update(c.Request.Context(), middleware.Actor(c), id, req.Content)
	if err != nil {
		fail(c, "update comment", err)
		return
	}
	response.Success(c, view)
}

// Delete 删除评论
// @Summary 删除评论
// @Description 作者或管理员
// @Tags Comment
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论 ID"
// @Success 200 {object} response.Response
// @Router /comments/{id} [delete]
func (ctrl *CommentController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.commentService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, "delete comment", err)
		return
	}
	response.Success(c, nil)
}
