package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/service"
)

type RatingController struct {
	ratingService *service.RatingService
}

func NewRatingController(ratingService *service.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

type RateRequest struct {
	Value int `json:"value" binding:"required,min=1,max=5"`
}

// Get 平均分
// @Summary 菜谱评分
// @Tags Rating
// @Produce json
// @Param id path int true "菜谱 ID"
// @Success 200 {object} response.Response{data=service.RatingSummary}
// @Router /recipes/{id}/rating [get]
func (ctrl *RatingController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := ctrl.ratingService.Average(c.Request.Context(), id)
	if err != nil {
		fail(c, "get rating", err)
		return
	}
	response.Success(c, summary)
}

// Rate 评分
// @Summary 给菜谱评分
// @Description 1~5 分，重复评分覆盖之前的分数
// @Tags Rating
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱 ID"
// @Param request body RateRequest true "分数"
// @Success 200 {object} response.Response{data=service.RatingSummary}
// @Router /recipes/{id}/rating [put]
func (ctrl *RatingController) Rate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	summary, err := ctrl.ratingService.Rate(c.Request.Context(), middleware.Actor(c), id, req.Value)
	if err != nil {
		fail(c, "rate recipe", err)
		return
	}
	response.Success(c, summary)
}

// Remove 删除自己的评分
// @Summary 删除评分
// @Tags Rating
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱 ID"
// @Success 200 {object} response.Response{data=service.RatingSummary}
// @Router /recipes/{id}/rating [delete]
func (ctrl *RatingController) Remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := ctrl.ratingService.Remove(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, "remove rating", err)
		return
	}
	response.Success(c, summary)
}
