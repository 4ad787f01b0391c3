package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/repository"
	"github.com/leon37/Hamhama/internal/service"
)

type RecipeController struct {
	recipeService *service.RecipeService
}

func NewRecipeController(recipeService *service.RecipeService) *RecipeController {
	return &RecipeController{recipeService: recipeService}
}

// ListRequest 列表请求参数
type ListRequest struct {
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
	Name       string `form:"name"`
	Category   string `form:"category"`
	Ingredient string `form:"ingredient"`
}

type ListResponse struct {
	List  []model.Recipe `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
}

type SearchRequest struct {
	Query    string `form:"q" binding:"required"`
	Limit    int    `form:"limit,default=10"`
	Category string `form:"category"`
}

// List 菜谱列表
// @Summary 菜谱列表
// @Description 按名称、分类、食材筛选
// @Tags Recipe
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Param name query string false "名称包含"
// @Param category query string false "分类"
// @Param ingredient query string false "包含的食材"
// @Success 200 {object} response.Response{data=controller.ListResponse}
// @Router /recipes [get]
func (ctrl *RecipeController) List(c *gin.Context) {
	// 1. 绑定 Query 参数
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	// 2. 构造 Filter
	filter := repository.RecipeFilter{
		Name:       req.Name,
		Category:   model.RecipeCategory(req.Category),
		Ingredient: req.Ingredient,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	// 3. 调用 Service
	list, total, err := ctrl.recipeService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, "list recipes", err)
		return
	}
	response.Success(c, ListResponse{List: list, Total: total, Page: req.Page})
}

// Get 菜谱详情
// @Summary 菜谱详情
// @Tags Recipe
// @Produce json
// @Param id path int true "菜谱 ID"
// @Success 200 {object} response.Response{data=model.Recipe}
// @Failure 404 {object} response.Response
// @Router /recipes/{id} [get]
func (ctrl *RecipeController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := ctrl.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "get recipe", err)
		return
	}
	response.Success(c, recipe)
}

// Search 语义搜索
// @Summary 语义搜索菜谱
// @Description 查询词向量化后在 Qdrant 中检索，未配置向量库时返回 503
// @Tags Recipe
// @Produce json
// @Param q query string true "自然语言查询"
// @Param limit query int false "条数，默认 10"
// @Param category query string false "分类过滤"
// @Success 200 {object} response.Response{data=[]service.RecipeMatch}
// @Failure 503 {object} response.Response
// @Router /recipes/search [get]
func (ctrl *RecipeController) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}
	matches, err := ctrl.recipeService.SearchSimilar(c.Request.Context(), req.Query, req.Limit, model.RecipeCategory(req.Category))
	if err != nil {
		fail(c, "search recipes", err)
		return
	}
	response.Success(c, matches)
}

// Like 点赞
// @Summary 点赞菜谱
// @Tags Recipe
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱 ID"
// @Success 200 {object} response.Response
// @Router /recipes/{id}/like [post]
func (ctrl *RecipeController) Like(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.recipeService.Like(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, "like recipe", err)
		return
	}
	response.Success(c, nil)
}

// Unlike 取消点赞
// @Summary 取消点赞
// @Tags Recipe
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱 ID"
// @Success 200 {object} response.Response
// @Router /recipes/{id}/like [delete]
func (ctrl *RecipeController) Unlike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.recipeService.Unlike(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, "unlike recipe", err)
		return
	}
	response.Success(c, nil)
}

// Liked 我点赞过的菜谱
// @Summary 我的点赞
// @Tags Recipe
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Recipe}
// @Router /me/likes [get]
func (ctrl *RecipeController) Liked(c *gin.Context) {
	list, err := ctrl.recipeService.LikedRecipes(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fail(c, "liked recipes", err)
		return
	}
	response.Success(c, list)
}
