package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/middleware"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/service"
)

type SubstituteController struct {
	service *service.SubstituteService
}

func NewSubstituteController(s *service.SubstituteService) *SubstituteController {
	return &SubstituteController{service: s}
}

// SubstituteRequest 前端传来的食材名
type SubstituteRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// Suggest 食材替代建议
// @Summary 食材替代建议
// @Description 由大模型生成，相同食材的结果会被缓存
// @Tags Substitute
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubstituteRequest true "食材"
// @Success 200 {object} response.Response{data=model.SubstituteResult}
// @Failure 503 {object} response.Response "大模型不可用"
// @Router /substitutes [post]
func (ctrl *SubstituteController) Suggest(c *gin.Context) {
	var req SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	result, err := ctrl.service.Suggest(c.Request.Context(), middleware.Actor(c), req.Ingredient)
	if err != nil {
		fail(c, "suggest substitutes", err)
		return
	}
	response.Success(c, result)
}

// Stream 流式食材替代建议
// @Summary 流式食材替代建议 (SSE)
// @Description 事件 delta 为 JSON 片段，done 为校验后的完整结果，error 为错误信息
// @Tags Substitute
// @Accept json
// @Produce text/event-stream
// @Security BearerAuth
// @Param request body SubstituteRequest true "食材"
// @Router /substitutes/stream [post]
func (ctrl *SubstituteController) Stream(c *gin.Context) {
	// 1. 解析 JSON 参数
	var req SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// 2. 调用 Service，出错时还没开始推流，可以正常返回 JSON
	streamCh, commitFunc, err := ctrl.service.Stream(c.Request.Context(), middleware.Actor(c), req.Ingredient)
	if err != nil {
		fail(c, "stream substitutes", err)
		return
	}

	// 3. 设置 SSE Header
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// 4. 循环读取流，推送到前端，同时在内存拼接
	var fullJSONBuilder strings.Builder
	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			slog.Info("substitute stream client gone", "ingredient", req.Ingredient)
			return
		case fragment, ok := <-streamCh:
			if !ok {
				goto Finalize
			}
			c.SSEvent("delta", fragment)
			fullJSONBuilder.WriteString(fragment)
			c.Writer.Flush()
		}
	}

Finalize:
	// 5. 流结束，校验并写缓存
	result, err := commitFunc(fullJSONBuilder.String())
	if err != nil {
		c.SSEvent("error", err.Error())
		c.Writer.Flush()
		return
	}
	finalData, _ := json.Marshal(result)
	c.SSEvent("done", string(finalData))
	c.Writer.Flush()
}
