package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码：前三位是 HTTP 状态码，后两位区分同一状态下的不同错误
const (
	CodeOK               = 0
	CodeInvalidArgument  = 40001
	CodeInvalidOperation = 40002
	CodeUnauthenticated  = 40101
	CodeBadCredentials   = 40102
	CodeAccessDenied     = 40301
	CodeNotFound         = 40401
	CodeConflict         = 40901
	CodeAlreadyBlocked   = 40902
	CodeNotBlocked       = 40903
	CodeInternal         = 50001
	CodeUnavailable      = 50301
)

// Response 统一响应结构
type Response struct {
	Code int         `json:"code"` // 0 代表成功，非 0 代表错误码
	Msg  string      `json:"msg"`  // 提示信息
	Data interface{} `json:"data"` // 数据载荷
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeOK,
		Msg:  "success",
		Data: data,
	})
}

// Created 创建成功，201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: CodeOK,
		Msg:  "success",
		Data: data,
	})
}

// Error 错误响应，没有更具体错误码时用 HTTP 状态码 * 100
func Error(c *gin.Context, httpStatus int, msg string) {
	ErrorWithCode(c, httpStatus, httpStatus*100, msg)
}

// ErrorWithCode 错误响应，code 区分具体的错误种类
func ErrorWithCode(c *gin.Context, httpStatus, code int, msg string) {
	c.JSON(httpStatus, Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}

// Abort 中间件里使用，写完响应后终止后续 handler
func Abort(c *gin.Context, httpStatus, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}
