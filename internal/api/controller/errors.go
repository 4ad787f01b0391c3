package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leon37/Hamhama/internal/api/response"
	"github.com/leon37/Hamhama/internal/model"
)

// errorKinds 领域错误 -> (HTTP 状态码, 错误码)，每种错误有自己的错误码
var errorKinds = []struct {
	err    error
	status int
	code   int
}{
	{model.ErrNotFound, http.StatusNotFound, response.CodeNotFound},
	{model.ErrInvalidOperation, http.StatusBadRequest, response.CodeInvalidOperation},
	{model.ErrInvalidArgument, http.StatusBadRequest, response.CodeInvalidArgument},
	{model.ErrAlreadyBlocked, http.StatusConflict, response.CodeAlreadyBlocked},
	{model.ErrNotBlocked, http.StatusConflict, response.CodeNotBlocked},
	{model.ErrConflict, http.StatusConflict, response.CodeConflict},
	{model.ErrAccessDenied, http.StatusForbidden, response.CodeAccessDenied},
	{model.ErrUnauthenticated, http.StatusUnauthorized, response.CodeUnauthenticated},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, response.CodeBadCredentials},
	{model.ErrUnavailable, http.StatusServiceUnavailable, response.CodeUnavailable},
}

func kindOf(err error) (status, code int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, response.CodeInternal
}

// fail 统一的错误出口，5xx 不把内部错误透给前端
func fail(c *gin.Context, op string, err error) {
	status, code := kindOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "path", c.FullPath(), "error", err)
		if status == http.StatusInternalServerError {
			response.ErrorWithCode(c, status, code, "internal server error")
			return
		}
	} else {
		slog.Debug(op+" rejected", "path", c.FullPath(), "error", err)
	}
	response.ErrorWithCode(c, status, code, err.Error())
}

// pathID 读取路径上的数字 ID，非法时直接写 400
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
