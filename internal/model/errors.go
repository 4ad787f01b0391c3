package model

import "errors"

// 业务错误分类。service 层用 fmt.Errorf("%w: ...") 包装，controller 用 errors.Is 映射状态码
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrAlreadyBlocked     = errors.New("user already blocked")
	ErrNotBlocked         = errors.New("user not blocked")
	ErrAccessDenied       = errors.New("access denied")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnavailable        = errors.New("service unavailable")
)
