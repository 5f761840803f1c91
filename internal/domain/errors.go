package domain

import (
	"errors"
	"fmt"
)

// 业务错误分类；各层用 fmt.Errorf("...: %w", Err...) 包装，传输层统一映射
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInUse        = errors.New("dependency in use")
	ErrExternal     = errors.New("external service failure")
	ErrStorage      = errors.New("storage failure")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	// ErrNotAvailable 未发布内容不可分享；仍然是 NotFound 的一种
	ErrNotAvailable = fmt.Errorf("%w: not available", ErrNotFound)
	// ErrDuplicateEmail 注册时邮箱已存在
	ErrDuplicateEmail = fmt.Errorf("%w: email already registered", ErrValidation)
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
)

// Invalid 构造带字段说明的校验错误
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
