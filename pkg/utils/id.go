package utils

import "github.com/google/uuid"

// NewID 生成账号等实体使用的字符串主键（UUIDv4）
func NewID() string { return uuid.NewString() }
