package config

import (
	"fmt"
	"strings"
)

// ConfigError 配置错误
// 目标文件格式不合法、字段缺失或无效、模板图像无法读取时返回
type ConfigError struct {
	// Path 配置文件路径（解析单条记录时可能为空）
	Path string
	// Index 目标在数组中的下标 (0-based)，-1 表示与具体目标无关
	Index int
	// Field 出错的字段名
	Field string
	// Msg 错误描述
	Msg string
	// Err 底层错误
	Err error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("配置错误")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, " 第 %d 个目标", e.Index+1)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " [%s]", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// fieldError 创建字段级配置错误
func fieldError(index int, field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Index: index, Field: field, Msg: fmt.Sprintf(format, args...)}
}
