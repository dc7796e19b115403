package develop

import (
	"errors"
	"fmt"
)

// ErrMatrixNotFound 标定集合中没有所需光源的矩阵
var ErrMatrixNotFound = errors.New("matrix not found")

// ConfigurationError 标定或几何参数无效
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError 采样数据的表示形式无法处理（例如浮点原生传感器数据）
type UnsupportedFormatError struct {
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported format: " + e.Reason
}

// IOError 读取输入失败（仅解码边界使用）
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func unsupportedf(format string, args ...interface{}) error {
	return &UnsupportedFormatError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfiguration 错误链中是否有 ConfigurationError
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsUnsupportedFormat 错误链中是否有 UnsupportedFormatError
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}

// IsIO 错误链中是否有 IOError
func IsIO(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
