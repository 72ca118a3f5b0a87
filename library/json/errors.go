package json

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed 输入不符合文法
	ErrMalformed = errors.New("json: malformed input")
	// ErrInvalidArgument 参数为空或不合法
	ErrInvalidArgument = errors.New("json: invalid argument")
	// ErrEmpty 转义/反转义的输入为空
	ErrEmpty = errors.New("json: empty input")
	// ErrTruncated token 超出暂存区上限
	ErrTruncated = errors.New("json: token exceeds scratch limit")
	// ErrNotContainer 目标不是数组或对象
	ErrNotContainer = errors.New("json: value is not a container")
	// ErrOwned 节点已经属于某个容器
	ErrOwned = errors.New("json: value already owned by a container")
	// ErrDepth 嵌套过深
	ErrDepth = errors.New("json: nesting too deep")
	// ErrNotFound 路径未命中
	ErrNotFound = errors.New("json: path not found")
	// ErrSegmentTooLong 路径段超出暂存区上限
	ErrSegmentTooLong = errors.New("json: path segment too long")
)

// SyntaxError 解析失败的位置与原因
//
// Offset 是相对于缓冲区起点的字节偏移。errors.Is 可以匹配到
// ErrMalformed、ErrTruncated 或 ErrDepth。
type SyntaxError struct {
	Offset int
	Msg    string
	cause  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json: offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	if e.cause == nil {
		return ErrMalformed
	}
	return e.cause
}

func syntaxErrorf(offset int, cause error, format string, v ...any) *SyntaxError {
	return &SyntaxError{
		Offset: offset,
		Msg:    fmt.Sprintf(format, v...),
		cause:  cause,
	}
}
