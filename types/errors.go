package types

import (
	"errors"
	"fmt"
)

// Kind 失败类别
type Kind string

const (
	KindEmptyTopology Kind = "empty_topology"
	KindDanglingPipe  Kind = "dangling_pipe"
	KindInvalidDoc    Kind = "invalid_document"
	KindInvalidParam  Kind = "invalid_parameter"
	KindSingular      Kind = "singular_system"
	KindMaxIterations Kind = "max_iterations_exceeded"
)

// 哨兵错误, 用于 errors.Is 判断
var (
	ErrEmptyTopology = &Error{Kind: KindEmptyTopology, Msg: "拓扑为空"}
	ErrDanglingPipe  = &Error{Kind: KindDanglingPipe, Msg: "管路端点未连接"}
	ErrInvalidDoc    = &Error{Kind: KindInvalidDoc, Msg: "拓扑文档无效"}
	ErrInvalidParam  = &Error{Kind: KindInvalidParam, Msg: "参数无效"}
	ErrSingular      = &Error{Kind: KindSingular, Msg: "系统奇异"}
	ErrMaxIterations = &Error{Kind: KindMaxIterations, Msg: "超过最大迭代次数"}
)

// Error 结构化失败
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Errorf 创建指定类别的错误
func Errorf(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// Wrap 包装底层错误
func Wrap(kind Kind, err error, format string, a ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同类别错误视为相等
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf 得到错误类别, 非结构化错误返回空
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
