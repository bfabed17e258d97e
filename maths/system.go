// Package maths 线性方程组求解.
//
// 默认使用稀疏直接法, 稠密 LU 用于小规模校核.
package maths

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular 矩阵奇异
var ErrSingular = errors.New("矩阵奇异")

// 求解器类型
const (
	KindSparse = "sparse"
	KindDense  = "dense"
)

// System 线性方程组 A·x = b, 索引从 0 开始
type System interface {
	Size() int                       // 方程阶数
	Zero()                           // 清空矩阵, 保留结构
	Increment(i, j int, v float64)   // 叠加矩阵元素
	Decompose() error                // LU 分解
	SolveReuse(b, x []float64) error // 用已有分解求解, 结果写入 x
	Close()                          // 释放资源
}

// New 按类型创建方程组
func New(kind string, n int) (System, error) {
	if n <= 0 {
		return nil, fmt.Errorf("方程阶数无效: %d", n)
	}
	switch kind {
	case "", KindSparse:
		return NewSparse(n)
	case KindDense:
		return NewDense(n), nil
	}
	return nil, fmt.Errorf("未知求解器类型: %q", kind)
}

// checkFinite 解向量必须有限
func checkFinite(x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: 解分量 %d 为 %v", ErrSingular, i, v)
		}
	}
	return nil
}

func checkLen(n int, b, x []float64) error {
	if len(b) != n || len(x) != n {
		return fmt.Errorf("向量维度不匹配: n=%d len(b)=%d len(x)=%d", n, len(b), len(x))
	}
	return nil
}
