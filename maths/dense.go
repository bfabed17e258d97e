package maths

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense 稠密 LU
type Dense struct {
	n  int
	a  *mat.Dense
	lu mat.LU
}

// NewDense 创建 n 阶稠密方程组
func NewDense(n int) *Dense {
	return &Dense{n: n, a: mat.NewDense(n, n, nil)}
}

func (d *Dense) Size() int { return d.n }

func (d *Dense) Zero() { d.a.Zero() }

func (d *Dense) Increment(i, j int, v float64) { d.a.Set(i, j, d.a.At(i, j)+v) }

func (d *Dense) Decompose() error {
	d.lu.Factorize(d.a)
	if c := d.lu.Cond(); c > mat.ConditionTolerance {
		return fmt.Errorf("%w: 条件数 %.3e", ErrSingular, c)
	}
	return nil
}

func (d *Dense) SolveReuse(b, x []float64) error {
	if err := checkLen(d.n, b, x); err != nil {
		return err
	}
	dst := mat.NewVecDense(d.n, x)
	if err := d.lu.SolveVecTo(dst, false, mat.NewVecDense(d.n, b)); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return fmt.Errorf("%w: %v", ErrSingular, err)
		}
		return fmt.Errorf("稠密求解失败: %w", err)
	}
	return checkFinite(x)
}

func (d *Dense) Close() {}
