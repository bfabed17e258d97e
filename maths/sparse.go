package maths

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// Sparse 稀疏直接法, 元素按 1 起始存储.
// 重新排序后矩阵结构不变, 元素指针缓存后直接叠加.
type Sparse struct {
	n     int
	m     *sparse.Matrix
	elems map[[2]int]*sparse.Element
	rhs   []float64
}

// NewSparse 创建 n 阶稀疏方程组
func NewSparse(n int) (*Sparse, error) {
	m, err := sparse.Create(int64(n), &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		Translate:      true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	})
	if err != nil {
		return nil, fmt.Errorf("创建稀疏矩阵失败: %w", err)
	}
	return &Sparse{
		n:     n,
		m:     m,
		elems: make(map[[2]int]*sparse.Element),
		rhs:   make([]float64, n+1),
	}, nil
}

func (s *Sparse) Size() int { return s.n }

func (s *Sparse) Zero() { s.m.Clear() }

func (s *Sparse) Increment(i, j int, v float64) {
	key := [2]int{i, j}
	e, ok := s.elems[key]
	if !ok {
		e = s.m.GetElement(int64(i+1), int64(j+1))
		if e == nil {
			panic(fmt.Sprintf("稀疏矩阵元素 (%d,%d) 分配失败", i, j))
		}
		s.elems[key] = e
	}
	e.Real += v
}

// Decompose 检查已有主元顺序, 不满足阈值时重新排序分解
func (s *Sparse) Decompose() error {
	if err := s.m.OrderAndFactor(nil, 0, 0, true); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return nil
}

func (s *Sparse) SolveReuse(b, x []float64) error {
	if err := checkLen(s.n, b, x); err != nil {
		return err
	}
	s.rhs[0] = 0
	copy(s.rhs[1:], b)
	sol, err := s.m.Solve(s.rhs)
	if err != nil {
		return fmt.Errorf("%w: 稀疏求解失败: %v", ErrSingular, err)
	}
	copy(x, sol[1:])
	return checkFinite(x)
}

func (s *Sparse) Close() { s.m.Destroy() }
