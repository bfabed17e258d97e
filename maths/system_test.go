package maths

import (
	"errors"
	"testing"
)

func fill(s System, a [][]float64) {
	s.Zero()
	for i, row := range a {
		for j, v := range row {
			if v != 0 {
				s.Increment(i, j, v)
			}
		}
	}
}

// TestSolve 验证两种求解器的 LU 分解和求解
func TestSolve(t *testing.T) {
	// A = [[2, 3, 1],
	//      [1, 2, 3],
	//      [3, 1, 2]]
	// b = [9, 6, 8]
	// 预期解 x = [35/18, 29/18, 5/18]
	a := [][]float64{{2, 3, 1}, {1, 2, 3}, {3, 1, 2}}
	b := []float64{9, 6, 8}
	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	for _, kind := range []string{KindSparse, KindDense} {
		s, err := New(kind, 3)
		if err != nil {
			t.Fatalf("%s: 创建失败: %v", kind, err)
		}
		// 重复装配验证结构复用
		for round := range 3 {
			fill(s, a)
			if err := s.Decompose(); err != nil {
				t.Fatalf("%s: 分解失败: %v", kind, err)
			}
			x := make([]float64, 3)
			if err := s.SolveReuse(b, x); err != nil {
				t.Fatalf("%s: 求解失败: %v", kind, err)
			}
			for i := range x {
				if abs(x[i]-expected[i]) > 1e-9 {
					t.Errorf("%s 第 %d 轮: x[%d] 期望 %v, 实际 %v", kind, round, i, expected[i], x[i])
				}
			}
		}
		s.Close()
	}
}

// TestSolvePenalty 罚函数锚定的导纳矩阵
func TestSolvePenalty(t *testing.T) {
	const w = 1e6
	g := 1e-7
	for _, kind := range []string{KindSparse, KindDense} {
		s, err := New(kind, 2)
		if err != nil {
			t.Fatal(err)
		}
		fill(s, [][]float64{{g + w, -g}, {-g, g}})
		if err := s.Decompose(); err != nil {
			t.Fatalf("%s: 分解失败: %v", kind, err)
		}
		// 节点 0 锚定 101325 Pa, 节点 1 注入 1e-4 m³/s
		x := make([]float64, 2)
		if err := s.SolveReuse([]float64{w * 101325, 1e-4}, x); err != nil {
			t.Fatal(err)
		}
		if abs(x[0]-101325) > 1e-2 {
			t.Errorf("%s: 锚点压力 %v", kind, x[0])
		}
		if abs(x[1]-x[0]-1e-4/g)/(1e-4/g) > 1e-6 {
			t.Errorf("%s: 压差期望 %v, 实际 %v", kind, 1e-4/g, x[1]-x[0])
		}
		s.Close()
	}
}

func TestSingular(t *testing.T) {
	for _, kind := range []string{KindSparse, KindDense} {
		s, err := New(kind, 2)
		if err != nil {
			t.Fatal(err)
		}
		fill(s, [][]float64{{1, -1}, {-1, 1}})
		err = s.Decompose()
		if err == nil {
			x := make([]float64, 2)
			err = s.SolveReuse([]float64{1, -1}, x)
		}
		if !errors.Is(err, ErrSingular) {
			t.Errorf("%s: 期望奇异错误, 实际 %v", kind, err)
		}
		s.Close()
	}
}

func TestNew(t *testing.T) {
	if _, err := New("cholesky", 3); err == nil {
		t.Error("未知类型应返回错误")
	}
	if _, err := New(KindSparse, 0); err == nil {
		t.Error("零阶应返回错误")
	}
	if err := checkLen(2, []float64{1}, []float64{1, 2}); err == nil {
		t.Error("维度不匹配应返回错误")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
