// Package fluid 油品物性查询.
//
// 物性取 15°C 密度与 40°C 运动粘度, 动力粘度由 μ = ν·ρ 推导.
// 查表为构造时注入的只读映射, 求解过程中不可修改.
package fluid

import (
	"fmt"
	"sort"

	"pipecacu/types"
)

// 内置油品名称
const (
	DefaultName  = "VG320 滑油" // 默认油品
	FallbackName = "自定义"      // 未知油品回退项
)

// Fluid 流体物性
type Fluid struct {
	Name string  `json:"name"`
	Rho  float64 `json:"rho"` // 密度 kg/m³
	Mu   float64 `json:"mu"`  // 动力粘度 Pa·s
	Nu   float64 `json:"nu"`  // 运动粘度 m²/s
}

// New 由密度和 40°C 运动粘度(cSt)构造流体
func New(name string, rho, v40 float64) Fluid {
	nu := v40 * 1e-6
	return Fluid{Name: name, Rho: rho, Nu: nu, Mu: nu * rho}
}

// Entry 油品数据
type Entry struct {
	Rho15 float64 `yaml:"rho_15" json:"rho_15"`
	V40   float64 `yaml:"v_40" json:"v_40"`
	V100  float64 `yaml:"v_100" json:"v_100"`
}

// Table 油品查询表
type Table struct {
	entries  map[string]Entry
	def      string
	fallback string
}

// NewTable 创建查询表, def 为无油箱时使用的油品, fallback 为未知名称的回退项
func NewTable(entries map[string]Entry, def, fallback string) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("油品表为空")
	}
	for name, e := range entries {
		if e.Rho15 <= 0 || e.V40 <= 0 {
			return nil, fmt.Errorf("油品 %q 物性无效: rho_15=%g v_40=%g", name, e.Rho15, e.V40)
		}
	}
	if _, ok := entries[fallback]; !ok {
		return nil, fmt.Errorf("回退油品 %q 不在表中", fallback)
	}
	if _, ok := entries[def]; !ok {
		return nil, fmt.Errorf("默认油品 %q 不在表中", def)
	}
	t := &Table{entries: make(map[string]Entry, len(entries)), def: def, fallback: fallback}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t, nil
}

// DefaultEntries 内置油品数据
func DefaultEntries() map[string]Entry {
	return map[string]Entry{
		"VG320 滑油":   {Rho15: 920, V40: 347.8, V100: 25},
		"VG220 滑油":   {Rho15: 900, V40: 244.4, V100: 19},
		"VG46 液压油":   {Rho15: 875, V40: 46, V100: 6.8},
		FallbackName: {Rho15: 860, V40: 40, V100: 6},
	}
}

// DefaultTable 内置油品表
func DefaultTable() *Table {
	t, err := NewTable(DefaultEntries(), DefaultName, FallbackName)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve 按名称查询, 未知名称返回回退项
func (t *Table) Resolve(name string) Fluid {
	e, ok := t.entries[name]
	if !ok {
		name, e = t.fallback, t.entries[t.fallback]
	}
	return New(name, e.Rho15, e.V40)
}

// Has 名称是否在表中
func (t *Table) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Default 默认油品
func (t *Table) Default() Fluid { return t.Resolve(t.def) }

// Select 由油箱介质描述选择流体.
// 表中名称直接查表; 未知名称但给出正的密度和粘度时构造自定义流体; 否则回退.
func (t *Table) Select(spec types.FluidSpec) Fluid {
	switch {
	case spec.Name == "" && spec.Rho <= 0:
		return t.Default()
	case t.Has(spec.Name):
		return t.Resolve(spec.Name)
	case spec.Rho > 0 && spec.V40 > 0:
		name := spec.Name
		if name == "" {
			name = t.fallback
		}
		return New(name, spec.Rho, spec.V40)
	}
	return t.Resolve(spec.Name)
}

// Names 已排序的油品名称
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for k := range t.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
