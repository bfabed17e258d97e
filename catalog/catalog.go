// Package catalog 管件库.
//
// 条目描述弯头、三通、变径、阀门、直管规格和泵, 供拓扑文档按 id 引用局部阻力系数和 Cv.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound 条目不存在
var ErrNotFound = errors.New("管件不存在")

// Item 管件条目
type Item struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Spec       string  `json:"spec,omitempty"`
	Model      string  `json:"model,omitempty"`
	Angle      any     `json:"angle,omitempty"`
	K          float64 `json:"k,omitempty"`        // 局部阻力系数
	KRun       float64 `json:"k_run,omitempty"`    // 三通直通
	KBranch    float64 `json:"k_branch,omitempty"` // 三通分支
	Cv         float64 `json:"Cv,omitempty"`
	Kv         float64 `json:"Kv,omitempty"`
	DN         float64 `json:"dn,omitempty"`
	OD         float64 `json:"od,omitempty"`
	Thickness  float64 `json:"thickness,omitempty"`
	IDmm       float64 `json:"id_mm,omitempty"`    // 内径 mm
	Flow       float64 `json:"flow,omitempty"`     // 泵流量 m³/h
	Pressure   float64 `json:"pressure,omitempty"` // 泵压力 MPa
	Resistance string  `json:"resistance,omitempty"`
	Remark     string  `json:"remark,omitempty"`
}

// Coefficient 串联在管路上的局部阻力系数, 三通取直通系数
func (it Item) Coefficient() float64 {
	if it.K > 0 {
		return it.K
	}
	return it.KRun
}

// BranchCoefficient 三通节点的局部阻力系数, 取分支系数
func (it Item) BranchCoefficient() float64 {
	if it.KBranch > 0 {
		return it.KBranch
	}
	return it.Coefficient()
}

// FlowCoefficient 阀门 Cv, 仅给出 Kv 时按 Cv = 1.156·Kv 换算
func (it Item) FlowCoefficient() float64 {
	if it.Cv > 0 {
		return it.Cv
	}
	return it.Kv * 1.156
}

// Store 管件库存取
type Store interface {
	All(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Upsert(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}

// newID 生成条目 id
func newID() string {
	return "fit_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Defaults 内置管件数据
func Defaults() []Item {
	return []Item{
		{ID: "elbow45", Name: "45°弯头", Category: "弯头", Angle: 45, K: 0.3},
		{ID: "elbow90", Name: "90°弯头", Category: "弯头", Angle: 90, K: 1.2},
		{ID: "expansion", Name: "渐扩", Category: "渐扩", K: 0.4},
		{ID: "contraction", Name: "渐缩", Category: "渐缩", K: 0.8},
		// 直管 GB/T 8163 部分规格
		{ID: "pipe_dn15", Name: "DN15", Category: "直管", DN: 15, OD: 21.3, Thickness: 2.8, IDmm: 15.7},
		{ID: "pipe_dn20", Name: "DN20", Category: "直管", DN: 20, OD: 26.9, Thickness: 2.8, IDmm: 21.3},
		{ID: "pipe_dn25", Name: "DN25", Category: "直管", DN: 25, OD: 33.7, Thickness: 3.2, IDmm: 27.3},
		{ID: "pipe_dn32", Name: "DN32", Category: "直管", DN: 32, OD: 42.4, Thickness: 3.5, IDmm: 35.4},
		{ID: "pipe_dn40", Name: "DN40", Category: "直管", DN: 40, OD: 48.3, Thickness: 3.5, IDmm: 41.3},
		{ID: "pipe_dn50", Name: "DN50", Category: "直管", DN: 50, OD: 60.3, Thickness: 3.8, IDmm: 52.7},
		{ID: "pipe_dn65", Name: "DN65", Category: "直管", DN: 65, OD: 76.1, Thickness: 4.0, IDmm: 68.1},
		{ID: "pipe_dn80", Name: "DN80", Category: "直管", DN: 80, OD: 88.9, Thickness: 4.0, IDmm: 80.9},
		{ID: "pipe_dn100", Name: "DN100", Category: "直管", DN: 100, OD: 114.3, Thickness: 4.5, IDmm: 105.3},
		// 弯头
		{ID: "elbow45_long", Name: "45°长半径弯头", Category: "弯头", Angle: 45, K: 0.20, Remark: "R≈1.5D"},
		{ID: "elbow90_long", Name: "90°长半径弯头", Category: "弯头", Angle: 90, K: 0.30, Remark: "R≈1.5D"},
		{ID: "elbow90_short", Name: "90°短半径弯头", Category: "弯头", Angle: 90, K: 0.45, Remark: "R≈1.0D"},
		{ID: "elbow90_miter", Name: "90°直角弯头", Category: "弯头", Angle: 90, K: 1.10, Remark: "R≈0"},
		{ID: "elbow180_return", Name: "180°回弯头", Category: "弯头", Angle: 180, K: 0.35, Remark: "R≈1.5D"},
		{ID: "elbow60_bend", Name: "60°煨弯管", Category: "弯头", Angle: 60, K: 0.15, Remark: "R≥3D"},
		// 三通
		{ID: "tee_equal", Name: "等径三通", Category: "三通", Spec: "Equal Tee", KRun: 0.15, KBranch: 0.85, Remark: "主支管径一致"},
		{ID: "tee_45_y", Name: "45°Y型三通", Category: "三通", Spec: "45° Y-Tee", KRun: 0.12, KBranch: 0.40, Remark: "分流更顺畅"},
		{ID: "tee_reducing", Name: "异径三通", Category: "三通", Spec: "Reducing Tee", KRun: 0.20, KBranch: 0.90, Remark: "支管口径小于主管"},
		// 变径
		{ID: "reducer_concentric", Name: "同心渐缩管", Category: "渐缩", Spec: "Concentric Reducer", Angle: "≈15°", K: 0.05, Remark: "水平/垂直管路通用"},
		{ID: "reducer_eccentric", Name: "偏心渐缩管", Category: "渐缩", Spec: "Eccentric Reducer", Angle: "≈15°", K: 0.06, Remark: "泵入口专用防气蚀"},
		{ID: "reducer_sudden_con", Name: "突缩管", Category: "渐缩", Spec: "Sudden Contraction", Angle: "90°", K: 0.50, Remark: "直接变径阻力大"},
		{ID: "reducer_sudden_exp", Name: "突扩管", Category: "渐扩", Spec: "Sudden Expansion", Angle: "90°", K: 1.00, Remark: "出口排入油箱类突扩"},
		// 阀门
		{ID: "valve_ball_dn25", Name: "球阀 DN25", Category: "阀门", DN: 25, Cv: 35, Kv: 30, Resistance: "极低阻力", Remark: "快速切断"},
		{ID: "valve_ball_dn50", Name: "球阀 DN50", Category: "阀门", DN: 50, Cv: 180, Kv: 155, Resistance: "极低阻力", Remark: "主管路切断"},
		{ID: "valve_globe_dn25", Name: "截止阀 DN25", Category: "阀门", DN: 25, Cv: 13, Kv: 11, Resistance: "高阻力", Remark: "流量调节常用"},
		{ID: "valve_globe_dn50", Name: "截止阀 DN50", Category: "阀门", DN: 50, Cv: 45, Kv: 39, Resistance: "高阻力", Remark: "主管流量调节"},
		{ID: "valve_globe_dn80", Name: "截止阀 DN80", Category: "阀门", DN: 80, Cv: 110, Kv: 95, Resistance: "高阻力", Remark: "大型系统调节"},
		{ID: "valve_butterfly_dn100", Name: "蝶阀 DN100", Category: "阀门", DN: 100, Cv: 350, Kv: 300, Resistance: "中阻力", Remark: "大流量低压管路"},
		{ID: "valve_check_dn25", Name: "单向阀 DN25", Category: "阀门", DN: 25, Cv: 15, Kv: 13, Resistance: "中阻力", Remark: "防止回流"},
		{ID: "valve_check_dn50", Name: "单向阀 DN50", Category: "阀门", DN: 50, Cv: 55, Kv: 47, Resistance: "中阻力", Remark: "泵出口"},
		// 泵
		{ID: "pump_cbb10", Name: "CB-B 齿轮泵 B10", Category: "泵", Model: "CB-B10", Flow: 0.6, Pressure: 2.5, Remark: "极小流量注油"},
		{ID: "pump_cbb25", Name: "CB-B 齿轮泵 B25", Category: "泵", Model: "CB-B25", Flow: 1.5, Pressure: 2.5, Remark: "支路润滑"},
		{ID: "pump_3g25", Name: "螺杆泵 3G-25", Category: "泵", Model: "3G-25", Flow: 5.0, Pressure: 0.8, Remark: "辅助润滑泵"},
		{ID: "pump_3g50", Name: "螺杆泵 3G-50", Category: "泵", Model: "3G-50", Flow: 12.0, Pressure: 0.6, Remark: "齿轴主润滑泵"},
		{ID: "pump_cl50", Name: "离心泵 CL-50", Category: "泵", Model: "CL-50", Flow: 30.0, Pressure: 0.4, Remark: "冷却水循环输送"},
	}
}
