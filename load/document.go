package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number 文档数值, 兼容数字、数字字符串、空串和 null
type Number struct {
	V     float64
	Valid bool
}

// Num 有效数值
func Num(v float64) Number { return Number{V: v, Valid: true} }

// UnmarshalJSON 解析数值
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = Number{}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("无效数值 %q", s)
		}
		*n = Num(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("无效数值 %s", b)
	}
	*n = Num(v)
	return nil
}

// MarshalJSON 输出数值, 无效时为 null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.V)
}

// Or 无效时返回默认值
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.V
}

// FluidData 油箱介质
type FluidData struct {
	Name  string `json:"name"`
	Rho15 Number `json:"rho_15"`
	V40   Number `json:"v_40"`
}

// Point 节点记录
type Point struct {
	Label     string `json:"label" validate:"required"`
	PType     string `json:"ptype" validate:"omitempty,oneof=normal pump valve tee tank"`
	X         Number `json:"x"`
	Y         Number `json:"y"`
	Elevation Number `json:"elevation"`
	// 泵
	PumpType       string `json:"pump_type,omitempty"`
	PumpFlow       Number `json:"pump_flow"`       // m³/h
	PumpHead       Number `json:"pump_head"`       // kPa
	PumpSpeed      Number `json:"pump_speed"`      // 关死压力 kPa
	OutletPressure Number `json:"outlet_pressure"` // 出口设定绝对压力 kPa
	// 阀门和三通
	ValveK    Number `json:"valve_k"`    // 额定 Cv
	ValveOpen Number `json:"valve_open"` // 开度 %
	TeeK      Number `json:"tee_k"`
	FittingID string `json:"fitting_id,omitempty"`
	// 油箱
	FluidData *FluidData `json:"fluid_data,omitempty"`
	// 固定绝对压力 kPa
	FixedPressure Number `json:"fixed_pressure"`
}

// LineFitting 管路管件引用
type LineFitting struct {
	ID    string `json:"id" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
	K     Number `json:"k"`
}

// Line 管路记录
type Line struct {
	Label      string        `json:"label" validate:"required"`
	StartLabel string        `json:"start_label"`
	EndLabel   string        `json:"end_label"`
	Diameter   Number        `json:"diameter"`  // mm
	Length     Number        `json:"length"`    // m
	Roughness  Number        `json:"roughness"` // mm
	Remark     string        `json:"remark"`
	Fittings   []LineFitting `json:"fittings,omitempty" validate:"omitempty,dive"`
}

// Document 拓扑文档
type Document struct {
	Points []Point `json:"points" validate:"unique=Label,dive"`
	Lines  []Line  `json:"lines" validate:"unique=Label,dive"`
}
