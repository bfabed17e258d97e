package types

// 物理常量定义
const (
	AtmosphericPressure = 101325.0 // 标准大气压 Pa
	DefaultRoughness    = 0.045e-3 // 默认绝对粗糙度 m
	DefaultDiameter     = 0.04     // 默认管径 m
	DefaultLength       = 10.0     // 默认管长 m
	NoIndex             = -1       // 未分配逻辑索引
)

// 默认参数常量定义
var (
	Tolerance          = 1e-7   // 收敛容差 m³/s
	MaxIterations      = 100    // 最大迭代次数
	InitialOmega       = 0.8    // 初始松弛因子
	MinOmega           = 0.1    // 最小松弛因子
	MaxOmega           = 1.0    // 最大松弛因子
	SeedPressureDrop   = 1000.0 // 初始电导估算压差 Pa
	PenaltyWeight      = 1e6    // 压力锚点罚权重
	PressureFloor      = 100.0  // 压力下限 Pa
	ConductanceFloor   = 1e-10  // 电导下限
	MaxPumpConductance = 1e-3   // 曲线泵等效电导上限
)
