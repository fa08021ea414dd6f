package vec

import "math"

// Vec3Float представляет трехмерный вектор с плавающими координатами.
// Единицы измерения — сантиметры, Y направлена вертикально вверх.
type Vec3Float struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// XZ возвращает проекцию вектора на горизонтальную плоскость
func (v Vec3Float) XZ() Vec2Float {
	return Vec2Float{X: v.X, Y: v.Z}
}

// FromXZ создает Vec3Float из точки плоскости и высоты
func FromXZ(p Vec2Float, y float64) Vec3Float {
	return Vec3Float{X: p.X, Y: y, Z: p.Y}
}

// DistanceTo возвращает евклидово расстояние до другого вектора
func (v Vec3Float) DistanceTo(other Vec3Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistanceXZ возвращает расстояние в горизонтальной плоскости, игнорируя Y
func (v Vec3Float) DistanceXZ(other Vec3Float) float64 {
	return v.XZ().DistanceTo(other.XZ())
}

// IsFinite проверяет, что все координаты конечны
func (v Vec3Float) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// IsFinite сообщает, является ли число конечным (не NaN и не ±Inf)
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
