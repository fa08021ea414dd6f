package vec

import "math"

// Vec2Float представляет точку горизонтальной плоскости.
// Y здесь соответствует мировой оси Z.
type Vec2Float struct {
	X, Y float64
}

// DirectionXZ возвращает единичный вектор оси длины элемента,
// повернутого на угол rotation вокруг вертикали: (cos r, sin r).
func DirectionXZ(rotation float64) Vec2Float {
	return Vec2Float{X: math.Cos(rotation), Y: math.Sin(rotation)}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
