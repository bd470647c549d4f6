package vec

import "math"

// Vec2 is a 2D vector in simulation units.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector. The zero vector normalizes to the
// zero vector rather than dividing by zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) IsValid() bool {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
		return false
	}
	if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return false
	}
	return true
}

func Distance(a, b Vec2) float64 {
	return b.Sub(a).Length()
}
