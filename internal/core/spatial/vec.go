package spatial

import "math"

// Vec3 is a world-space point or direction. Value semantics throughout: all
// operations return new vectors and never mutate the receiver.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalized returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal projects v onto the ground plane (Y = 0).
func (v Vec3) Horizontal() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// Lerp blends v toward o by t in [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Length() }

// HorizontalDistance ignores the vertical separation of a and b.
func HorizontalDistance(a, b Vec3) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}
