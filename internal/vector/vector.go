// Package vector provides the 3D vector arithmetic used throughout the
// hand-tracking pipeline: contour points, curvature segments, and fingertip
// positions are all plain Vector values.
package vector

import "math"

// Vector is a plain (x, y, z) triple. It is a value type on purpose — the
// pipeline creates millions of these per second and none of them outlive a
// single frame, so there is nothing to gain from heap allocation.
type Vector struct {
	X, Y, Z float64
}

// Zero is the additive identity.
var Zero = Vector{}

// New builds a Vector from components.
func New(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Add returns v+o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v-o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean norm of v. Always >= 0.
func (v Vector) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// ToUnit returns (x/len, y/len, 0). The z component is dropped, matching the
// 2D-contour origins of these vectors. On the zero vector, where length is
// undefined, ToUnit returns the zero vector rather than panicking or
// emitting NaN — pipeline stages never raise on degenerate input.
func (v Vector) ToUnit() Vector {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vector{v.X / l, v.Y / l, 0}
}

// Equal is exact componentwise equality.
func (v Vector) Equal(o Vector) bool {
	return v == o
}

// Bisect returns the bisector of a and b: the mean of their unit vectors.
// It does not renormalize the result, so ‖Bisect(a,b)‖ is generally not 1 —
// this is a preserved quirk of the source algorithm relied on by the
// fingertip outside-probe in package finger.
func Bisect(a, b Vector) Vector {
	ua, ub := a.ToUnit(), b.ToUnit()
	return Vector{(ua.X + ub.X) / 2, (ua.Y + ub.Y) / 2, (ua.Z + ub.Z) / 2}
}

// Theta returns the angle in radians between a and b, via acos of the
// normalized dot product. Returns 0 if either vector is zero-length.
func Theta(a, b Vector) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	// acos is undefined outside [-1,1]; float rounding can push it there by
	// a hair for near-parallel/near-antiparallel vectors.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// Distance3 returns the Euclidean distance between a and b.
func Distance3(a, b Vector) float64 {
	return a.Sub(b).Length()
}
