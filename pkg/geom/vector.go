package geom

import "math"

// Vector2 is a point or direction in the drawing plane.
//
// All methods use value receivers and return new vectors, so a Vector2 can be
// copied freely. The layout engine relies on this to snapshot positions before
// a trial rotation and restore them bit-for-bit afterwards.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vector2{x, y}.
func V(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

// Add returns v + w.
func (v Vector2) Add(w Vector2) Vector2 { return Vector2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vector2) Sub(w Vector2) Vector2 { return Vector2{v.X - w.X, v.Y - w.Y} }

// Mul returns the component-wise product of v and w.
func (v Vector2) Mul(w Vector2) Vector2 { return Vector2{v.X * w.X, v.Y * w.Y} }

// Scale returns v multiplied by s.
func (v Vector2) Scale(s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Div returns v divided by s.
func (v Vector2) Div(s float64) Vector2 { return Vector2{v.X / s, v.Y / s} }

// Invert returns -v.
func (v Vector2) Invert() Vector2 { return Vector2{-v.X, -v.Y} }

// Length returns the euclidean norm of v.
func (v Vector2) Length() float64 { return math.Hypot(v.X, v.Y) }

// LengthSq returns the squared norm of v.
func (v Vector2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// Angle returns the angle of v relative to the positive x axis, in radians.
func (v Vector2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Distance returns the distance between v and w.
func (v Vector2) Distance(w Vector2) float64 { return math.Sqrt(v.DistanceSq(w)) }

// DistanceSq returns the squared distance between v and w.
func (v Vector2) DistanceSq(w Vector2) float64 {
	dx, dy := w.X-v.X, w.Y-v.Y
	return dx*dx + dy*dy
}

// Clockwise reports the turn direction from v to w around the origin:
// -1 for clockwise, 0 for collinear and 1 for counter-clockwise.
func (v Vector2) Clockwise(w Vector2) int {
	a := v.Y * w.X
	b := v.X * w.Y
	switch {
	case a > b:
		return -1
	case a == b:
		return 0
	}
	return 1
}

// RelativeClockwise is like Clockwise but measured around center.
func (v Vector2) RelativeClockwise(center, w Vector2) int {
	a := (v.Y - center.Y) * (w.X - center.X)
	b := (v.X - center.X) * (w.Y - center.Y)
	switch {
	case a > b:
		return -1
	case a == b:
		return 0
	}
	return 1
}

// Rotate returns v rotated by angle radians around the origin.
func (v Vector2) Rotate(angle float64) Vector2 {
	s, c := math.Sincos(angle)
	return Vector2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// RotateAround returns v rotated by angle radians around origin.
func (v Vector2) RotateAround(angle float64, origin Vector2) Vector2 {
	return v.Sub(origin).Rotate(angle).Add(origin)
}

// RotateTo returns v rotated around center so that it points from center
// towards target, keeping its distance to center. An extra offset angle is
// added to the result.
func (v Vector2) RotateTo(target, center Vector2, offset float64) Vector2 {
	a := v.Sub(center).Normalize()
	b := target.Sub(center).Normalize()
	angle := math.Atan2(a.X*b.Y-a.Y*b.X, a.X*b.X+a.Y*b.Y)
	return v.RotateAround(angle+offset, center)
}

// GetRotateAwayFromAngle returns either angle or -angle, whichever moves v
// (rotated around center) further away from target.
func (v Vector2) GetRotateAwayFromAngle(target, center Vector2, angle float64) float64 {
	tmp := v.RotateAround(angle, center)
	distA := tmp.DistanceSq(target)
	tmp = tmp.RotateAround(-2*angle, center)
	distB := tmp.DistanceSq(target)
	if distB < distA {
		return angle
	}
	return -angle
}

// RotateAwayFrom returns v rotated around center by angle or -angle,
// whichever ends up further from target.
func (v Vector2) RotateAwayFrom(target, center Vector2, angle float64) Vector2 {
	return v.RotateAround(v.GetRotateAwayFromAngle(target, center, angle), center)
}

// IsNaN reports whether either component of v is NaN.
func (v Vector2) IsNaN() bool { return math.IsNaN(v.X) || math.IsNaN(v.Y) }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vector2) Vector2 {
	return Vector2{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Normals returns the two unit normals of the segment a→b, first the left
// then the right one. A degenerate segment yields zero vectors.
func Normals(a, b Vector2) [2]Vector2 {
	d := b.Sub(a).Normalize()
	return [2]Vector2{{-d.Y, d.X}, {d.Y, -d.X}}
}

// Centroid returns the arithmetic mean of points. It returns the zero vector
// for an empty slice.
func Centroid(points []Vector2) Vector2 {
	if len(points) == 0 {
		return Vector2{}
	}
	var sum Vector2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Div(float64(len(points)))
}

// ToRad converts degrees to radians.
func ToRad(deg float64) float64 { return deg * math.Pi / 180 }

// ToDeg converts radians to degrees.
func ToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// PolygonRadius returns the circumradius of a regular polygon with n sides of
// the given side length.
func PolygonRadius(side float64, n int) float64 {
	return side / (2 * math.Sin(math.Pi/float64(n)))
}

// CentralAngle returns the central angle of a regular polygon with n sides.
func CentralAngle(n int) float64 { return 2 * math.Pi / float64(n) }
