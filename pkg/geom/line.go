package geom

import "math"

// Line is a segment between two points. Left and Right refer to the endpoint
// with the smaller and larger x coordinate respectively.
type Line struct {
	From Vector2
	To   Vector2
}

// NewLine returns the segment from a to b.
func NewLine(a, b Vector2) Line { return Line{From: a, To: b} }

// Length returns the length of the segment.
func (l Line) Length() float64 { return l.From.Distance(l.To) }

// Angle returns the angle of the segment measured from its left to its right endpoint.
func (l Line) Angle() float64 { return l.Right().Sub(l.Left()).Angle() }

// Right returns the endpoint with the larger x coordinate.
func (l Line) Right() Vector2 {
	if l.From.X < l.To.X {
		return l.To
	}
	return l.From
}

// Left returns the endpoint with the smaller x coordinate.
func (l Line) Left() Vector2 {
	if l.From.X < l.To.X {
		return l.From
	}
	return l.To
}

// SetRight replaces the right endpoint.
func (l *Line) SetRight(p Vector2) {
	if l.From.X < l.To.X {
		l.To = p
	} else {
		l.From = p
	}
}

// SetLeft replaces the left endpoint.
func (l *Line) SetLeft(p Vector2) {
	if l.From.X < l.To.X {
		l.From = p
	} else {
		l.To = p
	}
}

// RotateToXAxis rotates the segment around its left endpoint so it lies
// parallel to the x axis.
func (l *Line) RotateToXAxis() {
	left := l.Left()
	l.SetRight(Vector2{left.X + l.Length(), left.Y})
}

// Rotate rotates the right endpoint around the left endpoint by theta.
func (l *Line) Rotate(theta float64) {
	left, right := l.Left(), l.Right()
	s, c := math.Sincos(theta)
	x := c*(right.X-left.X) - s*(right.Y-left.Y) + left.X
	y := s*(right.X-left.X) + c*(right.Y-left.Y) + left.Y
	l.SetRight(Vector2{x, y})
}

// ShortenFrom moves From towards To by the given amount.
func (l *Line) ShortenFrom(by float64) {
	f := l.To.Sub(l.From).Normalize().Scale(by)
	l.From = l.From.Add(f)
}

// ShortenTo moves To towards From by the given amount.
func (l *Line) ShortenTo(by float64) {
	f := l.From.Sub(l.To).Normalize().Scale(by)
	l.To = l.To.Add(f)
}

// ShortenRight shortens the segment at its right endpoint.
func (l *Line) ShortenRight(by float64) {
	if l.From.X < l.To.X {
		l.ShortenTo(by)
	} else {
		l.ShortenFrom(by)
	}
}

// ShortenLeft shortens the segment at its left endpoint.
func (l *Line) ShortenLeft(by float64) {
	if l.From.X < l.To.X {
		l.ShortenFrom(by)
	} else {
		l.ShortenTo(by)
	}
}

// Shorten shortens the segment symmetrically by the given total amount.
func (l *Line) Shorten(by float64) {
	f := l.From.Sub(l.To).Normalize().Scale(by / 2)
	l.To = l.To.Add(f)
	l.From = l.From.Sub(f)
}
