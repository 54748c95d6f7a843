package geom

import "math"

// Affine is a 2D affine transform in CSS matrix(a, b, c, d, tx, ty) order:
//
//	| a c tx |
//	| b d ty |
type Affine struct {
	A  float64
	B  float64
	C  float64
	D  float64
	Tx float64
	Ty float64
}

// TransformParams are the authored parameters of a background image
// transform, applied about the image center (CX, CY).
type TransformParams struct {
	CX     float64
	CY     float64
	Scale  float64
	Angle  float64 // radians
	ShearX float64
	ShearY float64
	SignX  float64 // -1 or +1
	SignY  float64 // -1 or +1
	Flip   bool
}

// Compose builds the affine transform
//
//	translate(cx, cy) · rotate(angle) · skew(shearX, shearY) · scale(sx, sy)
//
// where sx = scale·signX·(flip ? -1 : 1) and sy = scale·signY. Flip
// composes multiplicatively with signX; it never replaces it.
func Compose(p TransformParams) Affine {
	signX := p.SignX
	if signX == 0 {
		signX = 1
	}
	signY := p.SignY
	if signY == 0 {
		signY = 1
	}
	sx := p.Scale * signX
	if p.Flip {
		sx = -sx
	}
	sy := p.Scale * signY

	cos := math.Cos(p.Angle)
	sin := math.Sin(p.Angle)

	// rotate · skew
	a := cos + -sin*p.ShearY
	b := sin + cos*p.ShearY
	c := cos*p.ShearX - sin
	d := sin*p.ShearX + cos

	return Affine{
		A:  a * sx,
		B:  b * sx,
		C:  c * sy,
		D:  d * sy,
		Tx: p.CX,
		Ty: p.CY,
	}
}

// Apply maps a point through the transform.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.Tx, m.B*x + m.D*y + m.Ty
}
