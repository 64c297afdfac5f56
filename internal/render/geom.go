package render

import "math"

// GeoM is a 2D affine transform
//
//	| a  b  tx |
//	| c  d  ty |
//
// The zero value is the identity.
type GeoM struct {
	a1 float64 // a - 1
	b  float64
	c  float64
	d1 float64 // d - 1
	tx float64
	ty float64
}

// Reset resets the matrix to identity.
func (g *GeoM) Reset() {
	*g = GeoM{}
}

// Element returns the value at row i, column j.
func (g *GeoM) Element(i, j int) float64 {
	switch {
	case i == 0 && j == 0:
		return g.a1 + 1
	case i == 0 && j == 1:
		return g.b
	case i == 0 && j == 2:
		return g.tx
	case i == 1 && j == 0:
		return g.c
	case i == 1 && j == 1:
		return g.d1 + 1
	case i == 1 && j == 2:
		return g.ty
	default:
		panic("render: GeoM.Element: index out of range")
	}
}

// SetElement sets the value at row i, column j.
func (g *GeoM) SetElement(i, j int, v float64) {
	switch {
	case i == 0 && j == 0:
		g.a1 = v - 1
	case i == 0 && j == 1:
		g.b = v
	case i == 0 && j == 2:
		g.tx = v
	case i == 1 && j == 0:
		g.c = v
	case i == 1 && j == 1:
		g.d1 = v - 1
	case i == 1 && j == 2:
		g.ty = v
	default:
		panic("render: GeoM.SetElement: index out of range")
	}
}

// Concat multiplies the matrix by other on the left: g = other * g.
func (g *GeoM) Concat(other GeoM) {
	a, b, c, d := g.a1+1, g.b, g.c, g.d1+1
	oa, ob, oc, od := other.a1+1, other.b, other.c, other.d1+1

	na := oa*a + ob*c
	nb := oa*b + ob*d
	nc := oc*a + od*c
	nd := oc*b + od*d
	ntx := oa*g.tx + ob*g.ty + other.tx
	nty := oc*g.tx + od*g.ty + other.ty

	g.a1, g.b, g.c, g.d1 = na-1, nb, nc, nd-1
	g.tx, g.ty = ntx, nty
}

// Translate shifts the transform by (tx, ty).
func (g *GeoM) Translate(tx, ty float64) {
	g.tx += tx
	g.ty += ty
}

// Scale scales the transform by (sx, sy).
func (g *GeoM) Scale(sx, sy float64) {
	a, b, c, d := g.a1+1, g.b, g.c, g.d1+1
	g.a1 = a*sx - 1
	g.b = b * sx
	g.c = c * sy
	g.d1 = d*sy - 1
	g.tx *= sx
	g.ty *= sy
}

// Rotate rotates the transform by theta radians.
func (g *GeoM) Rotate(theta float64) {
	if theta == 0 {
		return
	}
	sin, cos := math.Sincos(theta)
	g.Concat(GeoM{a1: cos - 1, b: -sin, c: sin, d1: cos - 1})
}

// Apply transforms the point (x, y).
func (g *GeoM) Apply(x, y float64) (float64, float64) {
	return (g.a1+1)*x + g.b*y + g.tx, g.c*x + (g.d1+1)*y + g.ty
}

// Det returns the determinant of the linear part.
func (g *GeoM) Det() float64 {
	return (g.a1+1)*(g.d1+1) - g.b*g.c
}

// IsInvertible reports whether the matrix has an inverse.
func (g *GeoM) IsInvertible() bool {
	return g.Det() != 0
}

// Invert inverts the matrix. A singular matrix is left unchanged and
// Invert returns false.
func (g *GeoM) Invert() bool {
	det := g.Det()
	if det == 0 {
		return false
	}
	a, b, c, d := g.a1+1, g.b, g.c, g.d1+1
	ia := d / det
	ib := -b / det
	ic := -c / det
	id := a / det
	itx := -(ia*g.tx + ib*g.ty)
	ity := -(ic*g.tx + id*g.ty)

	g.a1, g.b, g.c, g.d1 = ia-1, ib, ic, id-1
	g.tx, g.ty = itx, ity
	return true
}
