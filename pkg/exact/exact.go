// Package exact provides the exact rational arithmetic used by the
// boolean kernel: rational 2- and 3-vectors and the orientation
// predicates built on them. Every predicate is computed over
// arbitrary-precision rationals, so results are deterministic and
// machine-independent. The package is a leaf: nothing here knows about
// meshes, and the rest of the system reaches exact arithmetic only
// through these types.
package exact

import "math/big"

// Rat returns a new rational with value a/b. It panics if b is zero.
func Rat(a, b int64) *big.Rat {
	return big.NewRat(a, b)
}

// Int returns a new rational with integer value n.
func Int(n int64) *big.Rat {
	return new(big.Rat).SetInt64(n)
}

// FromFloat returns a rational exactly equal to f. Every finite float64
// has an exact rational value, so no rounding occurs. It panics on NaN
// or infinity.
func FromFloat(f float64) *big.Rat {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("exact: non-finite float")
	}
	return r
}

// Vec3 is a 3-vector of exact rationals. Components are never shared
// between vectors: every operation allocates fresh rationals, so a Vec3
// may be treated as a value.
type Vec3 struct {
	X, Y, Z *big.Rat
}

// V3 builds a Vec3 from integer components.
func V3(x, y, z int64) Vec3 {
	return Vec3{Int(x), Int(y), Int(z)}
}

// V3Rat builds a Vec3 from rational components, copying them.
func V3Rat(x, y, z *big.Rat) Vec3 {
	return Vec3{new(big.Rat).Set(x), new(big.Rat).Set(y), new(big.Rat).Set(z)}
}

// Clone returns an independent copy of v.
func (v Vec3) Clone() Vec3 {
	return V3Rat(v.X, v.Y, v.Z)
}

// Comp returns component i (0=X, 1=Y, 2=Z).
func (v Vec3) Comp(i int) *big.Rat {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("exact: Vec3 component out of range")
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{
		new(big.Rat).Add(v.X, w.X),
		new(big.Rat).Add(v.Y, w.Y),
		new(big.Rat).Add(v.Z, w.Z),
	}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{
		new(big.Rat).Sub(v.X, w.X),
		new(big.Rat).Sub(v.Y, w.Y),
		new(big.Rat).Sub(v.Z, w.Z),
	}
}

// Dot returns the dot product v · w.
func (v Vec3) Dot(w Vec3) *big.Rat {
	d := new(big.Rat).Mul(v.X, w.X)
	d.Add(d, new(big.Rat).Mul(v.Y, w.Y))
	d.Add(d, new(big.Rat).Mul(v.Z, w.Z))
	return d
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	x := new(big.Rat).Mul(v.Y, w.Z)
	x.Sub(x, new(big.Rat).Mul(v.Z, w.Y))
	y := new(big.Rat).Mul(v.Z, w.X)
	y.Sub(y, new(big.Rat).Mul(v.X, w.Z))
	z := new(big.Rat).Mul(v.X, w.Y)
	z.Sub(z, new(big.Rat).Mul(v.Y, w.X))
	return Vec3{x, y, z}
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X.Sign() == 0 && v.Y.Sign() == 0 && v.Z.Sign() == 0
}

// Equal reports exact component-wise equality.
func (v Vec3) Equal(w Vec3) bool {
	return v.X.Cmp(w.X) == 0 && v.Y.Cmp(w.Y) == 0 && v.Z.Cmp(w.Z) == 0
}

// Float returns the closest float64 approximation of each component.
func (v Vec3) Float() (x, y, z float64) {
	x, _ = v.X.Float64()
	y, _ = v.Y.Float64()
	z, _ = v.Z.Float64()
	return x, y, z
}

// DominantAxis returns the index (0=X, 1=Y, 2=Z) of the component of v
// with the largest absolute value. Ties prefer the earlier axis.
func (v Vec3) DominantAxis() int {
	ax := new(big.Rat).Abs(v.X)
	ay := new(big.Rat).Abs(v.Y)
	az := new(big.Rat).Abs(v.Z)
	if ax.Cmp(ay) >= 0 {
		if ax.Cmp(az) >= 0 {
			return 0
		}
		return 2
	}
	if ay.Cmp(az) >= 0 {
		return 1
	}
	return 2
}

// Orient3D returns the sign of the determinant
//
//	| a.X-d.X  a.Y-d.Y  a.Z-d.Z |
//	| b.X-d.X  b.Y-d.Y  b.Z-d.Z |
//	| c.X-d.X  c.Y-d.Y  c.Z-d.Z |
//
// which is six times the signed volume of the tetrahedron (a, b, c, d).
// The result is positive when d lies below the plane through a, b, c,
// with "below" meaning the side from which a, b, c appear clockwise.
func Orient3D(a, b, c, d Vec3) int {
	ad := a.Sub(d)
	bd := b.Sub(d)
	cd := c.Sub(d)
	det := ad.Dot(bd.Cross(cd))
	return det.Sign()
}

// Vec2 is a 2-vector of exact rationals, used for in-plane work after
// projecting a face along the dominant axis of its normal.
type Vec2 struct {
	X, Y *big.Rat
}

// V2 builds a Vec2 from integer components.
func V2(x, y int64) Vec2 {
	return Vec2{Int(x), Int(y)}
}

// V2Rat builds a Vec2 from rational components, copying them.
func V2Rat(x, y *big.Rat) Vec2 {
	return Vec2{new(big.Rat).Set(x), new(big.Rat).Set(y)}
}

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{new(big.Rat).Sub(v.X, w.X), new(big.Rat).Sub(v.Y, w.Y)}
}

// Equal reports exact component-wise equality.
func (v Vec2) Equal(w Vec2) bool {
	return v.X.Cmp(w.X) == 0 && v.Y.Cmp(w.Y) == 0
}

// Orient2D returns the sign of the cross product (b-a) × (c-a):
// positive when a, b, c wind counterclockwise, negative when clockwise,
// zero when collinear.
func Orient2D(a, b, c Vec2) int {
	ab := b.Sub(a)
	ac := c.Sub(a)
	det := new(big.Rat).Mul(ab.X, ac.Y)
	det.Sub(det, new(big.Rat).Mul(ab.Y, ac.X))
	return det.Sign()
}
