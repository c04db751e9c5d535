package boolean

import (
	"log"
	"math/big"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// rayDirections are the candidate directions for containment ray
// casts. The axis ray handles most meshes; the fractional fallbacks
// break ties when a cast grazes an edge or vertex of a lattice-aligned
// input. The first three are linearly independent, so no plane is
// parallel to every candidate, and the list is fixed, so retries are
// reproducible.
func rayDirections() []exact.Vec3 {
	return []exact.Vec3{
		exact.V3(1, 0, 0),
		{X: exact.Int(1), Y: exact.Rat(1, 3), Z: exact.Rat(1, 7)},
		{X: exact.Int(1), Y: exact.Rat(1, 5), Z: exact.Rat(1, 11)},
		{X: exact.Int(1), Y: exact.Rat(2, 7), Z: exact.Rat(3, 13)},
		{X: exact.Int(1), Y: exact.Rat(3, 11), Z: exact.Rat(5, 17)},
		{X: exact.Int(1), Y: exact.Rat(5, 13), Z: exact.Rat(7, 19)},
		{X: exact.Int(1), Y: exact.Rat(7, 17), Z: exact.Rat(11, 23)},
		{X: exact.Int(1), Y: exact.Rat(11, 19), Z: exact.Rat(13, 29)},
	}
}

// project2 drops the given axis from a 3-vector.
func project2(co exact.Vec3, axis int) exact.Vec2 {
	switch axis {
	case 0:
		return exact.V2Rat(co.Y, co.Z)
	case 1:
		return exact.V2Rat(co.X, co.Z)
	default:
		return exact.V2Rat(co.X, co.Y)
	}
}

// windingOfPoint computes the per-shape winding numbers of point p
// against every triangle of tm not marked in skip, by casting a ray
// from p and summing signed crossings: +1 for a triangle whose normal
// has a positive component along the ray, -1 otherwise. Surfaces that
// do not enclose p contribute zero net crossings, so the result is
// p's winding vector with respect to the unskipped shapes.
//
// A cast that grazes a triangle edge or vertex, or runs inside a
// triangle's plane, retries with the next candidate direction.
// Returns ok=false when p lies on an unskipped triangle or every
// direction grazes, both of which indicate malformed input.
func windingOfPoint(p exact.Vec3, tm *mesh.Mesh, skip []bool, nshapes int, shape ShapeFn) ([]int, bool) {
directions:
	for _, d := range rayDirections() {
		w := make([]int, nshapes)
		for t := 0; t < tm.FaceCount(); t++ {
			if skip[t] {
				continue
			}
			f := tm.Face(t)
			n := f.Plane.Norm
			axis := n.DominantAxis()
			a2 := project2(f.Vert[0].CoExact, axis)
			b2 := project2(f.Vert[1].CoExact, axis)
			c2 := project2(f.Vert[2].CoExact, axis)
			o := exact.Orient2D(a2, b2, c2)
			if o == 0 {
				// Zero-area triangle; nothing to cross.
				continue
			}
			denom := n.Dot(d)
			val := n.Dot(p)
			val.Add(val, f.Plane.D)
			if val.Sign() == 0 {
				// p lies on the triangle's plane. On the triangle
				// itself means p sits on another surface, which no
				// direction can fix; beside it the triangle cannot
				// be crossed.
				q2 := project2(p, axis)
				if sameSideOrOn(a2, b2, c2, q2, o) {
					return nil, false
				}
				continue
			}
			if denom.Sign() == 0 {
				// Plane parallel to the ray and p off the plane.
				continue
			}
			tpar := new(big.Rat).Neg(val)
			tpar.Quo(tpar, denom)
			if tpar.Sign() <= 0 {
				continue
			}
			q := exact.Vec3{
				X: new(big.Rat).Add(p.X, new(big.Rat).Mul(tpar, d.X)),
				Y: new(big.Rat).Add(p.Y, new(big.Rat).Mul(tpar, d.Y)),
				Z: new(big.Rat).Add(p.Z, new(big.Rat).Mul(tpar, d.Z)),
			}
			q2 := project2(q, axis)
			s1 := exact.Orient2D(a2, b2, q2)
			s2 := exact.Orient2D(b2, c2, q2)
			s3 := exact.Orient2D(c2, a2, q2)
			if s1 == 0 || s2 == 0 || s3 == 0 {
				// Grazed a triangle boundary.
				continue directions
			}
			if s1 == o && s2 == o && s3 == o {
				w[shape(t)] += denom.Sign()
			}
		}
		return w, true
	}
	log.Printf("boolean: containment ray cast exhausted directions")
	return nil, false
}

// sameSideOrOn reports whether q lies inside or on the triangle
// (a, b, c) whose orientation sign is o.
func sameSideOrOn(a, b, c, q exact.Vec2, o int) bool {
	for _, s := range []int{
		exact.Orient2D(a, b, q),
		exact.Orient2D(b, c, q),
		exact.Orient2D(c, a, q),
	} {
		if s != 0 && s != o {
			return false
		}
	}
	return true
}
