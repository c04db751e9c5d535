package boolean

import (
	"github.com/chazu/heartwood/pkg/cdt"
	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// findCDTEdge returns the index of the triangulation output edge
// between output verts v1 and v2 (in either order), or NoIndex.
func findCDTEdge(out *cdt.Result, v1, v2 int) int {
	for e, ev := range out.Edge {
		if (ev[0] == v1 && ev[1] == v2) || (ev[0] == v2 && ev[1] == v1) {
			return e
		}
	}
	return NoIndex
}

// triangulatePoly triangulates polygon f and returns the triangle
// faces. The polygon is projected along the dominant axis of its
// normal; the projected ring is reversed whenever the projection
// flips handedness (dropping the y axis of a polygon facing +y does,
// as does dropping the x or z axis of a polygon whose normal points
// along -x or -z). Each output edge keeps the original edge index of the
// polygon side it lies on; diagonals introduced here get NoIndex, so
// the detriangulator can identify and dissolve them later.
func triangulatePoly(f *mesh.Face, arena *mesh.Arena) []*mesh.Face {
	flen := f.Len()
	axis := f.Plane.Norm.DominantAxis()
	flip := (axis == 1) == (f.Plane.Norm.Comp(axis).Sign() > 0)

	verts := make([]exact.Vec2, flen)
	for i := 0; i < flen; i++ {
		co := f.Vert[i].CoExact
		switch axis {
		case 0:
			verts[i] = exact.V2Rat(co.Y, co.Z)
		case 1:
			verts[i] = exact.V2Rat(co.X, co.Z)
		default:
			verts[i] = exact.V2Rat(co.X, co.Y)
		}
	}
	ring := make([]int, flen)
	// ringSide[k] is the index of the polygon side that ring side k
	// (from ring position k to k+1) runs along.
	ringSide := make([]int, flen)
	for i := 0; i < flen; i++ {
		if flip {
			ring[i] = flen - 1 - i
			if i == flen-1 {
				ringSide[i] = flen - 1
			} else {
				ringSide[i] = flen - 2 - i
			}
		} else {
			ring[i] = i
			ringSide[i] = i
		}
	}

	out := cdt.Triangulate(cdt.Input{Vert: verts, Face: [][]int{ring}}, cdt.Inside)

	ans := make([]*mesh.Face, len(out.Face))
	for t, face := range out.Face {
		var v [3]*mesh.Vert
		var eo [3]int
		for i := 0; i < 3; i++ {
			v[i] = f.Vert[out.VertOrig[face[i]][0]]
		}
		for i := 0; i < 3; i++ {
			eOut := findCDTEdge(&out, face[i], face[(i+1)%3])
			if eOut == NoIndex {
				panic("boolean: triangulation lost an edge")
			}
			eo[i] = NoIndex
			for _, side := range out.EdgeOrig[eOut] {
				if side != cdt.NoIndex {
					eo[i] = f.EdgeOrig[ringSide[side]]
					break
				}
			}
		}
		vs := v[:]
		eos := eo[:]
		if flip {
			// The triangulation was built on the reversed ring; put
			// the triangles back in the polygon's own orientation.
			vs = []*mesh.Vert{v[0], v[2], v[1]}
			eos = []int{eo[2], eo[1], eo[0]}
		}
		ans[t] = arena.AddFace(vs, f.Orig, eos)
	}
	return ans
}

// triangulatePolymesh returns a triangle mesh covering the general
// polygonal mesh pm. Triangles are kept, quads are split on the 0-2
// diagonal, and larger polygons go through the constrained
// triangulation. Diagonals added here are identifiable by an original
// edge index of NoIndex.
func triangulatePolymesh(pm mesh.Mesh, arena *mesh.Arena) mesh.Mesh {
	faceTris := make([]*mesh.Face, 0, 3*pm.FaceCount())
	for _, f := range pm.Faces() {
		switch f.Len() {
		case 3:
			faceTris = append(faceTris, f)
		case 4:
			v0, v1, v2, v3 := f.Vert[0], f.Vert[1], f.Vert[2], f.Vert[3]
			eo01, eo12, eo23, eo30 := f.EdgeOrig[0], f.EdgeOrig[1], f.EdgeOrig[2], f.EdgeOrig[3]
			f0 := arena.AddFace([]*mesh.Vert{v0, v1, v2}, f.Orig, []int{eo01, eo12, NoIndex})
			f1 := arena.AddFace([]*mesh.Vert{v0, v2, v3}, f.Orig, []int{NoIndex, eo23, eo30})
			faceTris = append(faceTris, f0, f1)
		default:
			faceTris = append(faceTris, triangulatePoly(f, arena)...)
		}
	}
	return mesh.New(faceTris)
}
