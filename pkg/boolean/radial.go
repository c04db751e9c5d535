package boolean

import (
	"math"
	"sort"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// ExtraTriIndex is the sentinel triangle index standing for a
// synthetic triangle that is not part of the mesh. The ambient-cell
// finder sorts one such triangle in with the real ones.
const ExtraTriIndex = math.MaxInt32

// faceOf resolves a triangle index to its face, honoring the
// ExtraTriIndex sentinel.
func faceOf(tm *mesh.Mesh, t int, extraTri *mesh.Face) *mesh.Face {
	if t == ExtraTriIndex {
		if extraTri == nil {
			panic("boolean: ExtraTriIndex without an extra triangle")
		}
		return extraTri
	}
	return tm.Face(t)
}

// findFlapVert returns the vertex of tri that is not an endpoint of e
// (the flap vertex), and whether e appears reversed in tri relative to
// its canonical order. Returns nil if e is not an edge of tri.
func findFlapVert(tri *mesh.Face, e Edge) (flap *mesh.Vert, rev bool) {
	switch {
	case tri.Vert[0] == e.V0():
		if tri.Vert[1] == e.V1() {
			return tri.Vert[2], false
		}
		if tri.Vert[2] != e.V1() {
			return nil, false
		}
		return tri.Vert[1], true
	case tri.Vert[1] == e.V0():
		if tri.Vert[2] == e.V1() {
			return tri.Vert[0], false
		}
		if tri.Vert[0] != e.V1() {
			return nil, false
		}
		return tri.Vert[2], true
	default:
		if tri.Vert[2] != e.V0() {
			return nil, false
		}
		if tri.Vert[0] == e.V1() {
			return tri.Vert[1], false
		}
		if tri.Vert[1] != e.V1() {
			return nil, false
		}
		return tri.Vert[0], true
	}
}

// sortTrisClass classifies tri against the pivot tri0, with which it
// shares edge e, as:
//
//	1: coplanar with tri0, same side of e (same flap vertex)
//	2: coplanar with tri0, opposite side of e
//	3: below the oriented plane of tri0
//	4: above the oriented plane of tri0
//
// Above and below use the non-reversed orientation of tri0. Because of
// how the intersected mesh was built, a class-1 triangle always has
// the same flap vertex as tri0.
func sortTrisClass(tri, tri0 *mesh.Face, e Edge) int {
	a0 := tri0.Vert[0].CoExact
	a1 := tri0.Vert[1].CoExact
	a2 := tri0.Vert[2].CoExact
	flapv0, rev0 := findFlapVert(tri0, e)
	flapv, _ := findFlapVert(tri, e)
	if flapv == nil || flapv0 == nil {
		panic("boolean: triangle does not contain its sort edge")
	}
	// Positive orient means the flap is below the oriented plane of
	// tri0.
	orient := exact.Orient3D(a0, a1, a2, flapv.CoExact)
	switch {
	case orient > 0:
		if rev0 {
			return 4
		}
		return 3
	case orient < 0:
		if rev0 {
			return 3
		}
		return 4
	default:
		if flapv == flapv0 {
			return 1
		}
		return 2
	}
}

// sortBySignedTriangleIndex orders a group of mutually coplanar
// triangles canonically: each index is signed negative if the triangle
// uses e reversed, the signed values are sorted ascending, and the
// magnitudes taken. This keeps duplicate triangles in an order that is
// consistent no matter which of their edges is being sorted around.
func sortBySignedTriangleIndex(g []int, e Edge, tm *mesh.Mesh, extraTri *mesh.Face) {
	signed := make([]int, len(g))
	for i, t := range g {
		_, rev := findFlapVert(faceOf(tm, t, extraTri), e)
		if rev {
			signed[i] = -t
		} else {
			signed[i] = t
		}
	}
	sort.Ints(signed)
	for i, s := range signed {
		if s < 0 {
			s = -s
		}
		g[i] = s
	}
}

// sortTrisAroundEdge sorts tris, which all contain edge e, into the
// order they appear geometrically clockwise when looking down e from
// its first vertex. t0 is the pivot of the top-level call; the merge
// step differs between the top-level call (where tris[0] == t0) and
// recursive calls, which is how the two are distinguished. If
// extraTri is non-nil, the index ExtraTriIndex refers to it.
//
// This is a quicksort-style divide and conquer: classify every
// triangle against the pivot with a single orientation test, sort the
// coplanar groups canonically and the above/below groups recursively,
// then concatenate. Input spans are typically only 3 or 4 long, so
// copying the groups is fine.
func sortTrisAroundEdge(tm *mesh.Mesh, e Edge, tris []int, t0 int, extraTri *mesh.Face) []int {
	if len(tris) == 0 {
		return nil
	}
	g1 := []int{tris[0]}
	var g2, g3, g4 []int
	// Classification is always against the first triangle of this
	// span; t0 only marks whether this is the top-level call, which
	// decides the merge order below.
	tri0 := faceOf(tm, tris[0], extraTri)
	for _, t := range tris[1:] {
		tri := faceOf(tm, t, extraTri)
		switch sortTrisClass(tri, tri0, e) {
		case 1:
			g1 = append(g1, t)
		case 2:
			g2 = append(g2, t)
		case 3:
			g3 = append(g3, t)
		case 4:
			g4 = append(g4, t)
		}
	}
	if len(g1) > 1 {
		sortBySignedTriangleIndex(g1, e, tm, extraTri)
	}
	if len(g2) > 1 {
		sortBySignedTriangleIndex(g2, e, tm, extraTri)
	}
	if len(g3) > 1 {
		g3 = sortTrisAroundEdge(tm, e, g3, t0, extraTri)
	}
	if len(g4) > 1 {
		g4 = sortTrisAroundEdge(tm, e, g4, t0, extraTri)
	}
	ans := make([]int, 0, len(g1)+len(g2)+len(g3)+len(g4))
	if tris[0] == t0 {
		ans = append(ans, g1...)
		ans = append(ans, g4...)
		ans = append(ans, g2...)
		ans = append(ans, g3...)
	} else {
		ans = append(ans, g3...)
		ans = append(ans, g1...)
		ans = append(ans, g4...)
		ans = append(ans, g2...)
	}
	return ans
}
