// Package cdt triangulates a simple polygon over exact rational
// coordinates. The entry point keeps the shape of a constrained
// Delaunay collaborator (verts in, triangles plus per-vertex and
// per-edge provenance out) so a richer triangulator can be swapped in,
// but the implementation is exact-arithmetic ear clipping: the boolean
// kernel only needs the constrained property (every input side present
// in the output, the interior exactly covered) and a deterministic
// result, not Delaunay optimality.
package cdt

import (
	"github.com/chazu/heartwood/pkg/exact"
)

// NoIndex marks a synthetic edge with no input counterpart.
const NoIndex = -1

// OutputMode selects which part of the triangulated plane is returned.
type OutputMode int

// Inside returns only triangles covering the polygon interior. It is
// the sole mode the boolean kernel uses.
const Inside OutputMode = 0

// Input is a polygon to triangulate: a vertex table and one or more
// faces given as index rings. The kernel passes a single CCW ring.
type Input struct {
	Vert []exact.Vec2
	Face [][]int
}

// Result is the triangulation. Vert parallels VertOrig; Edge parallels
// EdgeOrig. EdgeOrig[e] lists the input ring sides the output edge lies
// on (side i runs from ring position i to i+1); synthetic diagonals
// contribute NoIndex entries.
type Result struct {
	Vert     []exact.Vec2
	Edge     [][2]int
	Face     [][3]int
	VertOrig [][]int
	EdgeOrig [][]int
}

// ringVert is one entry of the live ear-clipping ring. edgeOrig is the
// provenance of the ring side leaving this vertex, NoIndex once the
// side is a clipped-in diagonal.
type ringVert struct {
	idx      int
	edgeOrig int
}

// Triangulate triangulates in.Face[0] of the input polygon. The ring
// must be simple and counterclockwise. Ear tips are chosen by scanning
// the ring in index order, so the result is reproducible.
func Triangulate(in Input, mode OutputMode) Result {
	_ = mode // Inside is the only mode.
	ring0 := in.Face[0]
	res := Result{
		Vert:     in.Vert,
		VertOrig: make([][]int, len(in.Vert)),
	}
	for i := range in.Vert {
		res.VertOrig[i] = []int{i}
	}
	if len(ring0) < 3 {
		return res
	}

	ring := make([]ringVert, len(ring0))
	for i, idx := range ring0 {
		ring[i] = ringVert{idx: idx, edgeOrig: i}
	}

	edgeIndex := make(map[[2]int]int)
	addEdge := func(a, b, orig int) {
		key := [2]int{a, b}
		if b < a {
			key = [2]int{b, a}
		}
		e, ok := edgeIndex[key]
		if !ok {
			e = len(res.Edge)
			edgeIndex[key] = e
			res.Edge = append(res.Edge, key)
			res.EdgeOrig = append(res.EdgeOrig, nil)
		}
		res.EdgeOrig[e] = append(res.EdgeOrig[e], orig)
	}
	emit := func(u, v, w ringVert, closing int) {
		res.Face = append(res.Face, [3]int{u.idx, v.idx, w.idx})
		addEdge(u.idx, v.idx, u.edgeOrig)
		addEdge(v.idx, w.idx, v.edgeOrig)
		addEdge(w.idx, u.idx, closing)
	}

	for len(ring) > 3 {
		tip := findEar(in.Vert, ring)
		if tip < 0 {
			// No clippable ear: the ring is degenerate. Emit what is
			// left as a fan so every input side still appears.
			break
		}
		n := len(ring)
		u := ring[(tip+n-1)%n]
		v := ring[tip]
		w := ring[(tip+1)%n]
		emit(u, v, w, NoIndex)
		// u now connects to w along the new diagonal.
		ring[(tip+n-1)%n].edgeOrig = NoIndex
		ring = append(ring[:tip], ring[tip+1:]...)
	}
	if len(ring) == 3 {
		emit(ring[0], ring[1], ring[2], ring[2].edgeOrig)
	} else if len(ring) > 3 {
		for i := 1; i < len(ring)-1; i++ {
			res.Face = append(res.Face, [3]int{ring[0].idx, ring[i].idx, ring[i+1].idx})
			if i == 1 {
				addEdge(ring[0].idx, ring[1].idx, ring[0].edgeOrig)
			} else {
				addEdge(ring[0].idx, ring[i].idx, NoIndex)
			}
			addEdge(ring[i].idx, ring[i+1].idx, ring[i].edgeOrig)
			if i == len(ring)-2 {
				addEdge(ring[i+1].idx, ring[0].idx, ring[len(ring)-1].edgeOrig)
			} else {
				addEdge(ring[i+1].idx, ring[0].idx, NoIndex)
			}
		}
	}
	return res
}

// findEar returns the ring position of the first clippable ear tip, or
// -1 if none exists. A tip is clippable when it is strictly convex and
// no other ring vertex lies inside or on its triangle.
func findEar(verts []exact.Vec2, ring []ringVert) int {
	n := len(ring)
	for tip := 0; tip < n; tip++ {
		a := verts[ring[(tip+n-1)%n].idx]
		b := verts[ring[tip].idx]
		c := verts[ring[(tip+1)%n].idx]
		if exact.Orient2D(a, b, c) <= 0 {
			continue
		}
		ok := true
		for j := 0; j < n; j++ {
			if j == tip || j == (tip+n-1)%n || j == (tip+1)%n {
				continue
			}
			if pointInTriangle(verts[ring[j].idx], a, b, c) {
				ok = false
				break
			}
		}
		if ok {
			return tip
		}
	}
	return -1
}

// pointInTriangle reports whether p lies inside or on the CCW triangle
// (a, b, c). Boundary counts as inside so ears that would graze another
// vertex are rejected.
func pointInTriangle(p, a, b, c exact.Vec2) bool {
	return exact.Orient2D(a, b, p) >= 0 &&
		exact.Orient2D(b, c, p) >= 0 &&
		exact.Orient2D(c, a, p) >= 0
}
