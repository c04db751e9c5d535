package mesh

import (
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/heartwood/pkg/exact"
)

// Arena owns every Vert and Face in a boolean run. It deduplicates
// vertices on their exact coordinate, so two faces built through the
// same arena share *Vert handles wherever their corners coincide
// exactly. Vertex IDs are assigned densely in insertion order, which
// keeps every ID-keyed ordering reproducible from run to run.
type Arena struct {
	verts   []*Vert
	faces   []*Face
	byCoord map[coordKey]*Vert
}

// coordKey is the canonical form of an exact coordinate. RatString is
// always fully reduced, so equal rationals produce equal keys.
type coordKey struct {
	x, y, z string
}

func keyOf(co exact.Vec3) coordKey {
	return coordKey{co.X.RatString(), co.Y.RatString(), co.Z.RatString()}
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{byCoord: make(map[coordKey]*Vert)}
}

// VertCount returns the number of distinct vertices allocated.
func (a *Arena) VertCount() int {
	return len(a.verts)
}

// FaceCount returns the number of faces allocated.
func (a *Arena) FaceCount() int {
	return len(a.faces)
}

// AddOrFindVert returns the vertex at exactly co, allocating it if no
// vertex with that coordinate exists yet. The orig of an existing
// vertex is preserved; orig only applies to a fresh allocation.
func (a *Arena) AddOrFindVert(co exact.Vec3, orig int) *Vert {
	k := keyOf(co)
	if v, ok := a.byCoord[k]; ok {
		return v
	}
	x, y, z := co.Float()
	v := &Vert{
		CoExact: co.Clone(),
		Co:      r3.Vec{X: x, Y: y, Z: z},
		ID:      len(a.verts),
		Orig:    orig,
	}
	a.verts = append(a.verts, v)
	a.byCoord[k] = v
	return v
}

// AddFace allocates a face over the given vertex cycle. edgeOrigs must
// parallel verts (edgeOrigs[i] belongs to side verts[i]→verts[i+1]).
// The face's support plane is computed once here, by Newell's method
// over exact coordinates, and cached.
func (a *Arena) AddFace(verts []*Vert, orig int, edgeOrigs []int) *Face {
	if len(edgeOrigs) != len(verts) {
		panic("mesh: edgeOrigs must parallel verts")
	}
	f := &Face{
		Vert:     append([]*Vert(nil), verts...),
		Orig:     orig,
		EdgeOrig: append([]int(nil), edgeOrigs...),
		Plane:    facePlane(verts),
	}
	a.faces = append(a.faces, f)
	return f
}

// facePlane computes the exact support plane of a vertex cycle. For a
// triangle this reduces to the cross product of two sides; Newell's
// sum handles larger polygons the same way.
func facePlane(verts []*Vert) Plane {
	norm := exact.V3(0, 0, 0)
	n := len(verts)
	for i := 0; i < n; i++ {
		vi := verts[i].CoExact
		vj := verts[(i+1)%n].CoExact
		norm = norm.Add(vi.Cross(vj))
	}
	d := new(big.Rat).Neg(norm.Dot(verts[0].CoExact))
	return Plane{Norm: norm, D: d}
}
