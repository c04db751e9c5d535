// Package mesh defines the vertex, face, and mesh types shared by the
// boolean kernel, together with the arena that owns them. Vertices
// carry both an exact rational coordinate (used for all predicates)
// and a float mirror (used only for length metrics). Faces are ordered
// vertex sequences with provenance indices back to the input mesh.
package mesh

import (
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/heartwood/pkg/exact"
)

// NoIndex marks a missing provenance index: a synthetic vertex, face,
// or edge that has no counterpart in the input mesh.
const NoIndex = -1

// Vert is a mesh vertex. Verts are allocated by an Arena and compared
// by pointer identity: two *Vert are the same vertex iff they are the
// same arena entry. ID is a stable small integer used for hashing and
// canonical ordering.
type Vert struct {
	// CoExact is the exact position, used by all geometric predicates.
	CoExact exact.Vec3
	// Co is the float approximation of CoExact, for length metrics only.
	Co r3.Vec
	// ID is the arena-assigned identity, dense from zero.
	ID int
	// Orig is the input vertex this one came from, or NoIndex.
	Orig int
}

// Plane is a face's cached support plane: Norm · p + D == 0 for every
// point p of the face.
type Plane struct {
	Norm exact.Vec3
	D    *big.Rat
}

// Face is an ordered sequence of vertices winding counterclockwise
// around the face normal. A Face with three vertices is a triangle.
type Face struct {
	// Vert is the boundary vertex cycle.
	Vert []*Vert
	// Orig is the input face this one came from, or NoIndex.
	Orig int
	// EdgeOrig[i] is the input edge that side (Vert[i], Vert[i+1])
	// came from, or NoIndex for edges introduced by triangulation or
	// intersection.
	EdgeOrig []int
	// Plane is the cached exact support plane.
	Plane Plane
}

// Len returns the number of vertices (and sides) of the face.
func (f *Face) Len() int {
	return len(f.Vert)
}

// IsTri reports whether the face is a triangle.
func (f *Face) IsTri() bool {
	return len(f.Vert) == 3
}

// NextPos returns the position after i in the vertex cycle.
func (f *Face) NextPos(i int) int {
	return (i + 1) % len(f.Vert)
}

// PrevPos returns the position before i in the vertex cycle.
func (f *Face) PrevPos(i int) int {
	return (i + len(f.Vert) - 1) % len(f.Vert)
}

// CyclicEqual reports whether f and g have the same vertex cycle up to
// rotation (but not reflection).
func (f *Face) CyclicEqual(g *Face) bool {
	n := len(f.Vert)
	if n != len(g.Vert) {
		return false
	}
	for off := 0; off < n; off++ {
		match := true
		for i := 0; i < n; i++ {
			if f.Vert[i] != g.Vert[(i+off)%n] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Mesh is an ordered sequence of faces plus a lazily built vertex
// index derived from them. A Mesh is a value: copying one yields
// another read-only view of the same faces.
type Mesh struct {
	faces []*Face

	verts     []*Vert
	vertIndex map[*Vert]int
}

// New returns a mesh over the given faces. The face slice is retained.
func New(faces []*Face) Mesh {
	return Mesh{faces: faces}
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// Face returns face i.
func (m *Mesh) Face(i int) *Face {
	return m.faces[i]
}

// Faces returns the face slice. Callers must not modify it.
func (m *Mesh) Faces() []*Face {
	return m.faces
}

// IsEmpty reports whether the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.faces) == 0
}

// PopulateVerts builds the vertex index if it is not already built.
// Vertices are numbered in order of first appearance, scanning faces
// in index order, so the numbering is deterministic.
func (m *Mesh) PopulateVerts() {
	if m.vertIndex != nil {
		return
	}
	m.vertIndex = make(map[*Vert]int)
	for _, f := range m.faces {
		for _, v := range f.Vert {
			if _, ok := m.vertIndex[v]; !ok {
				m.vertIndex[v] = len(m.verts)
				m.verts = append(m.verts, v)
			}
		}
	}
}

// VertCount returns the number of distinct vertices. PopulateVerts
// must have been called.
func (m *Mesh) VertCount() int {
	return len(m.verts)
}

// Vert returns vertex i of the populated index.
func (m *Mesh) Vert(i int) *Vert {
	return m.verts[i]
}

// LookupVert returns the index of v in the populated index, or NoIndex.
func (m *Mesh) LookupVert(v *Vert) int {
	if i, ok := m.vertIndex[v]; ok {
		return i
	}
	return NoIndex
}

// SetDirtyVerts discards the vertex index; the next PopulateVerts
// rebuilds it. Call after replacing faces.
func (m *Mesh) SetDirtyVerts() {
	m.verts = nil
	m.vertIndex = nil
}
