// Package boolean implements the topological phase of an exact mesh
// boolean engine. Starting from a conforming triangle mesh in which
// every mutual intersection already appears as a shared edge, it
// partitions the triangles into manifold patches, partitions 3-space
// into cells bounded by those patches, locates the unbounded ambient
// cell, propagates per-shape winding numbers across patch crossings,
// extracts the boundary of the requested boolean result, and finally
// reassembles the output triangles into polygonal faces.
//
// All geometric decisions are made with exact rational predicates, and
// every ordering that can affect output is derived from stable integer
// indices, so results are identical from run to run and machine to
// machine.
package boolean

import (
	"github.com/chazu/heartwood/pkg/mesh"
)

// NoIndex marks a missing index, mirroring mesh.NoIndex.
const NoIndex = mesh.NoIndex

// Edge is an unordered pair of vertices in canonical order: the vertex
// with the smaller ID first. The zero Edge means "no edge". Edges are
// comparable and hash on the vertex handles, which the arena dedups,
// so equal edges always compare equal.
type Edge struct {
	v0, v1 *mesh.Vert
}

// NewEdge returns the canonical edge over a and b.
func NewEdge(a, b *mesh.Vert) Edge {
	if a.ID <= b.ID {
		return Edge{a, b}
	}
	return Edge{b, a}
}

// V0 returns the endpoint with the smaller ID.
func (e Edge) V0() *mesh.Vert { return e.v0 }

// V1 returns the endpoint with the larger ID.
func (e Edge) V1() *mesh.Vert { return e.v1 }

// IsZero reports whether e is the "no edge" value.
func (e Edge) IsZero() bool { return e.v0 == nil }

// TriMeshTopology holds the edge and vertex incidence of a triangle
// mesh: which triangles contain each edge (in either orientation) and
// which edges touch each vertex. It is built once and read-only after.
type TriMeshTopology struct {
	edgeTri   map[Edge][]int
	vertEdges map[*mesh.Vert][]Edge
}

// NewTriMeshTopology builds the topology of tm, which must contain
// only triangles.
func NewTriMeshTopology(tm *mesh.Mesh) *TriMeshTopology {
	// If everything were manifold, F+V-E=2 and E=3F/2. Allowing for
	// non-manifoldness, E=2F and V=F are likely overestimates.
	topo := &TriMeshTopology{
		edgeTri:   make(map[Edge][]int, 2*tm.FaceCount()),
		vertEdges: make(map[*mesh.Vert][]Edge, tm.FaceCount()),
	}
	for t := 0; t < tm.FaceCount(); t++ {
		tri := tm.Face(t)
		if !tri.IsTri() {
			panic("boolean: topology of non-triangle mesh")
		}
		for i := 0; i < 3; i++ {
			v := tri.Vert[i]
			vnext := tri.Vert[(i+1)%3]
			e := NewEdge(v, vnext)
			topo.vertEdges[v] = appendEdgeNonDup(topo.vertEdges[v], e)
			topo.edgeTri[e] = appendIntNonDup(topo.edgeTri[e], t)
		}
	}
	return topo
}

// EdgeTris returns the triangles containing e in either orientation,
// or nil. One triangle means a boundary edge, two a manifold edge,
// three or more a non-manifold edge.
func (topo *TriMeshTopology) EdgeTris(e Edge) []int {
	return topo.edgeTri[e]
}

// OtherTriIfManifold returns the one triangle other than t containing
// the manifold edge e, or NoIndex if e is not manifold.
func (topo *TriMeshTopology) OtherTriIfManifold(e Edge, t int) int {
	tris := topo.edgeTri[e]
	if len(tris) == 2 {
		if tris[0] == t {
			return tris[1]
		}
		return tris[0]
	}
	return NoIndex
}

// VertEdges returns the distinct edges incident on v, in first-seen
// order.
func (topo *TriMeshTopology) VertEdges(v *mesh.Vert) []Edge {
	return topo.vertEdges[v]
}

func appendEdgeNonDup(edges []Edge, e Edge) []Edge {
	for _, have := range edges {
		if have == e {
			return edges
		}
	}
	return append(edges, e)
}

func appendIntNonDup(ts []int, t int) []int {
	for _, have := range ts {
		if have == t {
			return ts
		}
	}
	return append(ts, t)
}
