package boolean

import (
	"log"
	"sort"

	"github.com/chazu/heartwood/pkg/mesh"
)

// Intersector resolves intersections in a triangle mesh before the
// topological phase runs: every pair of crossing triangles must be
// split along their intersection curves so that all mutual
// intersections appear as shared vertices and edges of the result.
type Intersector interface {
	// SelfIntersect resolves the self-intersections of tm.
	SelfIntersect(tm mesh.Mesh, arena *mesh.Arena) mesh.Mesh
	// NaryIntersect resolves intersections between the nshapes labeled
	// sub-meshes of tm (and, if useSelf, within each of them).
	NaryIntersect(tm mesh.Mesh, nshapes int, shape ShapeFn, useSelf bool, arena *mesh.Arena) mesh.Mesh
}

// Conforming is the pass-through Intersector for meshes that already
// conform: every mutual intersection of triangles is a shared vertex
// or shared edge. Solids built on a common integer lattice (see
// pkg/lattice) satisfy this by construction.
type Conforming struct{}

// SelfIntersect returns tm unchanged.
func (Conforming) SelfIntersect(tm mesh.Mesh, _ *mesh.Arena) mesh.Mesh { return tm }

// NaryIntersect returns tm unchanged.
func (Conforming) NaryIntersect(tm mesh.Mesh, _ int, _ ShapeFn, _ bool, _ *mesh.Arena) mesh.Mesh {
	return tm
}

// TriMesh performs the boolean operation op over the nshapes volumes
// combined in the triangle mesh tmIn and returns the boundary of the
// result as an oriented triangle mesh. shape maps the provenance
// index (orig) of an intersected triangle to the volume it belongs
// to; for a mesh triangulated from polygonal input the provenance is
// the input face index. When useSelf is true the intersector
// resolves tmIn's self-intersections in one pass; otherwise it splits
// only between differently labeled shapes.
//
// Surface components that never touch are handled independently:
// each connected component of the patch/cell graph gets its own
// outermost cell, seeded with the winding of the region the component
// sits in (computed by an exact containment ray cast against the
// other components), so nested solids and cavities resolve correctly.
//
// An empty input comes back unchanged, as does the intersected mesh
// when op is OpNone. Inputs on which the topological phase cannot
// complete (a failed validation, no identifiable outermost cell, or
// an unclassifiable component) are reported to the log and returned
// unchanged rather than half-processed.
func TriMesh(tmIn mesh.Mesh, op Operation, nshapes int, shape ShapeFn, useSelf bool, isect Intersector, arena *mesh.Arena) mesh.Mesh {
	if tmIn.IsEmpty() {
		return tmIn
	}
	var tmSi mesh.Mesh
	if useSelf {
		tmSi = isect.SelfIntersect(tmIn, arena)
	} else {
		tmSi = isect.NaryIntersect(tmIn, nshapes, shape, useSelf, arena)
	}
	// The intersected mesh can be empty if all input triangles were
	// degenerate.
	if tmSi.IsEmpty() || op == OpNone {
		return tmSi
	}
	siShape := func(t int) int { return shape(tmSi.Face(t).Orig) }
	topo := NewTriMeshTopology(&tmSi)
	pinfo := findPatches(&tmSi, topo)
	cinfo := findCells(&tmSi, topo, pinfo)
	if !patchCellGraphOK(cinfo, pinfo) {
		log.Printf("boolean: patch/cell validation failed; returning input unchanged")
		return tmIn
	}
	cinfo.initWindings(nshapes)
	inComp := make([]bool, tmSi.FaceCount())
	for _, comp := range patchCellComponents(cinfo, pinfo) {
		var tris []int
		for i := range inComp {
			inComp[i] = false
		}
		for _, p := range comp {
			for _, t := range pinfo.Patch(p).Tris() {
				tris = append(tris, t)
				inComp[t] = true
			}
		}
		sort.Ints(tris)
		cAmbient, vExtreme := findAmbientCell(&tmSi, topo, pinfo, tris, arena)
		if cAmbient == NoIndex {
			log.Printf("boolean: could not find an ambient cell; input not valid?")
			return tmSi
		}
		// The component's extreme vertex lies on its surface but on no
		// other component's, so its winding against the rest of the
		// mesh is the winding of the region just outside the component.
		seed, ok := windingOfPoint(vExtreme.CoExact, &tmSi, inComp, nshapes, siShape)
		if !ok {
			log.Printf("boolean: could not classify component surroundings; input not valid?")
			return tmSi
		}
		propagateWindingsAndFlag(pinfo, cinfo, cAmbient, seed, op, nshapes, siShape)
	}
	return extractFromFlagDiffs(&tmSi, pinfo, cinfo, arena)
}

// PolyMesh performs the boolean operation on the general polygonal
// mesh pm: pm is triangulated (or pmTriangulated used, when the
// caller already has a triangulation), the triangle boolean runs, and
// the result is reassembled into polygons by dissolving triangulation
// edges against pm.
func PolyMesh(pm mesh.Mesh, op Operation, nshapes int, shape ShapeFn, useSelf bool, pmTriangulated *mesh.Mesh, isect Intersector, arena *mesh.Arena) mesh.Mesh {
	tmIn := pmTriangulated
	if tmIn == nil {
		tri := triangulatePolymesh(pm, arena)
		tmIn = &tri
	}
	tmOut := TriMesh(*tmIn, op, nshapes, shape, useSelf, isect, arena)
	return polymeshFromTrimeshWithDissolve(tmOut, pm, arena)
}
