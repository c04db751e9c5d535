package boolean

import (
	"log"
	"math/big"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// findAmbientCell locates the outermost cell of the surface component
// made of the given triangles: the cell containing everything beyond
// the component's own geometry. It finds a vertex with the maximum x
// coordinate among the component's triangles, picks the incident edge
// with the largest |Δy/Δx| slope in the xy projection (such an edge
// is on the component's convex hull), then radially sorts the
// triangles on that edge together with a synthetic triangle through a
// point one unit further along +x, which certainly lies outside the
// component. The cells above the two neighbours of the synthetic
// triangle in the sorted cycle coincide and are the outermost cell.
// The extreme vertex is returned alongside so callers can classify
// the component's surroundings. Returns (NoIndex, nil) if the sort
// neighbours disagree, which means the input was malformed.
func findAmbientCell(tm *mesh.Mesh, topo *TriMeshTopology, pinfo *PatchesInfo, tris []int, arena *mesh.Arena) (int, *mesh.Vert) {
	if len(tris) == 0 {
		log.Printf("boolean: ambient cell of an empty component")
		return NoIndex, nil
	}
	vExtreme := tm.Face(tris[0]).Vert[0]
	extremeX := vExtreme.CoExact.X
	for _, t := range tris {
		for _, v := range tm.Face(t).Vert {
			if v.CoExact.X.Cmp(extremeX) > 0 {
				vExtreme = v
				extremeX = v.CoExact.X
			}
		}
	}
	// Among edges at vExtreme, the one with max |Δy/Δx| projected on
	// the xy plane is on the hull; Δx = 0 counts as infinite slope.
	edges := topo.VertEdges(vExtreme)
	extremeY := vExtreme.CoExact.Y
	var ehull Edge
	maxAbsSlope := big.NewRat(-1, 1)
	for _, e := range edges {
		vOther := e.V0()
		if vOther == vExtreme {
			vOther = e.V1()
		}
		deltaX := new(big.Rat).Sub(vOther.CoExact.X, extremeX)
		if deltaX.Sign() == 0 {
			ehull = e
			break
		}
		absSlope := new(big.Rat).Sub(vOther.CoExact.Y, extremeY)
		absSlope.Quo(absSlope, deltaX)
		absSlope.Abs(absSlope)
		if absSlope.Cmp(maxAbsSlope) > 0 {
			ehull = e
			maxAbsSlope = absSlope
		}
	}
	if ehull.IsZero() {
		log.Printf("boolean: extreme vertex has no incident edges")
		return NoIndex, nil
	}
	// Sort the triangles around ehull together with a dummy triangle
	// through a known outside point.
	pOutside := vExtreme.CoExact.Clone()
	pOutside.X.Add(pOutside.X, exact.Int(1))
	hullTris := topo.EdgeTris(ehull)
	dummyVert := arena.AddOrFindVert(pOutside, NoIndex)
	dummyTri := arena.AddFace(
		[]*mesh.Vert{ehull.V0(), ehull.V1(), dummyVert},
		NoIndex, []int{NoIndex, NoIndex, NoIndex})
	edgeTris := make([]int, 0, len(hullTris)+1)
	edgeTris = append(edgeTris, hullTris...)
	edgeTris = append(edgeTris, ExtraTriIndex)
	sortedTris := sortTrisAroundEdge(tm, ehull, edgeTris, edgeTris[0], dummyTri)

	dummyIndex := -1
	for i, t := range sortedTris {
		if t == ExtraTriIndex {
			dummyIndex = i
			break
		}
	}
	if dummyIndex == -1 {
		panic("boolean: synthetic triangle lost in radial sort")
	}
	n := len(sortedTris)
	prevTri := sortedTris[(dummyIndex+n-1)%n]
	nextTri := sortedTris[(dummyIndex+1)%n]
	prevPatch := pinfo.Patch(pinfo.TriPatch(prevTri))
	nextPatch := pinfo.Patch(pinfo.TriPatch(nextTri))
	if prevPatch.CellAbove != nextPatch.CellAbove {
		log.Printf("boolean: ambient cell neighbours disagree (%d vs %d)",
			prevPatch.CellAbove, nextPatch.CellAbove)
		return NoIndex, nil
	}
	return prevPatch.CellAbove, vExtreme
}
