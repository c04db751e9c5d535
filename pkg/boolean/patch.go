package boolean

import "github.com/chazu/heartwood/pkg/mesh"

// Patch is a maximal set of triangles connected through manifold
// edges. CellAbove and CellBelow are the cells on either side of the
// patch once the cell builder has run; "above" is the half-space the
// CCW normal of the patch's triangles points into.
type Patch struct {
	tri []int

	CellAbove int
	CellBelow int
}

func newPatch() Patch {
	return Patch{CellAbove: NoIndex, CellBelow: NoIndex}
}

// Tris returns the triangle indices in the patch.
func (p *Patch) Tris() []int { return p.tri }

// Tri returns the i'th triangle index of the patch.
func (p *Patch) Tri(i int) int { return p.tri[i] }

// TotTri returns the number of triangles in the patch.
func (p *Patch) TotTri() int { return len(p.tri) }

func (p *Patch) addTri(t int) {
	p.tri = append(p.tri, t)
}

// PatchesInfo holds all patches of a mesh, the patch assignment of
// every triangle, and one representative shared edge for each pair of
// patches that meet along a non-manifold edge.
type PatchesInfo struct {
	patch    []Patch
	triPatch []int
	ppEdge   map[[2]int]Edge
}

func newPatchesInfo(ntri int) *PatchesInfo {
	tp := make([]int, ntri)
	for i := range tp {
		tp[i] = NoIndex
	}
	return &PatchesInfo{triPatch: tp, ppEdge: make(map[[2]int]Edge)}
}

// TriPatch returns the patch index of triangle t.
func (pi *PatchesInfo) TriPatch(t int) int { return pi.triPatch[t] }

// TotPatch returns the number of patches.
func (pi *PatchesInfo) TotPatch() int { return len(pi.patch) }

// Patch returns patch p for mutation.
func (pi *PatchesInfo) Patch(p int) *Patch { return &pi.patch[p] }

func (pi *PatchesInfo) addPatch() int {
	pi.patch = append(pi.patch, newPatch())
	return len(pi.patch) - 1
}

func (pi *PatchesInfo) growPatch(p, t int) {
	pi.triPatch[t] = p
	pi.patch[p].addTri(t)
}

func (pi *PatchesInfo) triIsAssigned(t int) bool {
	return pi.triPatch[t] != NoIndex
}

// PatchPatchEdge returns the representative edge shared by patches p1
// and p2, or the zero Edge if they share none.
func (pi *PatchesInfo) PatchPatchEdge(p1, p2 int) Edge {
	return pi.ppEdge[[2]int{p1, p2}]
}

func (pi *PatchesInfo) addPatchPatchEdge(p1, p2 int, e Edge) {
	pi.ppEdge[[2]int{p1, p2}] = e
	pi.ppEdge[[2]int{p2, p1}] = e
}

// findPatches partitions the triangles of tm into patches, growing
// each patch depth-first across manifold edges from the lowest
// unassigned triangle index. While growing, it records a
// representative shared edge for every pair of patches that meet
// along a non-manifold edge. Seeding and traversal are driven purely
// by triangle indices, so the partition is reproducible.
func findPatches(tm *mesh.Mesh, topo *TriMeshTopology) *PatchesInfo {
	pinfo := newPatchesInfo(tm.FaceCount())
	var grow []int
	for t := 0; t < tm.FaceCount(); t++ {
		if pinfo.triIsAssigned(t) {
			continue
		}
		grow = append(grow[:0], t)
		cur := pinfo.addPatch()
		for len(grow) > 0 {
			tcand := grow[len(grow)-1]
			grow = grow[:len(grow)-1]
			if pinfo.triIsAssigned(tcand) {
				continue
			}
			pinfo.growPatch(cur, tcand)
			tri := tm.Face(tcand)
			for i := 0; i < 3; i++ {
				e := NewEdge(tri.Vert[i], tri.Vert[(i+1)%3])
				tOther := topo.OtherTriIfManifold(e, tcand)
				if tOther != NoIndex {
					if !pinfo.triIsAssigned(tOther) {
						grow = append(grow, tOther)
					}
					continue
				}
				// e is non-manifold: record any patch-patch
				// incidences visible so far.
				for _, tOther := range topo.EdgeTris(e) {
					if tOther == tcand || !pinfo.triIsAssigned(tOther) {
						continue
					}
					pOther := pinfo.TriPatch(tOther)
					if pOther == cur {
						continue
					}
					if pinfo.PatchPatchEdge(cur, pOther).IsZero() {
						pinfo.addPatchPatchEdge(cur, pOther, e)
					}
				}
			}
		}
	}
	return pinfo
}
