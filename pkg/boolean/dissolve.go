package boolean

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/heartwood/pkg/mesh"
)

// findTrisCommonEdge returns the positions in tri1 and tri2 where a
// common edge (in opposite orientation) starts, or (-1, -1) if the
// triangles share no edge.
func findTrisCommonEdge(tri1, tri2 *mesh.Face) (int, int) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if tri1.Vert[(i+1)%3] == tri2.Vert[j] && tri1.Vert[i] == tri2.Vert[(j+1)%3] {
				return i, j
			}
		}
	}
	return -1, -1
}

// MergeEdge is an edge of the face-merge state: its endpoints in
// canonical order, its squared length (from the float coordinate
// mirror, used only to order dissolves), the faces on its two sides,
// an original edge index usable for it, and whether it may be
// dissolved. An edge is dissolvable only if every triangle that uses
// it contributed NoIndex for it, meaning it was introduced by
// triangulation rather than present in the input.
type MergeEdge struct {
	lenSquared  float64
	v1, v2      *mesh.Vert
	leftFace    int
	rightFace   int
	orig        int
	dissolvable bool
}

func newMergeEdge(va, vb *mesh.Vert) MergeEdge {
	me := MergeEdge{leftFace: -1, rightFace: -1, orig: NoIndex}
	if va.ID < vb.ID {
		me.v1, me.v2 = va, vb
	} else {
		me.v1, me.v2 = vb, va
	}
	return me
}

// MergeFace is a face of the merge state: its current vertex cycle, a
// parallel list of merge-edge indices, the face it has been merged
// into (or -1 while it is still live), and an original face index.
type MergeFace struct {
	vert    []*mesh.Vert
	edge    []int
	mergeTo int
	orig    int
}

// FaceMergeState tracks the faces being merged for one input face,
// the merge edges among them with current left/right topology, and a
// lookup from canonical vertex ID pairs to merge-edge indices.
type FaceMergeState struct {
	face    []MergeFace
	edge    []MergeEdge
	edgeMap map[[2]int]int
}

// initFaceMergeState seeds fms with one MergeFace per triangle and
// one MergeEdge per distinct edge among them, recording left/right
// faces by edge orientation and marking dissolvability from the
// triangles' original edge indices.
func initFaceMergeState(fms *FaceMergeState, tris []int, tm *mesh.Mesh) {
	fms.face = make([]MergeFace, 0, len(tris)+1)
	fms.edge = make([]MergeEdge, 0, 3*len(tris))
	fms.edgeMap = make(map[[2]int]int, 3*len(tris))
	for _, t := range tris {
		tri := tm.Face(t)
		mf := MergeFace{
			vert:    []*mesh.Vert{tri.Vert[0], tri.Vert[1], tri.Vert[2]},
			mergeTo: -1,
			orig:    tri.Orig,
		}
		fms.face = append(fms.face, mf)
		f := len(fms.face) - 1
		for i := 0; i < 3; i++ {
			inext := (i + 1) % 3
			newMe := newMergeEdge(fms.face[f].vert[i], fms.face[f].vert[inext])
			canonVs := [2]int{newMe.v1.ID, newMe.v2.ID}
			meIndex, ok := fms.edgeMap[canonVs]
			if !ok {
				newMe.lenSquared = r3.Norm2(r3.Sub(newMe.v2.Co, newMe.v1.Co))
				newMe.orig = tri.EdgeOrig[i]
				newMe.dissolvable = newMe.orig == NoIndex
				fms.edge = append(fms.edge, newMe)
				meIndex = len(fms.edge) - 1
				fms.edgeMap[canonVs] = meIndex
			}
			me := &fms.edge[meIndex]
			if me.dissolvable && tri.EdgeOrig[i] != NoIndex {
				me.dissolvable = false
				me.orig = tri.EdgeOrig[i]
			}
			// This face is left or right of the edge depending on the
			// orientation it uses the edge in.
			if me.v1 == fms.face[f].vert[i] {
				me.leftFace = f
			} else {
				me.rightFace = f
			}
			fms.face[f].edge = append(fms.face[f].edge, meIndex)
		}
	}
}

func indexOfEdge(mf *MergeFace, meIndex int) int {
	for i, e := range mf.edge {
		if e == meIndex {
			return i
		}
	}
	return -1
}

// dissolveLeavesValidBMesh checks the constraints on removing an edge
// from a pair of faces: removal must not create two disconnected
// boundary parts (which happens when another edge already joins the
// same two faces), and must not create a face with a repeated vertex
// (which happens when the faces share any vertex besides the edge
// endpoints).
func dissolveLeavesValidBMesh(fms *FaceMergeState, me *MergeEdge, meIndex int, mfLeft, mfRight *MergeFace) bool {
	aEdgeStart := indexOfEdge(mfLeft, meIndex)
	if aEdgeStart == -1 || indexOfEdge(mfRight, meIndex) == -1 {
		panic("boolean: dissolve edge not on both faces")
	}
	alen := len(mfLeft.vert)
	bLeftFace := me.rightFace
	// Another edge of the left face whose right face is the right
	// face of me?
	for aE := (aEdgeStart + 1) % alen; aE != aEdgeStart; aE = (aE + 1) % alen {
		if fms.edge[mfLeft.edge[aE]].rightFace == bLeftFace {
			return false
		}
	}
	// A vertex in the left face, other than the edge ends, that the
	// right face also has?
	for _, aV := range mfLeft.vert {
		if aV == me.v1 || aV == me.v2 {
			continue
		}
		for _, bV := range mfRight.vert {
			if aV == bV {
				return false
			}
		}
	}
	return true
}

// spliceFaces merges mfRight into mfLeft across their shared edge me:
// the left face's cycle is rebuilt with the right face's cycle spliced
// in where the shared edge was, the spliced edges are retargeted at
// the left face, and the right face is marked merged.
func spliceFaces(fms *FaceMergeState, me *MergeEdge, meIndex int, mfLeft, mfRight *MergeFace) {
	aEdgeStart := indexOfEdge(mfLeft, meIndex)
	bEdgeStart := indexOfEdge(mfRight, meIndex)
	if aEdgeStart == -1 || bEdgeStart == -1 {
		panic("boolean: splice edge not on both faces")
	}
	alen := len(mfLeft.vert)
	blen := len(mfRight.vert)
	spliceVert := make([]*mesh.Vert, 0, alen+blen-2)
	spliceEdge := make([]int, 0, alen+blen-2)
	for ai := 0; ai < aEdgeStart; ai++ {
		spliceVert = append(spliceVert, mfLeft.vert[ai])
		spliceEdge = append(spliceEdge, mfLeft.edge[ai])
	}
	for bi := (bEdgeStart + 1) % blen; bi != bEdgeStart; bi = (bi + 1) % blen {
		spliceVert = append(spliceVert, mfRight.vert[bi])
		spliceEdge = append(spliceEdge, mfRight.edge[bi])
		if mfRight.vert[bi] == fms.edge[mfRight.edge[bi]].v1 {
			fms.edge[mfRight.edge[bi]].leftFace = me.leftFace
		} else {
			fms.edge[mfRight.edge[bi]].rightFace = me.leftFace
		}
	}
	for ai := aEdgeStart + 1; ai < alen; ai++ {
		spliceVert = append(spliceVert, mfLeft.vert[ai])
		spliceEdge = append(spliceEdge, mfLeft.edge[ai])
	}
	mfRight.mergeTo = me.leftFace
	mfLeft.vert = spliceVert
	mfLeft.edge = spliceEdge
	me.leftFace = -1
	me.rightFace = -1
}

// doDissolve dissolves as many dissolvable edges as constraints allow.
// Longer edges go first, which tends to avoid awkward long thin slivers
// in the output; ties break on ascending edge index so the result is
// reproducible.
func doDissolve(fms *FaceMergeState) {
	var dissolveEdges []int
	for e := range fms.edge {
		if fms.edge[e].dissolvable {
			dissolveEdges = append(dissolveEdges, e)
		}
	}
	if len(dissolveEdges) == 0 {
		return
	}
	sort.Slice(dissolveEdges, func(i, j int) bool {
		a, b := dissolveEdges[i], dissolveEdges[j]
		if fms.edge[a].lenSquared != fms.edge[b].lenSquared {
			return fms.edge[a].lenSquared > fms.edge[b].lenSquared
		}
		return a < b
	})
	for _, meIndex := range dissolveEdges {
		me := &fms.edge[meIndex]
		if me.leftFace == -1 || me.rightFace == -1 {
			continue
		}
		mfLeft := &fms.face[me.leftFace]
		mfRight := &fms.face[me.rightFace]
		if !dissolveLeavesValidBMesh(fms, me, meIndex, mfLeft, mfRight) {
			continue
		}
		spliceFaces(fms, me, meIndex, mfLeft, mfRight)
	}
}

// cyclicVertsEqualFace reports whether the vertex cycle vs matches
// face f up to rotation.
func cyclicVertsEqualFace(vs []*mesh.Vert, f *mesh.Face) bool {
	try := &mesh.Face{Vert: vs}
	return try.CyclicEqual(f)
}

// mergeTrisForFace merges the given triangles, all of which came from
// the same input face, back into as few polygons as possible by
// dissolving triangulation edges. A lone triangle passes through, and
// the very common quad-with-one-diagonal case is matched directly
// against the input face before the general merge state is built.
func mergeTrisForFace(tris []int, tm *mesh.Mesh, pmIn *mesh.Mesh, arena *mesh.Arena) []*mesh.Face {
	if len(tris) == 1 {
		return []*mesh.Face{tm.Face(tris[0])}
	}
	if len(tris) == 2 {
		tri1 := tm.Face(tris[0])
		tri2 := tm.Face(tris[1])
		if tri1.Orig != NoIndex {
			inFace := pmIn.Face(tri1.Orig)
			if inFace.Len() == 4 {
				e1, e2 := findTrisCommonEdge(tri1, tri2)
				if e1 != -1 && tri1.EdgeOrig[e1] == NoIndex {
					i0 := e1
					i1 := (i0 + 1) % 3
					i2 := (i0 + 2) % 3
					j2 := (e2 + 2) % 3
					quad := []*mesh.Vert{tri1.Vert[i1], tri1.Vert[i2], tri1.Vert[i0], tri2.Vert[j2]}
					if cyclicVertsEqualFace(quad, inFace) {
						return []*mesh.Face{inFace}
					}
				}
			}
		}
	}

	var fms FaceMergeState
	initFaceMergeState(&fms, tris, tm)
	doDissolve(&fms)
	var ans []*mesh.Face
	for i := range fms.face {
		mf := &fms.face[i]
		if mf.mergeTo != -1 {
			continue
		}
		eOrig := make([]int, len(mf.edge))
		for j, e := range mf.edge {
			eOrig[j] = fms.edge[e].orig
		}
		ans = append(ans, arena.AddFace(mf.vert, mf.orig, eOrig))
	}
	return ans
}

// findDissolveVerts returns, parallel to the populated vertex table of
// pmOut, which vertices can be dissolved: synthetic vertices of
// valence two whose two neighbours are the same in every face they
// appear in and which lie exactly on the line through those
// neighbours. The count of dissolvable vertices is also returned.
func findDissolveVerts(pmOut *mesh.Mesh) ([]bool, int) {
	pmOut.PopulateVerts()
	dissolve := make([]bool, pmOut.VertCount())
	for v := 0; v < pmOut.VertCount(); v++ {
		dissolve[v] = pmOut.Vert(v).Orig == NoIndex
	}
	type vertPair struct{ n1, n2 *mesh.Vert }
	neighbors := make([]vertPair, pmOut.VertCount())
	for fi := 0; fi < pmOut.FaceCount(); fi++ {
		face := pmOut.Face(fi)
		for i, v := range face.Vert {
			vIndex := pmOut.LookupVert(v)
			if vIndex == NoIndex {
				panic("boolean: face vertex missing from vertex table")
			}
			if !dissolve[vIndex] {
				continue
			}
			n1 := face.Vert[face.NextPos(i)]
			n2 := face.Vert[face.PrevPos(i)]
			have := neighbors[vIndex]
			if have.n1 != nil {
				// Already saw neighbours in another face; they must
				// be the same pair or the vertex is not valence two.
				if !((n1 == have.n2 && n2 == have.n1) || (n1 == have.n1 && n2 == have.n2)) {
					dissolve[vIndex] = false
				}
			} else {
				neighbors[vIndex] = vertPair{n1, n2}
			}
		}
	}
	count := 0
	for v := 0; v < pmOut.VertCount(); v++ {
		if !dissolve[v] {
			continue
		}
		dissolve[v] = false
		nbrs := neighbors[v]
		if nbrs.n1 == nil {
			continue
		}
		co := pmOut.Vert(v).CoExact
		dir1 := co.Sub(nbrs.n1.CoExact)
		dir2 := nbrs.n2.CoExact.Sub(co)
		if dir1.Cross(dir2).IsZero() {
			dissolve[v] = true
			count++
		}
	}
	return dissolve, count
}

// dissolveVerts erases every marked vertex from the faces of pm.
func dissolveVerts(pm *mesh.Mesh, dissolve []bool, arena *mesh.Arena) {
	var erase []bool
	for fi := 0; fi < pm.FaceCount(); fi++ {
		face := pm.Face(fi)
		erase = erase[:0]
		numErase := 0
		for _, v := range face.Vert {
			vIndex := pm.LookupVert(v)
			if vIndex == NoIndex {
				panic("boolean: face vertex missing from vertex table")
			}
			if dissolve[vIndex] {
				erase = append(erase, true)
				numErase++
			} else {
				erase = append(erase, false)
			}
		}
		if numErase > 0 {
			pm.EraseFacePositions(fi, erase, arena)
		}
	}
	pm.SetDirtyVerts()
}

// polymeshFromTrimeshWithDissolve converts the boolean output
// triangle mesh back into a polygonal mesh against the input polygon
// mesh pmIn: triangles are grouped by the input face they came from
// and merged by dissolving triangulation edges, then vertices left
// stranded on straight edges by those dissolves are removed. Not
// every triangulation edge can go: some are needed to keep faces
// valid (no repeated vertices, no disconnected boundaries) and some
// ended up overlapping real input edges.
func polymeshFromTrimeshWithDissolve(tmOut mesh.Mesh, pmIn mesh.Mesh, arena *mesh.Arena) mesh.Mesh {
	totInFace := pmIn.FaceCount()
	faceOutputTris := make([][]int, totInFace)
	var strays []*mesh.Face
	for t := 0; t < tmOut.FaceCount(); t++ {
		inFace := tmOut.Face(t).Orig
		if inFace == NoIndex || inFace >= totInFace {
			// Best effort on malformed provenance: pass through.
			strays = append(strays, tmOut.Face(t))
			continue
		}
		faceOutputTris[inFace] = append(faceOutputTris[inFace], t)
	}

	var face []*mesh.Face
	for inF := 0; inF < totInFace; inF++ {
		if len(faceOutputTris[inF]) == 0 {
			continue
		}
		face = append(face, mergeTrisForFace(faceOutputTris[inF], &tmOut, &pmIn, arena)...)
	}
	face = append(face, strays...)
	pmOut := mesh.New(face)

	dissolve, count := findDissolveVerts(&pmOut)
	if count > 0 {
		dissolveVerts(&pmOut, dissolve, arena)
	}
	return pmOut
}
