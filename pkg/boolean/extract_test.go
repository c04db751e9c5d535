package boolean

import (
	"testing"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// onePatchPerTri builds a PatchesInfo where triangle i is patch i with
// the given cell bindings.
func onePatchPerTri(bindings [][2]int) *PatchesInfo {
	pinfo := newPatchesInfo(len(bindings))
	for i, b := range bindings {
		p := pinfo.addPatch()
		pinfo.growPatch(p, i)
		pinfo.Patch(p).CellAbove = b[0]
		pinfo.Patch(p).CellBelow = b[1]
	}
	return pinfo
}

func cellsWithFlags(flags []bool) *CellsInfo {
	cinfo := &CellsInfo{}
	for _, fl := range flags {
		c := cinfo.addCell()
		cinfo.Cell(c).flag = fl
	}
	return cinfo
}

func TestExtractKeepsAndFlips(t *testing.T) {
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), mesh.NoIndex)
	v1 := arena.AddOrFindVert(exact.V3(1, 0, 0), mesh.NoIndex)
	v2 := arena.AddOrFindVert(exact.V3(0, 1, 0), mesh.NoIndex)
	v3 := arena.AddOrFindVert(exact.V3(1, 1, 0), mesh.NoIndex)
	t0 := arena.AddFace([]*mesh.Vert{v0, v1, v2}, 7, []int{10, 11, 12})
	t1 := arena.AddFace([]*mesh.Vert{v1, v3, v2}, 8, []int{20, 21, 22})
	tm := mesh.New([]*mesh.Face{t0, t1})

	// Patch 0: above false, below true -> kept as-is.
	// Patch 1: above true, below false -> kept flipped.
	pinfo := onePatchPerTri([][2]int{{0, 1}, {1, 0}})
	cinfo := cellsWithFlags([]bool{false, true})

	out := extractFromFlagDiffs(&tm, pinfo, cinfo, arena)
	if out.FaceCount() != 2 {
		t.Fatalf("FaceCount = %d, want 2", out.FaceCount())
	}
	if out.Face(0) != t0 {
		t.Error("unflipped triangle not shared with input")
	}
	got := out.Face(1)
	if got.Vert[0] != v1 || got.Vert[1] != v2 || got.Vert[2] != v3 {
		t.Errorf("flipped verts = (%d,%d,%d), want (%d,%d,%d)",
			got.Vert[0].ID, got.Vert[1].ID, got.Vert[2].ID, v1.ID, v2.ID, v3.ID)
	}
	if got.EdgeOrig[0] != 22 || got.EdgeOrig[1] != 21 || got.EdgeOrig[2] != 20 {
		t.Errorf("flipped edge origs = %v, want [22 21 20]", got.EdgeOrig)
	}
	if got.Orig != 8 {
		t.Errorf("flipped orig = %d, want 8", got.Orig)
	}
}

func TestExtractSkipsEqualFlags(t *testing.T) {
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), mesh.NoIndex)
	v1 := arena.AddOrFindVert(exact.V3(1, 0, 0), mesh.NoIndex)
	v2 := arena.AddOrFindVert(exact.V3(0, 1, 0), mesh.NoIndex)
	eo := []int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}
	f := arena.AddFace([]*mesh.Vert{v0, v1, v2}, mesh.NoIndex, eo)
	tm := mesh.New([]*mesh.Face{f})

	for _, flags := range [][]bool{{true, true}, {false, false}} {
		pinfo := onePatchPerTri([][2]int{{0, 1}})
		cinfo := cellsWithFlags(flags)
		out := extractFromFlagDiffs(&tm, pinfo, cinfo, arena)
		if out.FaceCount() != 0 {
			t.Errorf("flags %v: FaceCount = %d, want 0", flags, out.FaceCount())
		}
	}
}

func TestExtractCancelsOppositeDuplicates(t *testing.T) {
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), mesh.NoIndex)
	v1 := arena.AddOrFindVert(exact.V3(1, 0, 0), mesh.NoIndex)
	v2 := arena.AddOrFindVert(exact.V3(0, 1, 0), mesh.NoIndex)
	eo := []int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}
	// The same triangle with both orientations: a zero-thickness wall.
	t0 := arena.AddFace([]*mesh.Vert{v0, v1, v2}, mesh.NoIndex, eo)
	t1 := arena.AddFace([]*mesh.Vert{v0, v2, v1}, mesh.NoIndex, eo)
	tm := mesh.New([]*mesh.Face{t0, t1})

	// Both emitted as-is: cell 1 (between the walls) kept, cells on
	// the outside discarded. The two outputs have opposite windings
	// and must annihilate.
	pinfo := onePatchPerTri([][2]int{{0, 1}, {2, 1}})
	cinfo := cellsWithFlags([]bool{false, true, false})
	out := extractFromFlagDiffs(&tm, pinfo, cinfo, arena)
	if out.FaceCount() != 0 {
		t.Errorf("FaceCount = %d, want 0 (stack cancels)", out.FaceCount())
	}
}

func TestExtractKeepsDominantOrientation(t *testing.T) {
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), mesh.NoIndex)
	v1 := arena.AddOrFindVert(exact.V3(1, 0, 0), mesh.NoIndex)
	v2 := arena.AddOrFindVert(exact.V3(0, 1, 0), mesh.NoIndex)
	eo := []int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}
	t0 := arena.AddFace([]*mesh.Vert{v0, v1, v2}, mesh.NoIndex, eo)
	t1 := arena.AddFace([]*mesh.Vert{v1, v2, v0}, mesh.NoIndex, eo)
	t2 := arena.AddFace([]*mesh.Vert{v0, v2, v1}, mesh.NoIndex, eo)
	tm := mesh.New([]*mesh.Face{t0, t1, t2})

	// Two CCW copies and one reversed: net +1, one CCW copy remains.
	pinfo := onePatchPerTri([][2]int{{0, 1}, {0, 1}, {0, 1}})
	cinfo := cellsWithFlags([]bool{false, true})
	out := extractFromFlagDiffs(&tm, pinfo, cinfo, arena)
	if out.FaceCount() != 1 {
		t.Fatalf("FaceCount = %d, want 1", out.FaceCount())
	}
	if !sameOrientation(out.Face(0), t0) {
		t.Error("surviving copy not in the dominant orientation")
	}
}
