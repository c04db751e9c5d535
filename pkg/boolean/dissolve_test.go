package boolean

import (
	"testing"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

func TestFindTrisCommonEdge(t *testing.T) {
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), 0)
	v1 := arena.AddOrFindVert(exact.V3(1, 0, 0), 1)
	v2 := arena.AddOrFindVert(exact.V3(1, 1, 0), 2)
	v3 := arena.AddOrFindVert(exact.V3(0, 1, 0), 3)
	eo := []int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}
	t0 := arena.AddFace([]*mesh.Vert{v0, v1, v2}, mesh.NoIndex, eo)
	t1 := arena.AddFace([]*mesh.Vert{v0, v2, v3}, mesh.NoIndex, eo)
	t2 := arena.AddFace([]*mesh.Vert{v1, v0, v3}, mesh.NoIndex, eo)

	i, j := findTrisCommonEdge(t0, t1)
	// t0's side 2 is (v2,v0); t1's side 0 is (v0,v2).
	if i != 2 || j != 0 {
		t.Errorf("findTrisCommonEdge(t0,t1) = (%d,%d), want (2,0)", i, j)
	}
	i, j = findTrisCommonEdge(t0, t2)
	if i != 0 || j != 0 {
		t.Errorf("findTrisCommonEdge(t0,t2) = (%d,%d), want (0,0)", i, j)
	}
	if i, j := findTrisCommonEdge(t1, t1); i != -1 || j != -1 {
		// A face shares no edge with itself in opposite orientation.
		t.Errorf("findTrisCommonEdge(t1,t1) = (%d,%d), want (-1,-1)", i, j)
	}
}

// quadFixture builds a quad input face and its two triangulated
// halves, mirroring what the triangulator emits.
func quadFixture(t *testing.T) (mesh.Mesh, mesh.Mesh, *mesh.Arena) {
	t.Helper()
	arena := mesh.NewArena()
	b := []*mesh.Vert{
		arena.AddOrFindVert(exact.V3(0, 0, 0), 0),
		arena.AddOrFindVert(exact.V3(2, 0, 0), 1),
		arena.AddOrFindVert(exact.V3(2, 2, 0), 2),
		arena.AddOrFindVert(exact.V3(0, 2, 0), 3),
	}
	quad := arena.AddFace(b, 0, []int{100, 101, 102, 103})
	pm := mesh.New([]*mesh.Face{quad})
	tm := triangulatePolymesh(pm, arena)
	return tm, pm, arena
}

func TestMergeTrisQuadFastPath(t *testing.T) {
	tm, pm, arena := quadFixture(t)
	if tm.FaceCount() != 2 {
		t.Fatalf("triangulated quad has %d faces, want 2", tm.FaceCount())
	}
	got := mergeTrisForFace([]int{0, 1}, &tm, &pm, arena)
	if len(got) != 1 {
		t.Fatalf("merged into %d faces, want 1", len(got))
	}
	if got[0] != pm.Face(0) {
		t.Error("fast path did not return the original input face")
	}
}

func TestMergeTrisSingleton(t *testing.T) {
	tm, pm, arena := quadFixture(t)
	got := mergeTrisForFace([]int{1}, &tm, &pm, arena)
	if len(got) != 1 || got[0] != tm.Face(1) {
		t.Error("singleton group must pass through unchanged")
	}
}

func TestMergeTrisGeneralPath(t *testing.T) {
	// A convex pentagon triangulated into three triangles; the general
	// merge state must dissolve both diagonals and rebuild it.
	arena := mesh.NewArena()
	b := []*mesh.Vert{
		arena.AddOrFindVert(exact.V3(0, 0, 0), 0),
		arena.AddOrFindVert(exact.V3(4, 0, 0), 1),
		arena.AddOrFindVert(exact.V3(6, 3, 0), 2),
		arena.AddOrFindVert(exact.V3(2, 6, 0), 3),
		arena.AddOrFindVert(exact.V3(-2, 3, 0), 4),
	}
	pent := arena.AddFace(b, 0, []int{100, 101, 102, 103, 104})
	pm := mesh.New([]*mesh.Face{pent})
	tm := triangulatePolymesh(pm, arena)
	if tm.FaceCount() != 3 {
		t.Fatalf("triangulated pentagon has %d faces, want 3", tm.FaceCount())
	}

	got := mergeTrisForFace([]int{0, 1, 2}, &tm, &pm, arena)
	if len(got) != 1 {
		t.Fatalf("merged into %d faces, want 1", len(got))
	}
	merged := got[0]
	if merged.Len() != 5 {
		t.Fatalf("merged face has %d sides, want 5", merged.Len())
	}
	if !merged.CyclicEqual(pent) {
		t.Error("merged face does not match the pentagon cycle")
	}
	// All surviving edges carry real provenance.
	seen := make(map[int]bool)
	for _, eo := range merged.EdgeOrig {
		if eo == mesh.NoIndex {
			t.Error("merged face kept a triangulation edge orig")
		}
		seen[eo] = true
	}
	for _, want := range []int{100, 101, 102, 103, 104} {
		if !seen[want] {
			t.Errorf("edge orig %d missing from merged face", want)
		}
	}
}

func TestDissolveRespectsRealEdges(t *testing.T) {
	// Two triangles forming a quad whose shared edge has real
	// provenance: it must not dissolve.
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), 0)
	v1 := arena.AddOrFindVert(exact.V3(2, 0, 0), 1)
	v2 := arena.AddOrFindVert(exact.V3(2, 2, 0), 2)
	v3 := arena.AddOrFindVert(exact.V3(0, 2, 0), 3)
	t0 := arena.AddFace([]*mesh.Vert{v0, v1, v2}, 0, []int{100, 101, 555})
	t1 := arena.AddFace([]*mesh.Vert{v0, v2, v3}, 0, []int{555, 102, 103})
	tm := mesh.New([]*mesh.Face{t0, t1})
	quad := arena.AddFace([]*mesh.Vert{v0, v1, v2, v3}, 0, []int{100, 101, 102, 103})
	pm := mesh.New([]*mesh.Face{quad})

	got := mergeTrisForFace([]int{0, 1}, &tm, &pm, arena)
	if len(got) != 2 {
		t.Errorf("merged into %d faces, want 2 (shared edge is real)", len(got))
	}
}

func TestFindDissolveVerts(t *testing.T) {
	arena := mesh.NewArena()
	// A square with one extra synthetic vertex at the midpoint of the
	// bottom side and one real midpoint on the top side.
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), 0)
	mid := arena.AddOrFindVert(exact.V3(2, 0, 0), mesh.NoIndex)
	v1 := arena.AddOrFindVert(exact.V3(4, 0, 0), 1)
	v2 := arena.AddOrFindVert(exact.V3(4, 4, 0), 2)
	realMid := arena.AddOrFindVert(exact.V3(2, 4, 0), 3)
	v3 := arena.AddOrFindVert(exact.V3(0, 4, 0), 4)
	f := arena.AddFace(
		[]*mesh.Vert{v0, mid, v1, v2, realMid, v3},
		0, []int{100, 100, 101, 102, 102, 103})
	pm := mesh.New([]*mesh.Face{f})

	dissolve, count := findDissolveVerts(&pm)
	if count != 1 {
		t.Fatalf("dissolve count = %d, want 1", count)
	}
	if !dissolve[pm.LookupVert(mid)] {
		t.Error("synthetic collinear midpoint not marked for dissolve")
	}
	if dissolve[pm.LookupVert(realMid)] {
		t.Error("input vertex marked for dissolve")
	}

	dissolveVerts(&pm, dissolve, arena)
	out := pm.Face(0)
	if out.Len() != 5 {
		t.Fatalf("face has %d sides after dissolve, want 5", out.Len())
	}
	for _, v := range out.Vert {
		if v == mid {
			t.Error("dissolved vertex still present")
		}
	}
	// The surviving bottom edge keeps the side's provenance.
	if out.EdgeOrig[0] != 100 {
		t.Errorf("bottom edge orig = %d, want 100", out.EdgeOrig[0])
	}
}

func TestFindDissolveVertsRejectsNonCollinear(t *testing.T) {
	arena := mesh.NewArena()
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), 0)
	bump := arena.AddOrFindVert(exact.V3(2, 1, 0), mesh.NoIndex)
	v1 := arena.AddOrFindVert(exact.V3(4, 0, 0), 1)
	v2 := arena.AddOrFindVert(exact.V3(2, 4, 0), 2)
	f := arena.AddFace([]*mesh.Vert{v0, bump, v1, v2}, 0, []int{100, 100, 101, 102})
	pm := mesh.New([]*mesh.Face{f})

	_, count := findDissolveVerts(&pm)
	if count != 0 {
		t.Errorf("dissolve count = %d, want 0 (vertex off the line)", count)
	}
}

func TestFindDissolveVertsRejectsInconsistentNeighbors(t *testing.T) {
	arena := mesh.NewArena()
	// A synthetic vertex where three faces meet has valence > 2 and
	// must survive.
	c := arena.AddOrFindVert(exact.V3(2, 0, 0), mesh.NoIndex)
	v0 := arena.AddOrFindVert(exact.V3(0, 0, 0), 0)
	v1 := arena.AddOrFindVert(exact.V3(4, 0, 0), 1)
	up := arena.AddOrFindVert(exact.V3(2, 3, 0), 2)
	dn := arena.AddOrFindVert(exact.V3(2, -3, 0), 3)
	eo := []int{100, 101, 102}
	f0 := arena.AddFace([]*mesh.Vert{v0, c, up}, 0, eo)
	f1 := arena.AddFace([]*mesh.Vert{c, v1, up}, 1, eo)
	f2 := arena.AddFace([]*mesh.Vert{v0, dn, c}, 2, eo)
	pm := mesh.New([]*mesh.Face{f0, f1, f2})

	dissolve, _ := findDissolveVerts(&pm)
	if dissolve[pm.LookupVert(c)] {
		t.Error("vertex with three incident faces marked for dissolve")
	}
}
