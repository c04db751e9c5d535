package boolean

import (
	"math/big"
	"testing"

	"github.com/chazu/heartwood/pkg/lattice"
	"github.com/chazu/heartwood/pkg/mesh"
)

// latticeBoxes builds one polygonal mesh holding the given boxes on a
// shared arena. It returns the mesh, the face-index split points
// between consecutive boxes, and the arena.
func latticeBoxes(t *testing.T, boxes ...[2][3]int64) (mesh.Mesh, []int, *mesh.Arena) {
	t.Helper()
	arena := mesh.NewArena()
	b := lattice.NewBuilder(arena)
	var splits []int
	for _, box := range boxes {
		if err := b.AddBox(box[0], box[1]); err != nil {
			t.Fatalf("AddBox(%v): %v", box, err)
		}
		splits = append(splits, b.FaceCount())
	}
	return b.Mesh(), splits, arena
}

// shapeBySplit maps an input face orig to the shape whose face range
// contains it.
func shapeBySplit(splits []int) ShapeFn {
	return func(orig int) int {
		for s, end := range splits {
			if orig < end {
				return s
			}
		}
		return len(splits) - 1
	}
}

// signedVolume6 returns six times the signed volume enclosed by m,
// summing tetrahedra from the origin over a fan triangulation of each
// face. Exact, so closed consistently oriented meshes give exact
// volumes.
func signedVolume6(m mesh.Mesh) *big.Rat {
	vol := new(big.Rat)
	for _, f := range m.Faces() {
		for i := 1; i+1 < f.Len(); i++ {
			a := f.Vert[0].CoExact
			b := f.Vert[i].CoExact
			c := f.Vert[i+1].CoExact
			vol.Add(vol, a.Dot(b.Cross(c)))
		}
	}
	return vol
}

// checkClosedManifold fails the test unless every directed edge of m
// appears exactly once and is matched by its reverse.
func checkClosedManifold(t *testing.T, m mesh.Mesh) {
	t.Helper()
	type dirEdge struct{ a, b *mesh.Vert }
	count := make(map[dirEdge]int)
	for _, f := range m.Faces() {
		for i := 0; i < f.Len(); i++ {
			v := f.Vert[i]
			w := f.Vert[f.NextPos(i)]
			count[dirEdge{v, w}]++
		}
	}
	for de, n := range count {
		if n != 1 {
			t.Errorf("directed edge (%d,%d) used %d times, want 1", de.a.ID, de.b.ID, n)
		}
		if count[dirEdge{de.b, de.a}] != 1 {
			t.Errorf("directed edge (%d,%d) has no reverse", de.a.ID, de.b.ID)
		}
	}
}

// allTriIndices returns every face index of tm.
func allTriIndices(tm *mesh.Mesh) []int {
	tris := make([]int, tm.FaceCount())
	for i := range tris {
		tris[i] = i
	}
	return tris
}

// overlappingBoxesTri builds the triangulated conforming mesh of
// boxes [0,2]^3 and [1,3]^3, whose surfaces cross transversally.
func overlappingBoxesTri(t *testing.T) (mesh.Mesh, ShapeFn, *mesh.Arena) {
	t.Helper()
	pm, splits, arena := latticeBoxes(t,
		[2][3]int64{{0, 0, 0}, {2, 2, 2}},
		[2][3]int64{{1, 1, 1}, {3, 3, 3}},
	)
	tm := triangulatePolymesh(pm, arena)
	return tm, shapeBySplit(splits), arena
}
