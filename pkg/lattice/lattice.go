// Package lattice builds solids whose surfaces lie on the unit
// integer lattice: every face is a unit axis-aligned quad with integer
// corners. Solids built through the same arena conform with each
// other: wherever two surfaces meet, they meet along shared lattice
// vertices and edges, so their combined triangulation can go straight
// into the boolean kernel's topological phase with the pass-through
// intersector.
package lattice

import (
	"fmt"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// Builder accumulates lattice faces for one combined input mesh,
// assigning input face and edge provenance indices as it goes.
type Builder struct {
	arena *mesh.Arena
	faces []*mesh.Face
}

// NewBuilder returns a Builder allocating from arena.
func NewBuilder(arena *mesh.Arena) *Builder {
	return &Builder{arena: arena}
}

// FaceCount returns the number of faces added so far. Callers use it
// to delimit shapes: all faces of one solid occupy a contiguous index
// range.
func (b *Builder) FaceCount() int {
	return len(b.faces)
}

// Mesh returns the accumulated polygonal mesh.
func (b *Builder) Mesh() mesh.Mesh {
	return mesh.New(b.faces)
}

func (b *Builder) vert(x, y, z int64) *mesh.Vert {
	return b.arena.AddOrFindVert(exact.V3(x, y, z), b.arena.VertCount())
}

// addQuad appends one quad face with fresh input provenance: the face
// orig is its own index and each side gets a distinct edge orig.
func (b *Builder) addQuad(v0, v1, v2, v3 *mesh.Vert) {
	fi := len(b.faces)
	eo := []int{4 * fi, 4*fi + 1, 4*fi + 2, 4*fi + 3}
	f := b.arena.AddFace([]*mesh.Vert{v0, v1, v2, v3}, fi, eo)
	b.faces = append(b.faces, f)
}

// AddBox adds the surface of the axis-aligned box [min, max] as unit
// quads wound counterclockwise seen from outside. It returns an error
// if any extent is not positive.
func (b *Builder) AddBox(min, max [3]int64) error {
	return b.addBox(min, max, false)
}

// AddCavity adds the same surface wound inward, for carving a void
// out of a surrounding solid. Each quad is the reversal of its AddBox
// counterpart starting from the same corner, so the two triangulate
// on the same diagonal: a cavity and a solid over the same box yield
// pairwise identical, oppositely oriented triangles.
func (b *Builder) AddCavity(min, max [3]int64) error {
	return b.addBox(min, max, true)
}

func (b *Builder) addBox(min, max [3]int64, inward bool) error {
	for i := 0; i < 3; i++ {
		if max[i] <= min[i] {
			return fmt.Errorf("lattice: box extent %d is %d, want > 0", i, max[i]-min[i])
		}
	}
	quad := func(v0, v1, v2, v3 *mesh.Vert) {
		if inward {
			v1, v3 = v3, v1
		}
		b.addQuad(v0, v1, v2, v3)
	}
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]
	// -x and +x faces.
	for y := y0; y < y1; y++ {
		for z := z0; z < z1; z++ {
			quad(b.vert(x0, y, z), b.vert(x0, y, z+1), b.vert(x0, y+1, z+1), b.vert(x0, y+1, z))
			quad(b.vert(x1, y, z), b.vert(x1, y+1, z), b.vert(x1, y+1, z+1), b.vert(x1, y, z+1))
		}
	}
	// -y and +y faces.
	for x := x0; x < x1; x++ {
		for z := z0; z < z1; z++ {
			quad(b.vert(x, y0, z), b.vert(x+1, y0, z), b.vert(x+1, y0, z+1), b.vert(x, y0, z+1))
			quad(b.vert(x, y1, z), b.vert(x, y1, z+1), b.vert(x+1, y1, z+1), b.vert(x+1, y1, z))
		}
	}
	// -z and +z faces.
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			quad(b.vert(x, y, z0), b.vert(x, y+1, z0), b.vert(x+1, y+1, z0), b.vert(x+1, y, z0))
			quad(b.vert(x, y, z1), b.vert(x+1, y, z1), b.vert(x+1, y+1, z1), b.vert(x, y+1, z1))
		}
	}
	return nil
}
