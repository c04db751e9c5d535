// Package sdfmesh imports signed-distance-field solids from the
// github.com/deadsy/sdfx CAD library into exact meshes. The SDF is
// polygonized with marching cubes and every float vertex is snapped
// onto a rational lattice, so the resulting mesh has exact coordinates
// and deduplicated vertex handles and can feed the topological stages
// of the boolean kernel.
package sdfmesh

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/heartwood/pkg/exact"
	"github.com/chazu/heartwood/pkg/mesh"
)

// DefaultCells is the default marching cubes resolution.
const DefaultCells = 100

// Options controls an import.
type Options struct {
	// Cells is the marching cubes resolution (cells across the longest
	// bounding box axis). DefaultCells if zero.
	Cells int
	// Quantum is the denominator of the rational lattice vertices are
	// snapped to: coordinates become round(c*Quantum)/Quantum. 1<<16
	// if zero, which is far below marching-cubes accuracy.
	Quantum int64
}

// FromSDF polygonizes s and returns an exact triangle mesh allocated
// from arena. Triangles that collapse under quantization are dropped.
func FromSDF(s sdf.SDF3, opts Options, arena *mesh.Arena) (mesh.Mesh, error) {
	cells := opts.Cells
	if cells == 0 {
		cells = DefaultCells
	}
	quantum := opts.Quantum
	if quantum == 0 {
		quantum = 1 << 16
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return mesh.Mesh{}, fmt.Errorf("sdfmesh: marching cubes produced no triangles")
	}

	faces := make([]*mesh.Face, 0, len(triangles))
	for _, tri := range triangles {
		var vs [3]*mesh.Vert
		for j := 0; j < 3; j++ {
			vs[j] = arena.AddOrFindVert(quantize(tri[j], quantum), arena.VertCount())
		}
		if vs[0] == vs[1] || vs[1] == vs[2] || vs[2] == vs[0] {
			// Collapsed under quantization.
			continue
		}
		if degenerate(vs) {
			continue
		}
		fi := len(faces)
		eo := []int{3 * fi, 3*fi + 1, 3*fi + 2}
		faces = append(faces, arena.AddFace(vs[:], fi, eo))
	}
	if len(faces) == 0 {
		return mesh.Mesh{}, fmt.Errorf("sdfmesh: all %d triangles degenerate after quantization", len(triangles))
	}
	return mesh.New(faces), nil
}

// quantize snaps a float vertex onto the rational lattice with the
// given denominator. The result is exact: round(c*quantum)/quantum.
func quantize(v v3.Vec, quantum int64) exact.Vec3 {
	return exact.Vec3{
		X: exact.Rat(int64(math.Round(v.X*float64(quantum))), quantum),
		Y: exact.Rat(int64(math.Round(v.Y*float64(quantum))), quantum),
		Z: exact.Rat(int64(math.Round(v.Z*float64(quantum))), quantum),
	}
}

// degenerate reports whether the three distinct vertices are exactly
// collinear, which leaves a zero-area triangle.
func degenerate(vs [3]*mesh.Vert) bool {
	d1 := vs[1].CoExact.Sub(vs[0].CoExact)
	d2 := vs[2].CoExact.Sub(vs[0].CoExact)
	return d1.Cross(d2).IsZero()
}
