package boolean

import "github.com/chazu/heartwood/pkg/mesh"

// extractFromFlagDiffs returns the triangles of tmSubdivided that
// separate a kept cell from a discarded one. A triangle whose kept
// cell is above is flipped (vertex cycle and edge origs reversed) so
// that every output normal points away from the kept volume. Flipped
// faces are fresh arena allocations; unflipped ones are shared with
// the input.
//
// Stacks of exact duplicate triangles (same three vertices, in
// whatever orientation) are resolved by summing orientations, +1 per
// CCW copy and -1 per reversed copy against the stack's first member:
// a zero sum cancels the stack entirely, otherwise one copy survives
// with the dominant orientation. Coincident opposite-facing walls,
// as left by solids sharing part of a face plane, annihilate here.
func extractFromFlagDiffs(tmSubdivided *mesh.Mesh, pinfo *PatchesInfo, cinfo *CellsInfo, arena *mesh.Arena) mesh.Mesh {
	type stack struct {
		rep *mesh.Face // first candidate, already oriented
		net int        // orientation sum relative to rep
	}
	var order []vertTriple
	stacks := make(map[vertTriple]*stack)

	for t := 0; t < tmSubdivided.FaceCount(); t++ {
		patch := pinfo.Patch(pinfo.TriPatch(t))
		flagAbove := cinfo.Cell(patch.CellAbove).Flag()
		flagBelow := cinfo.Cell(patch.CellBelow).Flag()
		if flagAbove == flagBelow {
			continue
		}
		f := tmSubdivided.Face(t)
		if flagAbove {
			flippedVs := []*mesh.Vert{f.Vert[0], f.Vert[2], f.Vert[1]}
			flippedEOs := []int{f.EdgeOrig[2], f.EdgeOrig[1], f.EdgeOrig[0]}
			f = arena.AddFace(flippedVs, f.Orig, flippedEOs)
		}
		key := tripleOf(f)
		st, ok := stacks[key]
		if !ok {
			stacks[key] = &stack{rep: f, net: 1}
			order = append(order, key)
			continue
		}
		if sameOrientation(st.rep, f) {
			st.net++
		} else {
			st.net--
		}
	}

	outTris := make([]*mesh.Face, 0, len(order))
	for _, key := range order {
		st := stacks[key]
		switch {
		case st.net > 0:
			outTris = append(outTris, st.rep)
		case st.net < 0:
			r := st.rep
			vs := []*mesh.Vert{r.Vert[0], r.Vert[2], r.Vert[1]}
			eos := []int{r.EdgeOrig[2], r.EdgeOrig[1], r.EdgeOrig[0]}
			outTris = append(outTris, arena.AddFace(vs, r.Orig, eos))
		}
	}
	return mesh.New(outTris)
}

// vertTriple is the sorted vertex IDs of a triangle, identifying
// exact duplicates regardless of orientation or starting corner.
type vertTriple [3]int

func tripleOf(f *mesh.Face) vertTriple {
	a, b, c := f.Vert[0].ID, f.Vert[1].ID, f.Vert[2].ID
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return vertTriple{a, b, c}
}

// sameOrientation reports whether triangles f and g, which have the
// same vertex set, wind the same way.
func sameOrientation(f, g *mesh.Face) bool {
	for off := 0; off < 3; off++ {
		if g.Vert[off] == f.Vert[0] {
			return g.Vert[(off+1)%3] == f.Vert[1]
		}
	}
	panic("boolean: orientation check on distinct triangles")
}
