package mesh

// EraseFacePositions replaces face f with a copy that omits the
// positions marked in erase, which must parallel the face's vertex
// cycle. The edge leaving each kept vertex keeps that vertex's
// original edge index: when an erased vertex sat between two kept
// ones, the surviving edge spans the gap and inherits the provenance
// of the side it departs from. The caller is expected to call
// SetDirtyVerts once it is done erasing.
func (m *Mesh) EraseFacePositions(f int, erase []bool, arena *Arena) {
	old := m.faces[f]
	if len(erase) != old.Len() {
		panic("mesh: erase flags must parallel face positions")
	}
	verts := make([]*Vert, 0, old.Len())
	edgeOrigs := make([]int, 0, old.Len())
	for i, v := range old.Vert {
		if erase[i] {
			continue
		}
		verts = append(verts, v)
		edgeOrigs = append(edgeOrigs, old.EdgeOrig[i])
	}
	m.faces[f] = arena.AddFace(verts, old.Orig, edgeOrigs)
}
