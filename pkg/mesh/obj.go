package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes m in Wavefront OBJ format using the float mirror of
// each vertex coordinate. Vertices are numbered in first-appearance
// order, so output is deterministic for a given mesh.
func WriteOBJ(w io.Writer, m Mesh) error {
	m.PopulateVerts()
	bw := bufio.NewWriter(w)
	for i := 0; i < m.VertCount(); i++ {
		v := m.Vert(i)
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.Co.X, v.Co.Y, v.Co.Z); err != nil {
			return err
		}
	}
	for _, f := range m.Faces() {
		if _, err := bw.WriteString("f"); err != nil {
			return err
		}
		for _, v := range f.Vert {
			// OBJ indices are 1-based.
			if _, err := fmt.Fprintf(bw, " %d", m.LookupVert(v)+1); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
