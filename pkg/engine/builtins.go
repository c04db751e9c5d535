package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/heartwood/pkg/boolean"
	"github.com/chazu/heartwood/pkg/lattice"
	"github.com/chazu/heartwood/pkg/mesh"
)

// csgKind is the operator of an interior CSG node.
type csgKind int

const (
	csgBox csgKind = iota
	csgUnion
	csgIntersection
	csgDifference
)

// csgNode is one node of the CSG tree a script builds. Boxes are the
// only leaves; translations are folded into box corners as the tree is
// built, so interior nodes carry only an operator and children.
type csgNode struct {
	kind     csgKind
	min, max [3]int64
	children []*csgNode
}

// translate returns a copy of n moved by d. Interior nodes distribute
// the translation over their children.
func (n *csgNode) translate(d [3]int64) *csgNode {
	if n.kind == csgBox {
		out := &csgNode{kind: csgBox}
		for i := 0; i < 3; i++ {
			out.min[i] = n.min[i] + d[i]
			out.max[i] = n.max[i] + d[i]
		}
		return out
	}
	out := &csgNode{kind: n.kind}
	out.children = make([]*csgNode, len(n.children))
	for i, c := range n.children {
		out.children[i] = c.translate(d)
	}
	return out
}

// sexpSolid wraps a csgNode so solids can be passed between builtins.
type sexpSolid struct {
	node *csgNode
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	switch s.node.kind {
	case csgBox:
		return fmt.Sprintf("(box %d %d %d %d %d %d)",
			s.node.min[0], s.node.min[1], s.node.min[2],
			s.node.max[0], s.node.max[1], s.node.max[2])
	case csgUnion:
		return fmt.Sprintf("(union ...%d)", len(s.node.children))
	case csgIntersection:
		return fmt.Sprintf("(intersection ...%d)", len(s.node.children))
	case csgDifference:
		return fmt.Sprintf("(difference ...%d)", len(s.node.children))
	}
	return "(solid?)"
}

func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// toInt64 extracts an integer from a Sexp. Solids live on the unit
// integer lattice, so fractional coordinates are rejected rather than
// rounded.
func toInt64(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		n := int64(v.Val)
		if float64(n) == v.Val {
			return n, nil
		}
		return 0, fmt.Errorf("coordinate %v is not on the integer lattice", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts the CSG node from a sexpSolid.
func toSolid(s zygo.Sexp) (*csgNode, error) {
	if sol, ok := s.(*sexpSolid); ok {
		return sol.node, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// registerBuiltins installs the CSG builtins into a zygomys
// environment.
func registerBuiltins(env *zygo.Zlisp) {

	// (box x0 y0 z0 x1 y1 z1)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 6 {
			return zygo.SexpNull, fmt.Errorf("box: want 6 coordinates, got %d args", len(args))
		}
		var co [6]int64
		for i, a := range args {
			n, err := toInt64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: argument %d: %w", i+1, err)
			}
			co[i] = n
		}
		node := &csgNode{
			kind: csgBox,
			min:  [3]int64{co[0], co[1], co[2]},
			max:  [3]int64{co[3], co[4], co[5]},
		}
		for i := 0; i < 3; i++ {
			if node.max[i] <= node.min[i] {
				return zygo.SexpNull, fmt.Errorf("box: extent %d is empty (%d..%d)", i, node.min[i], node.max[i])
			}
		}
		return &sexpSolid{node: node}, nil
	})

	// (translate dx dy dz solid)
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate: want dx dy dz solid, got %d args", len(args))
		}
		var d [3]int64
		for i := 0; i < 3; i++ {
			n, err := toInt64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: argument %d: %w", i+1, err)
			}
			d[i] = n
		}
		node, err := toSolid(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpSolid{node: node.translate(d)}, nil
	})

	opBuiltin := func(opName string, kind csgKind) {
		env.AddFunction(opName, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s: want at least 2 solids, got %d", opName, len(args))
			}
			node := &csgNode{kind: kind}
			for i, a := range args {
				child, err := toSolid(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", opName, i+1, err)
				}
				node.children = append(node.children, child)
			}
			return &sexpSolid{node: node}, nil
		})
	}
	opBuiltin("union", csgUnion)
	opBuiltin("intersection", csgIntersection)
	opBuiltin("difference", csgDifference)
}

// lower turns a CSG tree into a polygonal mesh by lowering children
// depth-first and running the boolean kernel over each operator node.
func lower(node *csgNode) (mesh.Mesh, error) {
	arena := mesh.NewArena()
	return lowerInto(node, arena)
}

func lowerInto(node *csgNode, arena *mesh.Arena) (mesh.Mesh, error) {
	if node.kind == csgBox {
		b := lattice.NewBuilder(arena)
		if err := b.AddBox(node.min, node.max); err != nil {
			return mesh.Mesh{}, err
		}
		return b.Mesh(), nil
	}
	shapes := make([]mesh.Mesh, len(node.children))
	for i, c := range node.children {
		m, err := lowerInto(c, arena)
		if err != nil {
			return mesh.Mesh{}, err
		}
		shapes[i] = m
	}
	pm, shapeFn := combineShapes(shapes, arena)
	var op boolean.Operation
	switch node.kind {
	case csgUnion:
		op = boolean.OpUnion
	case csgIntersection:
		op = boolean.OpIntersect
	case csgDifference:
		op = boolean.OpDifference
	default:
		return mesh.Mesh{}, fmt.Errorf("unknown CSG operator %d", node.kind)
	}
	out := boolean.PolyMesh(pm, op, len(shapes), shapeFn, false, nil, boolean.Conforming{}, arena)
	return out, nil
}

// combineShapes concatenates per-shape meshes into one input mesh with
// fresh face and edge provenance, and returns the shape classifier for
// it. Faces are reallocated so every face orig is its combined index
// and every edge orig is distinct; all solids share one arena, so
// coincident lattice vertices are already common handles.
func combineShapes(shapes []mesh.Mesh, arena *mesh.Arena) (mesh.Mesh, boolean.ShapeFn) {
	var faces []*mesh.Face
	var splits []int
	nextEdge := 0
	for _, m := range shapes {
		for _, f := range m.Faces() {
			eo := make([]int, f.Len())
			for i := range eo {
				eo[i] = nextEdge
				nextEdge++
			}
			faces = append(faces, arena.AddFace(f.Vert, len(faces), eo))
		}
		splits = append(splits, len(faces))
	}
	shapeFn := func(orig int) int {
		for s, end := range splits {
			if orig < end {
				return s
			}
		}
		return len(splits) - 1
	}
	return mesh.New(faces), shapeFn
}
