package exact

import "testing"

func TestVec3Arithmetic(t *testing.T) {
	v := V3(1, 2, 3)
	w := V3(4, 5, 6)

	if got := v.Add(w); !got.Equal(V3(5, 7, 9)) {
		t.Errorf("Add = %v, want (5,7,9)", got)
	}
	if got := v.Sub(w); !got.Equal(V3(-3, -3, -3)) {
		t.Errorf("Sub = %v, want (-3,-3,-3)", got)
	}
	if got := v.Dot(w); got.Cmp(Int(32)) != 0 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := v.Cross(w); !got.Equal(V3(-3, 6, -3)) {
		t.Errorf("Cross = %v, want (-3,6,-3)", got)
	}
}

func TestCrossOfParallelIsZero(t *testing.T) {
	v := Vec3{Rat(1, 3), Rat(2, 3), Rat(-1, 3)}
	w := Vec3{Rat(2, 3), Rat(4, 3), Rat(-2, 3)}
	if got := v.Cross(w); !got.IsZero() {
		t.Errorf("Cross of parallel vectors = %v, want zero", got)
	}
}

func TestDominantAxis(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want int
	}{
		{"x dominant", V3(5, 1, 2), 0},
		{"y dominant", V3(1, -7, 2), 1},
		{"z dominant", V3(1, 2, -9), 2},
		{"tie x y prefers x", V3(3, 3, 1), 0},
		{"tie y z prefers y", V3(1, 3, 3), 1},
		{"all equal prefers x", V3(2, 2, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.DominantAxis(); got != tt.want {
				t.Errorf("DominantAxis() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrient3D(t *testing.T) {
	// Unit triangle in the z=0 plane, CCW seen from +z.
	a := V3(0, 0, 0)
	b := V3(1, 0, 0)
	c := V3(0, 1, 0)

	tests := []struct {
		name string
		d    Vec3
		want int
	}{
		{"below plane", V3(0, 0, -1), 1},
		{"above plane", V3(0, 0, 1), -1},
		{"on plane", V3(2, 3, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orient3D(a, b, c, tt.d); got != tt.want {
				t.Errorf("Orient3D(..., %v) = %d, want %d", tt.d, got, tt.want)
			}
		})
	}
}

func TestOrient3DRational(t *testing.T) {
	// A point at z = 1/1000000 is still strictly above the plane.
	a := V3(0, 0, 0)
	b := V3(1, 0, 0)
	c := V3(0, 1, 0)
	d := Vec3{Int(0), Int(0), Rat(1, 1000000)}
	if got := Orient3D(a, b, c, d); got != -1 {
		t.Errorf("Orient3D with tiny rational offset = %d, want -1", got)
	}
}

func TestOrient2D(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec2
		want    int
	}{
		{"ccw", V2(0, 0), V2(1, 0), V2(0, 1), 1},
		{"cw", V2(0, 0), V2(0, 1), V2(1, 0), -1},
		{"collinear", V2(0, 0), V2(1, 1), V2(2, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orient2D(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("Orient2D = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromFloatIsExact(t *testing.T) {
	r := FromFloat(0.5)
	if r.Cmp(Rat(1, 2)) != 0 {
		t.Errorf("FromFloat(0.5) = %v, want 1/2", r)
	}
	// 0.1 is not exactly 1/10 in binary; the rational must preserve the
	// float's true value, so converting back must round-trip.
	r = FromFloat(0.1)
	f, exact := r.Float64()
	if f != 0.1 || !exact {
		t.Errorf("FromFloat(0.1) round-trip = %v (exact=%v), want 0.1 exact", f, exact)
	}
}

func TestVec3OperationsDoNotAlias(t *testing.T) {
	v := V3(1, 2, 3)
	w := V3(4, 5, 6)
	sum := v.Add(w)
	sum.X.SetInt64(100)
	if v.X.Cmp(Int(1)) != 0 || w.X.Cmp(Int(4)) != 0 {
		t.Error("Add result shares rationals with its operands")
	}
}
