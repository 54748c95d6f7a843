package geom

import (
	"math"
	"testing"
)

func TestComputeViewportScale(t *testing.T) {
	tests := []struct {
		name                 string
		vw, vh, srcW, srcH   float64
		mode                 FitMode
		wantSX, wantSY, want float64
	}{
		{"contain wide source", 800, 450, 1600, 450, FitContain, 0.5, 1.0, 0.5},
		{"cover wide source", 800, 450, 1600, 450, FitCover, 0.5, 1.0, 1.0},
		{"contain tall source", 800, 450, 800, 900, FitContain, 1.0, 0.5, 0.5},
		{"cover tall source", 800, 450, 800, 900, FitCover, 1.0, 0.5, 1.0},
		{"same size", 800, 450, 800, 450, FitContain, 1.0, 1.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeViewportScale(tt.vw, tt.vh, tt.srcW, tt.srcH, tt.mode)
			if got.ScaleX != tt.wantSX || got.ScaleY != tt.wantSY || got.Scale != tt.want {
				t.Errorf("got %+v, want sx=%v sy=%v s=%v", got, tt.wantSX, tt.wantSY, tt.want)
			}
		})
	}
}

func TestComputeViewportScale_ZeroSource(t *testing.T) {
	got := ComputeViewportScale(800, 450, 0, 0, FitContain)
	if got.Scale != 1 || got.ScaleX != 1 || got.ScaleY != 1 {
		t.Errorf("zero source should map to identity, got %+v", got)
	}
	if math.IsNaN(got.Scale) {
		t.Error("scale must never be NaN")
	}
}

func TestPctPxRoundTrip(t *testing.T) {
	if got := PctToPx(0.5, 800); got != 400 {
		t.Errorf("PctToPx(0.5, 800) = %v, want 400", got)
	}
	if got := PctToPx(1.5, 800); got != 800 {
		t.Errorf("out-of-range pct must clamp, got %v", got)
	}
	if got := PxToPct(400, 800); got != 0.5 {
		t.Errorf("PxToPct(400, 800) = %v, want 0.5", got)
	}
	if got := PxToPct(123, 0); got != 0 {
		t.Errorf("zero extent must map to 0, got %v", got)
	}
	if got := PxToPct(-5, 800); got != 0 {
		t.Errorf("negative px must clamp to 0, got %v", got)
	}
}

func TestCompose_Identity(t *testing.T) {
	m := Compose(TransformParams{CX: 100, CY: 50, Scale: 1, SignX: 1, SignY: 1})
	want := Affine{A: 1, B: 0, C: 0, D: 1, Tx: 100, Ty: 50}
	if !affineClose(m, want, 1e-12) {
		t.Errorf("identity transform = %+v, want %+v", m, want)
	}
}

func TestCompose_ZeroSignsDefaultToPositive(t *testing.T) {
	m := Compose(TransformParams{Scale: 2})
	if m.A != 2 || m.D != 2 {
		t.Errorf("unset signs should behave as +1, got %+v", m)
	}
}

func TestCompose_Rotation(t *testing.T) {
	m := Compose(TransformParams{Scale: 1, Angle: math.Pi / 2, SignX: 1, SignY: 1})
	want := Affine{A: 0, B: 1, C: -1, D: 0}
	if !affineClose(m, want, 1e-12) {
		t.Errorf("90deg rotation = %+v, want %+v", m, want)
	}
}

func TestCompose_FlipComposesWithSign(t *testing.T) {
	// flip=true together with signX=-1 must cancel back to +scale.
	m := Compose(TransformParams{Scale: 2, SignX: -1, SignY: 1, Flip: true})
	if m.A != 2 {
		t.Errorf("flip must multiply signX, got a=%v want 2", m.A)
	}

	m = Compose(TransformParams{Scale: 2, SignX: 1, SignY: 1, Flip: true})
	if m.A != -2 {
		t.Errorf("flip alone must negate x scale, got a=%v want -2", m.A)
	}
}

func TestCompose_Apply(t *testing.T) {
	m := Compose(TransformParams{CX: 10, CY: 20, Scale: 2, SignX: 1, SignY: 1})
	x, y := m.Apply(3, 4)
	if x != 16 || y != 28 {
		t.Errorf("Apply = (%v, %v), want (16, 28)", x, y)
	}
}

func affineClose(a, b Affine, eps float64) bool {
	return math.Abs(a.A-b.A) < eps &&
		math.Abs(a.B-b.B) < eps &&
		math.Abs(a.C-b.C) < eps &&
		math.Abs(a.D-b.D) < eps &&
		math.Abs(a.Tx-b.Tx) < eps &&
		math.Abs(a.Ty-b.Ty) < eps
}
