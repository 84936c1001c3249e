/*
DESCRIPTION
  ztranslation_test.go provides testing for z-translation estimation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package camera

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ausocean/flowseg/grid"
)

// synthetic returns the block centres of an 8x8 grid over a 640x480 frame and
// the positions the model moves them to under z-translation p.
func synthetic(t *testing.T, p, f float64) (grid.Field, grid.Field) {
	t.Helper()
	origins, err := grid.Centres(480, 640, 8, 8)
	if err != nil {
		t.Fatalf("could not get centres: %v", err)
	}
	const cx, cy = 320, 240
	disp := grid.NewField(8, 8)
	for i, o := range origins.Vecs {
		nx := Model((o.X-cx)/cx*2, p, f)
		ny := Model((o.Y-cy)/cy*2, p, f)
		disp.Vecs[i] = r2.Vec{X: nx*cx/2 + cx, Y: ny*cy/2 + cy}
	}
	return origins, disp
}

func TestEstimateZTranslationRoundTrip(t *testing.T) {
	const tol = 1e-4
	for _, p0 := range []float64{1, 0.37, -1.5, 2.2} {
		origins, disp := synthetic(t, p0, DefaultFocalLength)
		got, err := EstimateZTranslation(origins, disp, DefaultFocalLength)
		if err != nil {
			t.Errorf("did not expect error for p0=%v: %v", p0, err)
			continue
		}
		if math.Abs(got-p0) > tol {
			t.Errorf("did not recover parameter, want: %v, got: %v", p0, got)
		}
	}
}

func TestEstimateZTranslationFocalLength(t *testing.T) {
	const p0, f = 0.8, 2.0
	origins, disp := synthetic(t, p0, f)
	got, err := EstimateZTranslation(origins, disp, f)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if math.Abs(got-p0) > 1e-4 {
		t.Errorf("did not recover parameter, want: %v, got: %v", p0, got)
	}
}

func TestEstimateZTranslationFitError(t *testing.T) {
	centred := grid.Field{Rows: 1, Cols: 1, Vecs: []r2.Vec{{X: 320, Y: 240}}}
	zero := grid.Field{Rows: 1, Cols: 2, Vecs: []r2.Vec{{}, {}}}
	origins, _ := synthetic(t, 1, DefaultFocalLength)

	tests := []struct {
		name          string
		origins, disp grid.Field
	}{
		{name: "empty", origins: grid.Field{}, disp: grid.Field{}},
		{name: "single centred block", origins: centred, disp: centred},
		{name: "zero centre", origins: zero, disp: zero},
		{name: "shape mismatch", origins: origins, disp: centred},
	}

	for _, test := range tests {
		_, err := EstimateZTranslation(test.origins, test.disp, DefaultFocalLength)
		var fe *FitError
		if !errors.As(err, &fe) {
			t.Errorf("expected FitError for %s, got: %v", test.name, err)
		}
	}
}

func TestModel(t *testing.T) {
	if got := Model(0, 3, DefaultFocalLength); got != 0 {
		t.Errorf("expected centre to stay fixed, got: %v", got)
	}
	if got := Model(1.5, 0, DefaultFocalLength); got != 0 {
		t.Errorf("expected zero parameter to collapse to centre, got: %v", got)
	}
	// Near the centre the model is close to linear in x.
	if got := Model(0.01, 2, DefaultFocalLength); math.Abs(got-0.02) > 1e-9 {
		t.Errorf("unexpected model value near centre: %v", got)
	}
	if Model(-1, 1, DefaultFocalLength) != -Model(1, 1, DefaultFocalLength) {
		t.Error("expected model to be odd in x")
	}
}

func TestSolverError(t *testing.T) {
	cause := errors.New("linesearch failed")
	err := error(solverError(cause))

	want := "z-translation fit failed: solver error: linesearch failed"
	if err.Error() != want {
		t.Errorf("unexpected message\nwant: %q\ngot: %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("solver error does not wrap its cause")
	}
	var fe *FitError
	if !errors.As(err, &fe) || fe.Reason != "solver error" {
		t.Errorf("unexpected fit error: %#v", fe)
	}
}
