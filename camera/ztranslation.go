/*
DESCRIPTION
  ztranslation.go provides estimation of camera translation along the optical
  axis from a grid flow field, by fitting a radial lens model to the motion of
  the block centres.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package camera provides estimation of camera motion from flow fields.
package camera

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/ausocean/flowseg/grid"
)

// DefaultFocalLength is the focal length used by the model when none is given.
const DefaultFocalLength = 150

// Solver limits.
const (
	maxIterations     = 200
	gradientThreshold = 1e-7
	initialParameter  = 1
)

// FitError is returned when the z-translation of a flow field cannot be
// estimated.
type FitError struct {
	Reason string
	Err    error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("z-translation fit failed: %s: %v", e.Reason, e.Err)
	}
	return "z-translation fit failed: " + e.Reason
}

func (e *FitError) Unwrap() error { return e.Err }

// Model returns where a point at normalised offset x from the image centre
// moves under a z-translation of p, for a camera of focal length f. Each axis
// is modelled independently.
func Model(x, p, f float64) float64 {
	return f * math.Atan(x/f) * (1 + x*x/(f*f)) * p
}

// EstimateZTranslation fits Model to the motion from origins to
// displacements and returns the fitted parameter. Both fields hold absolute
// positions; origins are typically the block centres. Only the sign and
// magnitude relative to other estimates are meaningful.
//
// Positions are normalised per axis about c, the floored midpoint of the
// origin extent, mapping v to (v-c)/c*2. A focal length <= 0 uses
// DefaultFocalLength. The fit is attempted once; any failure is a *FitError.
func EstimateZTranslation(origins, displacements grid.Field, focal float64) (float64, error) {
	if origins.Len() == 0 {
		return 0, &FitError{Reason: "empty field"}
	}
	if !origins.SameShape(displacements) {
		return 0, &FitError{Reason: fmt.Sprintf("field shapes differ: %dx%d and %dx%d",
			origins.Rows, origins.Cols, displacements.Rows, displacements.Cols)}
	}
	if focal <= 0 {
		focal = DefaultFocalLength
	}

	cx, cy := midpoint(origins)
	if cx == 0 || cy == 0 {
		return 0, &FitError{Reason: fmt.Sprintf("zero normalisation centre (%v, %v)", cx, cy)}
	}

	xs := normalise(origins, cx, cy)
	ys := normalise(displacements, cx, cy)

	// Sensitivity of the model to p at each point. The model is insensitive
	// when every point sits on the centre.
	sens := make([]float64, len(xs))
	var s2 float64
	for i, x := range xs {
		sens[i] = fd.Derivative(func(p float64) float64 { return Model(x, p, focal) }, initialParameter, &fd.Settings{Formula: fd.Central})
		s2 += sens[i] * sens[i]
	}
	if s2 == 0 || math.IsNaN(s2) || math.IsInf(s2, 0) {
		return 0, &FitError{Reason: "model insensitive to parameter"}
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			var sum float64
			for i, x := range xs {
				r := Model(x, p[0], focal) - ys[i]
				sum += r * r
			}
			return sum
		},
		Grad: func(grad, p []float64) {
			var g float64
			for i, x := range xs {
				g += 2 * (Model(x, p[0], focal) - ys[i]) * sens[i]
			}
			grad[0] = g
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: gradientThreshold,
		MajorIterations:   maxIterations,
	}

	res, err := optimize.Minimize(problem, []float64{initialParameter}, settings, &optimize.LBFGS{})
	if err != nil {
		return 0, solverError(err)
	}
	if res.Status.Early() {
		return 0, &FitError{Reason: "solver did not converge", Err: res.Status.Err()}
	}
	p := res.Location.X[0]
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, &FitError{Reason: fmt.Sprintf("non-finite estimate %v", p)}
	}
	return p, nil
}

// solverError returns a *FitError for an error returned by the solver.
func solverError(err error) *FitError {
	return &FitError{Reason: "solver error", Err: errors.WithStack(err)}
}

// midpoint returns the floored midpoint of the extent of f on each axis.
func midpoint(f grid.Field) (cx, cy float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range f.Vecs {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	return math.Floor((maxX + minX) / 2), math.Floor((maxY + minY) / 2)
}

// normalise returns f flattened as x0, y0, x1, y1, ... with each axis mapped
// from v to (v-c)/c*2.
func normalise(f grid.Field, cx, cy float64) []float64 {
	out := make([]float64, 0, 2*f.Len())
	for _, v := range f.Vecs {
		out = append(out, (v.X-cx)/cx*2, (v.Y-cy)/cy*2)
	}
	return out
}
