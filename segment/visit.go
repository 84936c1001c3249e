/*
DESCRIPTION
  visit.go provides Visit, a state machine labelling frames as in a visit when
  the estimated z-translation of the smoothed flow exceeds a threshold.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segment

import (
	"fmt"

	"github.com/ausocean/flowseg/camera"
	"github.com/ausocean/flowseg/flow"
	"github.com/ausocean/flowseg/grid"
)

// DefaultSmoothFactor is the weight given to the smoothed field on each update.
const DefaultSmoothFactor = 0.99

// Visit exponentially smooths the displaced block positions and estimates the
// camera z-translation of the smoothed field for every transition. Every flow
// advanced between resets must share one grid shape. A Visit must not be
// advanced concurrently.
type Visit struct {
	threshold float64
	smooth    float64
	focal     float64

	smoothed grid.Field // Seeded by the first Advance.
	estimate float64
}

// NewVisit returns a Visit with the given z-translation threshold.
func NewVisit(threshold float64, options ...func(*Visit) error) (*Visit, error) {
	v := &Visit{
		threshold: threshold,
		smooth:    DefaultSmoothFactor,
		focal:     camera.DefaultFocalLength,
	}
	for _, option := range options {
		err := option(v)
		if err != nil {
			return nil, fmt.Errorf("option failed with error: %w", err)
		}
	}
	return v, nil
}

// SmoothFactor sets the weight a in smoothed = a*smoothed + (1-a)*displacements.
func SmoothFactor(a float64) func(*Visit) error {
	return func(v *Visit) error {
		if a < 0 || a > 1 {
			return fmt.Errorf("smoothing factor %v outside [0, 1]", a)
		}
		v.smooth = a
		return nil
	}
}

// FocalLength sets the focal length given to the z-translation model.
func FocalLength(f float64) func(*Visit) error {
	return func(v *Visit) error {
		if f <= 0 {
			return fmt.Errorf("invalid focal length: %v", f)
		}
		v.focal = f
		return nil
	}
}

// Advance updates the smoothed field with f and reports whether the
// estimated z-translation exceeds the threshold. If estimation fails the
// error wraps a *camera.FitError; the smoothed field keeps the update.
func (v *Visit) Advance(f flow.Flow) (bool, error) {
	if v.smoothed.Vecs == nil {
		v.smoothed = f.Displacements.Clone()
	} else {
		v.smoothed = v.smoothed.Scale(v.smooth).Add(f.Displacements.Scale(1 - v.smooth))
	}

	est, err := camera.EstimateZTranslation(f.Origins, v.smoothed, v.focal)
	if err != nil {
		return false, fmt.Errorf("could not estimate z-translation: %w", err)
	}
	v.estimate = est
	return est > v.threshold, nil
}

// Estimate returns the z-translation estimated by the last successful call to
// Advance.
func (v *Visit) Estimate() float64 { return v.estimate }

// Reset clears the smoothed field so that the next Advance seeds it.
func (v *Visit) Reset() {
	v.smoothed = grid.Field{}
	v.estimate = 0
}
