/*
DESCRIPTION
  flow.go provides the types describing block motion between two frames: point
  correspondences, the tagged result of a tracker, and the grid flow field.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package flow provides extraction of a coarse, grid based optical flow field
// from pairs of consecutive grayscale frames.
package flow

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ausocean/flowseg/grid"
)

// Pair is a matched point, found at Origin in the first image and at
// Destination in the second.
type Pair struct {
	Origin, Destination r2.Vec
}

// Result is the outcome of tracking one block pair. It either holds no
// correspondence, or a non-empty list of pairs.
type Result struct {
	pairs []Pair
}

// None returns a Result holding no correspondence.
func None() Result { return Result{} }

// Found returns a Result holding pairs. Found of an empty list is None.
func Found(pairs []Pair) Result {
	if len(pairs) == 0 {
		return None()
	}
	return Result{pairs: pairs}
}

// Empty reports whether r holds no correspondence.
func (r Result) Empty() bool { return len(r.pairs) == 0 }

// Pairs returns the correspondences held by r.
func (r Result) Pairs() []Pair { return r.pairs }

// Tracker finds corresponding points between two grayscale images.
// Finding nothing is not an error and is reported as None.
type Tracker interface {
	Track(a, b *image.Gray) (Result, error)
}

// MeanDisplacement returns the mean of Destination-Origin over the pairs of r.
// A Result with no correspondence resolves to the zero vector, as do any
// non-finite components.
func MeanDisplacement(r Result) r2.Vec {
	if r.Empty() {
		return r2.Vec{}
	}
	var sum r2.Vec
	for _, p := range r.pairs {
		sum = r2.Add(sum, r2.Sub(p.Destination, p.Origin))
	}
	n := float64(len(r.pairs))
	return r2.Vec{X: finite(sum.X / n), Y: finite(sum.Y / n)}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Flow is the grid flow field of one frame transition. Origins holds the block
// centres and Displacements the centres moved by each block's mean
// displacement, truncated toward zero.
type Flow struct {
	Origins       grid.Field
	Displacements grid.Field
}

// Vectors returns the per-block motion, Displacements - Origins.
func (f Flow) Vectors() grid.Field {
	return f.Displacements.Sub(f.Origins)
}

// Series is the flow of a frame sequence, one Flow per consecutive frame pair.
type Series []Flow
