/*
DESCRIPTION
  view.go provides View, a state machine marking motion segment boundaries by
  accumulating block motion until its mean magnitude crosses a threshold.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package segment provides the state machines that label a flow series frame
// by frame, and the conversion of those labels into interval tables.
package segment

import (
	"github.com/ausocean/flowseg/flow"
	"github.com/ausocean/flowseg/grid"
)

// View accumulates per-block motion across frame transitions and reports a
// new segment once the mean accumulated magnitude exceeds its threshold.
// Slow drift therefore eventually counts as motion. Every flow advanced
// between resets must share one grid shape. A View must not be advanced
// concurrently.
type View struct {
	threshold float64
	cumulated grid.Field // Unset while Vecs is nil.
	magnitude float64
}

// NewView returns a View with the given motion threshold in pixels.
func NewView(threshold float64) *View {
	return &View{threshold: threshold}
}

// Advance adds the motion of f to the accumulator and reports whether it
// completes a segment, in which case the accumulator is cleared.
func (v *View) Advance(f flow.Flow) bool {
	motion := f.Vectors()
	if v.cumulated.Vecs == nil {
		v.cumulated = motion
	} else {
		v.cumulated = v.cumulated.Add(motion)
	}

	v.magnitude = v.cumulated.MeanNorm()
	if v.magnitude > v.threshold {
		v.cumulated = grid.Field{}
		return true
	}
	return false
}

// Magnitude returns the mean accumulated magnitude computed by the last call
// to Advance.
func (v *View) Magnitude() float64 { return v.magnitude }

// Reset clears the accumulator.
func (v *View) Reset() {
	v.cumulated = grid.Field{}
	v.magnitude = 0
}
