/*
DESCRIPTION
  timeline.go provides Timeline, which numbers view segments from motion
  boundaries and visit label changes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segment

// Timeline assigns a view segment number to each transition. The number
// increases on every motion boundary and on every change of the visit label.
type Timeline struct {
	id      int
	last    bool
	started bool
}

// Add records one transition and returns its view segment number.
func (t *Timeline) Add(newSegment, inVisit bool) int {
	if newSegment {
		t.id++
	}
	if t.started && inVisit != t.last {
		t.id++
	}
	t.last, t.started = inVisit, true
	return t.id
}

// Label is the segmentation record of one frame transition.
type Label struct {
	NewSegment bool    // View boundary.
	InVisit    bool    // Visit label.
	View       int     // View segment number from a Timeline.
	Magnitude  float64 // Accumulated motion magnitude.
	Estimate   float64 // Z-translation estimate.
	FitFailed  bool    // The estimate failed and InVisit was substituted.
}
