/*
DESCRIPTION
  segment.go provides Segment, which drives the view and visit state machines
  over a flow series and merges their labels into intervals.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"errors"
	"fmt"

	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/flow"
	"github.com/ausocean/flowseg/segment"
)

// Result holds the segmentation of a flow series. Label i describes the
// transition from frame i to frame i+1, and interval bounds index labels.
type Result struct {
	Labels      []segment.Label
	Views       []segment.Interval
	Visits      []segment.Interval
	FitFailures int
}

// Segment labels every flow of series with the view and visit state machines
// configured by c, then merges the labels into view and visit intervals.
// A failed z-translation fit is handled according to c.FitPolicy.
func Segment(c config.Config, series flow.Series) (*Result, error) {
	if c.Logger == nil {
		return nil, errors.New("nil logger in config")
	}
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("config struct is bad: %w", err)
	}

	view := segment.NewView(c.MotionThreshold)
	visit, err := segment.NewVisit(c.TransitionThreshold,
		segment.SmoothFactor(c.SmoothFactor),
		segment.FocalLength(c.FocalLength),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create visit state: %w", err)
	}

	var (
		timeline segment.Timeline
		res      = &Result{Labels: make([]segment.Label, 0, len(series))}
		prev     bool
		ids      = make([]int, 0, len(series))
		inVisit  = make([]bool, 0, len(series))
	)
	for i, f := range series {
		l := segment.Label{NewSegment: view.Advance(f), Magnitude: view.Magnitude()}

		l.InVisit, err = visit.Advance(f)
		if err != nil {
			switch c.FitPolicy {
			case config.FitAbort:
				return nil, fmt.Errorf("transition %d: %w", i, err)
			case config.FitPrevious:
				c.Logger.Warning("using previous visit label", "transition", i, "error", err)
				l.InVisit = prev
				l.FitFailed = true
				res.FitFailures++
			default:
				return nil, fmt.Errorf("unrecognised fit policy: %v", c.FitPolicy)
			}
		}
		l.Estimate = visit.Estimate()
		l.View = timeline.Add(l.NewSegment, l.InVisit)
		prev = l.InVisit

		res.Labels = append(res.Labels, l)
		ids = append(ids, l.View)
		inVisit = append(inVisit, l.InVisit)
	}

	res.Views = segment.ViewIntervals(ids, int(c.MinViewLength))
	res.Visits = segment.VisitIntervals(inVisit, int(c.MinVisitLength))
	c.Logger.Info("segmentation complete",
		"transitions", len(series),
		"views", len(res.Views),
		"visits", len(res.Visits),
		"fitFailures", res.FitFailures,
	)
	return res, nil
}
