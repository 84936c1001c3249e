/*
DESCRIPTION
  pipeline.go provides Pipeline, which reads frames from a configured source
  and extracts the grid flow series of consecutive frame pairs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline wires frame sources, flow extraction and segmentation
// together according to a config.Config.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/device"
	"github.com/ausocean/flowseg/device/imageseq"
	"github.com/ausocean/flowseg/device/video"
	"github.com/ausocean/flowseg/flow"
)

// Progress is logged every progressInterval frame transitions.
const progressInterval = 100

// Pipeline extracts a flow series from a frame source.
type Pipeline struct {
	cfg       config.Config
	input     device.FrameSource
	extractor *flow.Extractor
}

// New returns a Pipeline for the given config. If src is nil the source is
// chosen by c.Input, and if tr is nil a Lucas-Kanade tracker is built from
// the tracker fields of c.
func New(c config.Config, src device.FrameSource, tr flow.Tracker) (*Pipeline, error) {
	if c.Logger == nil {
		return nil, errors.New("nil logger in config")
	}
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("config struct is bad: %w", err)
	}

	if src == nil {
		src, err = NewSource(c)
		if err != nil {
			return nil, err
		}
	} else {
		c.Logger.Debug("using supplied input", "name", src.Name())
		err = src.Set(c)
		if err != nil {
			c.Logger.Warning("errors from configuring input device", "errors", err)
		}
	}

	if tr == nil {
		tr, err = NewTracker(c)
		if err != nil {
			return nil, fmt.Errorf("could not create tracker: %w", err)
		}
	}

	e, err := flow.NewExtractor(tr, int(c.GridRows), int(c.GridCols), c.Logger, flow.Workers(int(c.Workers)))
	if err != nil {
		return nil, fmt.Errorf("could not create extractor: %w", err)
	}
	return &Pipeline{cfg: c, input: src, extractor: e}, nil
}

// NewSource returns the frame source selected by c.Input, configured by c.
func NewSource(c config.Config) (device.FrameSource, error) {
	var input device.FrameSource
	switch c.Input {
	case config.InputVideo:
		c.Logger.Debug("using video input")
		input = video.New(c.Logger)
	case config.InputImageSequence:
		c.Logger.Debug("using image sequence input")
		input = imageseq.New(c.Logger)
	default:
		return nil, fmt.Errorf("unrecognised input type: %v", c.Input)
	}

	// Defaults are set by Validate, so configuration errors are only logged.
	c.Logger.Debug("configuring input device")
	err := input.Set(c)
	if err != nil {
		c.Logger.Warning("errors from configuring input device", "errors", err)
	}
	c.Logger.Info("input device configured", "name", input.Name())
	return input, nil
}

// NewTracker returns a Lucas-Kanade tracker using the tracker fields of c.
func NewTracker(c config.Config) (flow.Tracker, error) {
	return flow.NewLK(lkParams(c))
}

// lkParams returns the tracker parameters of c. A validated zero
// PyramidLevels was given explicitly and selects the base image only.
func lkParams(c config.Config) flow.LKParams {
	levels := int(c.PyramidLevels)
	if levels == 0 {
		levels = flow.NoPyramid
	}
	return flow.LKParams{
		MaxCorners:  int(c.MaxCorners),
		Quality:     c.CornerQuality,
		MinDistance: c.CornerMinDistance,
		WindowSize:  int(c.WindowSize),
		MaxLevel:    levels,
		TermCount:   int(c.TermCount),
		TermEpsilon: c.TermEpsilon,
	}
}

// Flow reads every frame of the source and returns the flow of each
// consecutive pair, so a source of N frames gives N-1 flows. The first error
// from the extractor, including a *grid.DimensionError, aborts the run.
// If ctx is cancelled the flows computed so far are returned with ctx.Err().
func (p *Pipeline) Flow(ctx context.Context) (flow.Series, error) {
	err := p.input.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start input device: %w", err)
	}
	defer func() {
		p.cfg.Logger.Debug("stopping input")
		err := p.input.Stop()
		if err != nil {
			p.cfg.Logger.Error("could not stop input source", "error", err)
			return
		}
		p.cfg.Logger.Info("input stopped")
	}()

	prev, err := p.input.Next()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("input has no frames")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read first frame: %w", err)
	}

	var series flow.Series
	if n := p.input.Len(); n > 1 {
		series = make(flow.Series, 0, n-1)
	}

	p.cfg.Logger.Debug("computing flow")
	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return series, ctx.Err()
		default:
		}

		next, err := p.input.Next()
		if errors.Is(err, io.EOF) {
			p.cfg.Logger.Info("end of input", "frames", i)
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read frame %d: %w", i, err)
		}

		f, err := p.extractor.Compute(prev, next)
		if err != nil {
			return nil, fmt.Errorf("could not compute flow for frame %d: %w", i, err)
		}
		series = append(series, f)
		prev = next

		if i%progressInterval == 0 {
			p.cfg.Logger.Info("flow progress", "frames", i, "of", p.input.Len())
		}
	}
	return series, nil
}

// Close frees resources held by the pipeline.
func (p *Pipeline) Close() error {
	return p.extractor.Close()
}
