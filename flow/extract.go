/*
DESCRIPTION
  extract.go provides Extractor, which converts consecutive frame pairs into
  grid flow fields using a Tracker on each block pair.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flow

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ausocean/utils/logging"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ausocean/flowseg/grid"
)

const defaultWorkers = 1

// Extractor computes the grid flow field between two frames.
type Extractor struct {
	tracker    Tracker
	rows, cols int
	workers    int
	log        logging.Logger

	// Block centres of the last seen frame size. Shared read-only by every
	// Flow returned for that size.
	size    image.Point
	centres grid.Field

	debugging debugWindows
}

// NewExtractor returns an Extractor using tr on a rows x cols grid. The grid
// is checked against frame dimensions on each call to Compute.
func NewExtractor(tr Tracker, rows, cols int, log logging.Logger, options ...func(*Extractor) error) (*Extractor, error) {
	if tr == nil {
		return nil, errors.New("nil tracker")
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("invalid grid %dx%d", rows, cols)
	}
	e := &Extractor{
		tracker:   tr,
		rows:      rows,
		cols:      cols,
		workers:   defaultWorkers,
		log:       log,
		debugging: newWindows("flow"),
	}

	for _, option := range options {
		err := option(e)
		if err != nil {
			return nil, fmt.Errorf("option failed with error: %w", err)
		}
	}
	log.Debug("extractor options applied", "rows", rows, "cols", cols, "workers", e.workers)
	return e, nil
}

// Workers sets the number of blocks tracked concurrently. The Tracker must be
// safe for concurrent use when n > 1.
func Workers(n int) func(*Extractor) error {
	return func(e *Extractor) error {
		if n < 1 {
			return fmt.Errorf("invalid worker count: %d", n)
		}
		e.workers = n
		return nil
	}
}

// Centres returns the block centres for frames of height h and width w,
// computing them only when the frame size changes.
func (e *Extractor) Centres(h, w int) (grid.Field, error) {
	sz := image.Pt(w, h)
	if e.centres.Vecs != nil && sz == e.size {
		return e.centres, nil
	}
	c, err := grid.Centres(h, w, e.rows, e.cols)
	if err != nil {
		return grid.Field{}, err
	}
	e.size, e.centres = sz, c
	return c, nil
}

// Compute returns the flow field from frame a to frame b. Blocks for which the
// tracker finds no correspondence have zero displacement. A grid that does
// not evenly divide the frames gives a *grid.DimensionError.
func (e *Extractor) Compute(a, b *image.Gray) (Flow, error) {
	if a.Bounds().Size() != b.Bounds().Size() {
		return Flow{}, fmt.Errorf("frame size mismatch: %v and %v", a.Bounds().Size(), b.Bounds().Size())
	}

	blocksA, err := grid.Partition(a, e.rows, e.cols)
	if err != nil {
		return Flow{}, err
	}
	blocksB, err := grid.Partition(b, e.rows, e.cols)
	if err != nil {
		return Flow{}, err
	}
	centres, err := e.Centres(a.Bounds().Dy(), a.Bounds().Dx())
	if err != nil {
		return Flow{}, err
	}

	means := make([]r2.Vec, len(blocksA))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range blocksA {
		i := i
		g.Go(func() error {
			res, err := e.tracker.Track(blocksA[i], blocksB[i])
			if err != nil {
				return fmt.Errorf("could not track block %d: %w", i, err)
			}
			if res.Empty() {
				e.log.Debug("no correspondence, using zero displacement", "block", i)
			}
			means[i] = MeanDisplacement(res)
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return Flow{}, err
	}

	disp := grid.NewField(e.rows, e.cols)
	for i, m := range means {
		disp.Vecs[i] = r2.Add(centres.Vecs[i], r2.Vec{X: math.Trunc(m.X), Y: math.Trunc(m.Y)})
	}
	f := Flow{Origins: centres, Displacements: disp}

	e.debugging.show(b, f)
	return f, nil
}

// Close frees any resources held by the extractor.
func (e *Extractor) Close() error {
	return e.debugging.close()
}
