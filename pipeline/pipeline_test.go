/*
DESCRIPTION
  pipeline_test.go provides testing for flow extraction from frame sources and
  segmentation of flow series.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"context"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ausocean/flowseg/camera"
	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/device"
	"github.com/ausocean/flowseg/device/imageseq"
	"github.com/ausocean/flowseg/flow"
	"github.com/ausocean/flowseg/grid"
	"github.com/ausocean/flowseg/segment"
)

// shiftTracker reports every block as moving by d.
type shiftTracker struct{ d r2.Vec }

func (s shiftTracker) Track(a, b *image.Gray) (flow.Result, error) {
	return flow.Found([]flow.Pair{{Origin: r2.Vec{}, Destination: s.d}}), nil
}

func frames(n, w, h int) []*image.Gray {
	imgs := make([]*image.Gray, n)
	for i := range imgs {
		imgs[i] = image.NewGray(image.Rect(0, 0, w, h))
	}
	return imgs
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Logger:   (*logging.TestLogger)(t),
		GridRows: 2,
		GridCols: 2,
		Workers:  2,
	}
}

func TestFlow(t *testing.T) {
	src := device.NewFrames(frames(4, 8, 8)...)
	p, err := New(testConfig(t), src, shiftTracker{d: r2.Vec{X: 1.7, Y: -2.2}})
	if err != nil {
		t.Fatalf("could not create pipeline: %v", err)
	}
	defer p.Close()

	series, err := p.Flow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("unexpected series length, want: 3, got: %d", len(series))
	}

	centres, err := grid.Centres(8, 8, 2, 2)
	if err != nil {
		t.Fatalf("could not get centres: %v", err)
	}
	want := centres.Clone()
	for i := range want.Vecs {
		want.Vecs[i] = r2.Add(want.Vecs[i], r2.Vec{X: 1, Y: -2})
	}
	for i, f := range series {
		if !cmp.Equal(f.Origins, centres) {
			t.Errorf("unexpected origins for flow %d\nwant: %v\ngot: %v", i, centres, f.Origins)
		}
		if !cmp.Equal(f.Displacements, want) {
			t.Errorf("unexpected displacements for flow %d\nwant: %v\ngot: %v", i, want, f.Displacements)
		}
	}
	if src.IsRunning() {
		t.Error("source still running after Flow returned")
	}
}

func TestFlowDimensionError(t *testing.T) {
	p, err := New(testConfig(t), device.NewFrames(frames(2, 8, 9)...), shiftTracker{})
	if err != nil {
		t.Fatalf("could not create pipeline: %v", err)
	}
	_, err = p.Flow(context.Background())
	var de *grid.DimensionError
	if !errors.As(err, &de) {
		t.Fatalf("expected *grid.DimensionError, got: %v", err)
	}
}

func TestFlowEmptyAndSingle(t *testing.T) {
	p, err := New(testConfig(t), device.NewFrames(), shiftTracker{})
	if err != nil {
		t.Fatalf("could not create pipeline: %v", err)
	}
	_, err = p.Flow(context.Background())
	if err == nil {
		t.Error("expected error for source without frames")
	}

	p, err = New(testConfig(t), device.NewFrames(frames(1, 8, 8)...), shiftTracker{})
	if err != nil {
		t.Fatalf("could not create pipeline: %v", err)
	}
	series, err := p.Flow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d flows", len(series))
	}
}

func TestFlowCancelled(t *testing.T) {
	p, err := New(testConfig(t), device.NewFrames(frames(5, 8, 8)...), shiftTracker{})
	if err != nil {
		t.Fatalf("could not create pipeline: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Flow(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestNewSource(t *testing.T) {
	c := testConfig(t)
	c.Input = config.InputImageSequence
	c.InputPath = t.TempDir()
	src, err := NewSource(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*imageseq.ImageSequence); !ok {
		t.Errorf("unexpected source type: %T", src)
	}

	c.Input = 99
	_, err = NewSource(c)
	if err == nil {
		t.Error("expected error for unrecognised input")
	}
}

// translated returns a flow for a 4x4 grid over a 640x480 frame where every
// block moves by d.
func translated(t *testing.T, d r2.Vec) flow.Flow {
	t.Helper()
	c, err := grid.Centres(480, 640, 4, 4)
	if err != nil {
		t.Fatalf("could not get centres: %v", err)
	}
	disp := c.Clone()
	for i := range disp.Vecs {
		disp.Vecs[i] = r2.Add(disp.Vecs[i], d)
	}
	return flow.Flow{Origins: c, Displacements: disp}
}

// zoomed returns a flow for a 4x4 grid over a 640x480 frame where the block
// centres move as the z-translation model gives for p.
func zoomed(t *testing.T, p float64) flow.Flow {
	t.Helper()
	c, err := grid.Centres(480, 640, 4, 4)
	if err != nil {
		t.Fatalf("could not get centres: %v", err)
	}
	const cx, cy = 320, 240
	disp := grid.NewField(4, 4)
	for i, o := range c.Vecs {
		nx := camera.Model((o.X-cx)/cx*2, p, camera.DefaultFocalLength)
		ny := camera.Model((o.Y-cy)/cy*2, p, camera.DefaultFocalLength)
		disp.Vecs[i] = r2.Vec{X: nx*cx/2 + cx, Y: ny*cy/2 + cy}
	}
	return flow.Flow{Origins: c, Displacements: disp}
}

// centred returns a flow whose single block does not move, for which no
// z-translation can be estimated.
func centred() flow.Flow {
	f := grid.NewField(1, 1)
	f.Vecs[0] = r2.Vec{X: 4, Y: 4}
	return flow.Flow{Origins: f, Displacements: f.Clone()}
}

func TestSegmentViews(t *testing.T) {
	c := testConfig(t)
	c.MotionThreshold = 12
	c.TransitionThreshold = 2
	c.MinViewLength = 2
	c.MinVisitLength = 1

	series := make(flow.Series, 9)
	for i := range series {
		series[i] = translated(t, r2.Vec{X: 3, Y: 4})
	}
	res, err := Segment(c, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []int
	for _, l := range res.Labels {
		ids = append(ids, l.View)
		if l.InVisit {
			t.Errorf("unexpected visit label for translation, estimate: %v", l.Estimate)
		}
	}
	wantIDs := []int{0, 0, 1, 1, 1, 2, 2, 2, 3}
	if !cmp.Equal(ids, wantIDs) {
		t.Errorf("unexpected view ids\nwant: %v\ngot: %v", wantIDs, ids)
	}

	wantViews := []segment.Interval{{Start: 0, End: 2}, {Start: 2, End: 5}, {Start: 5, End: 8}}
	if !cmp.Equal(res.Views, wantViews) {
		t.Errorf("unexpected views\nwant: %v\ngot: %v", wantViews, res.Views)
	}
	wantVisits := []segment.Interval{{Start: 0, End: 9, Type: segment.TypeTransition}}
	if !cmp.Equal(res.Visits, wantVisits) {
		t.Errorf("unexpected visits\nwant: %v\ngot: %v", wantVisits, res.Visits)
	}
}

func TestSegmentVisit(t *testing.T) {
	c := testConfig(t)
	c.MotionThreshold = 1e6
	c.TransitionThreshold = 0.4
	c.MinViewLength = 1
	c.MinVisitLength = 1

	series := make(flow.Series, 10)
	for i := range series {
		series[i] = zoomed(t, 0.5)
	}
	res, err := Segment(c, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, l := range res.Labels {
		if !l.InVisit || l.View != 0 || l.FitFailed {
			t.Errorf("unexpected label %d: %+v", i, l)
		}
		if math.Abs(l.Estimate-0.5) > 1e-3 {
			t.Errorf("unexpected estimate for label %d: %v", i, l.Estimate)
		}
	}
	wantViews := []segment.Interval{{Start: 0, End: 10}}
	if !cmp.Equal(res.Views, wantViews) {
		t.Errorf("unexpected views\nwant: %v\ngot: %v", wantViews, res.Views)
	}
	wantVisits := []segment.Interval{{Start: 0, End: 10, Type: segment.TypeVisit}}
	if !cmp.Equal(res.Visits, wantVisits) {
		t.Errorf("unexpected visits\nwant: %v\ngot: %v", wantVisits, res.Visits)
	}
}

func TestSegmentFitPolicy(t *testing.T) {
	series := flow.Series{centred(), centred(), centred()}

	c := testConfig(t)
	c.FitPolicy = config.FitPrevious
	res, err := Segment(c, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FitFailures != 3 {
		t.Errorf("unexpected fit failures, want: 3, got: %d", res.FitFailures)
	}
	for i, l := range res.Labels {
		if !l.FitFailed || l.InVisit {
			t.Errorf("unexpected label %d: %+v", i, l)
		}
	}

	c.FitPolicy = config.FitAbort
	_, err = Segment(c, series)
	var fe *camera.FitError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *camera.FitError, got: %v", err)
	}
	if !strings.Contains(err.Error(), "transition 0") {
		t.Errorf("error does not name the transition: %v", err)
	}
}

func TestSegmentEmpty(t *testing.T) {
	res, err := Segment(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Labels) != 0 || res.Views != nil || res.Visits != nil {
		t.Errorf("unexpected result for empty series: %+v", res)
	}
}

func TestLKParamsFromConfig(t *testing.T) {
	c := testConfig(t)
	c.Update(map[string]string{config.KeyPyramidLevels: "0"})
	err := c.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := lkParams(c).MaxLevel; got != flow.NoPyramid {
		t.Errorf("unexpected MaxLevel for given zero levels, want: %d, got: %d", flow.NoPyramid, got)
	}

	c = testConfig(t)
	c.PyramidLevels = 3
	if got := lkParams(c).MaxLevel; got != 3 {
		t.Errorf("unexpected MaxLevel, want: 3, got: %d", got)
	}
}

func TestSegmentStaticDefaults(t *testing.T) {
	c, err := grid.Centres(480, 640, 4, 4)
	if err != nil {
		t.Fatalf("could not get centres: %v", err)
	}
	series := make(flow.Series, 10)
	for i := range series {
		series[i] = flow.Flow{Origins: c, Displacements: c.Clone()}
	}

	res, err := Segment(config.Config{Logger: (*logging.TestLogger)(t)}, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, l := range res.Labels {
		if l.InVisit || l.FitFailed {
			t.Errorf("unexpected label %d for static camera: %+v", i, l)
		}
	}
	want := []segment.Interval{{Start: 0, End: 10, Type: segment.TypeTransition}}
	if !cmp.Equal(res.Visits, want) {
		t.Errorf("unexpected visits\nwant: %v\ngot: %v", want, res.Visits)
	}
}

// zoomSeries returns zoomed flows for ps, where NaN gives a flow with zero
// origins, for which the fit fails, displaced as for p=1.5.
func zoomSeries(t *testing.T, ps ...float64) flow.Series {
	t.Helper()
	series := make(flow.Series, len(ps))
	for i, p := range ps {
		if math.IsNaN(p) {
			f := zoomed(t, 1.5)
			f.Origins = grid.NewField(4, 4)
			series[i] = f
			continue
		}
		series[i] = zoomed(t, p)
	}
	return series
}

func TestSegmentFitPreviousMidSeries(t *testing.T) {
	c := testConfig(t)
	c.TransitionThreshold = 0.4
	c.SmoothFactor = 0.5
	c.FitPolicy = config.FitPrevious

	res, err := Segment(c, zoomSeries(t, 0.5, 0.5, math.NaN(), 0.5, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FitFailures != 1 {
		t.Errorf("unexpected fit failures, want: 1, got: %d", res.FitFailures)
	}

	failed := res.Labels[2]
	if !failed.FitFailed || !failed.InVisit {
		t.Errorf("failed transition did not reuse previous visit label: %+v", failed)
	}
	if math.Abs(failed.Estimate-0.5) > 1e-3 {
		t.Errorf("failed transition changed the estimate: %v", failed.Estimate)
	}

	// The smoothed field keeps the failed transition's displacements, so the
	// following estimates are those of an uninterrupted run through p=1.5.
	ref, err := Segment(c, zoomSeries(t, 0.5, 0.5, 1.5, 0.5, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range map[int]float64{3: 0.75, 4: 0.625} {
		got := res.Labels[i].Estimate
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("unexpected estimate for transition %d, want: %v, got: %v", i, want, got)
		}
		if math.Abs(got-ref.Labels[i].Estimate) > 1e-4 {
			t.Errorf("estimate for transition %d differs from uninterrupted smoothing, want: %v, got: %v", i, ref.Labels[i].Estimate, got)
		}
		if !res.Labels[i].InVisit || res.Labels[i].FitFailed {
			t.Errorf("unexpected label %d: %+v", i, res.Labels[i])
		}
	}
}
