/*
DESCRIPTION
  report_test.go provides testing for interval tables, statistics and plots.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ausocean/flowseg/segment"
)

func TestWriteIntervals(t *testing.T) {
	tests := []struct {
		intervals []segment.Interval
		typed     bool
		want      string
	}{
		{
			intervals: []segment.Interval{{Start: 0, End: 3}, {Start: 3, End: 5}},
			want:      "Start frame,End frame\n0,3\n3,5\n",
		},
		{
			intervals: []segment.Interval{
				{Start: 0, End: 3, Type: segment.TypeVisit},
				{Start: 3, End: 8, Type: segment.TypeTransition},
			},
			typed: true,
			want:  "Start frame,End frame,Type\n0,3,visit\n3,8,transition\n",
		},
		{
			intervals: nil,
			typed:     true,
			want:      "Start frame,End frame,Type\n",
		},
	}

	for i, test := range tests {
		var buf bytes.Buffer
		err := WriteIntervals(&buf, test.intervals, test.typed)
		if err != nil {
			t.Fatalf("did not expect error for test %d: %v", i, err)
		}
		if buf.String() != test.want {
			t.Errorf("unexpected output for test %d\nwant: %q\ngot: %q", i, test.want, buf.String())
		}
	}
}

func TestWriteLabels(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLabels(&buf, []segment.Label{{NewSegment: true, View: 1, Magnitude: 12.5, Estimate: -0.25}})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := "Frame,New segment,In visit,View,Magnitude,Estimate,Fit failed\n0,true,false,1,12.5,-0.25,false\n"
	if buf.String() != want {
		t.Errorf("unexpected output\nwant: %q\ngot: %q", want, buf.String())
	}
}

func TestSummarise(t *testing.T) {
	intervals := []segment.Interval{
		{Start: 0, End: 3, Type: segment.TypeVisit},
		{Start: 3, End: 7, Type: segment.TypeTransition},
		{Start: 7, End: 12, Type: segment.TypeVisit},
	}
	want := []Stats{
		{Type: segment.TypeTransition, Count: 1, Longest: 4, Shortest: 4, Mean: 4},
		{Type: segment.TypeVisit, Count: 2, Longest: 5, Shortest: 3, Mean: 4, StdDev: math.Sqrt2},
	}
	got := Summarise(intervals, "view")
	if !cmp.Equal(got, want, cmpopts.EquateApprox(0, 1e-12)) {
		t.Errorf("unexpected stats\nwant: %v\ngot: %v", want, got)
	}

	got = Summarise([]segment.Interval{{Start: 0, End: 10}}, "view")
	if len(got) != 1 || got[0].Type != "view" || got[0].Mean != 10 {
		t.Errorf("unexpected untyped stats: %v", got)
	}
	if len(Summarise(nil, "view")) != 0 {
		t.Error("expected no stats for no intervals")
	}
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStats(&buf, []Stats{{Type: "visit", Count: 2, Longest: 5, Shortest: 3, Mean: 4, StdDev: 1.5}})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := "Type,Count,Longest segment length,Shortest segment length,Average segment length,Segment length deviation\nvisit,2,5,3,4,1.5\n"
	if buf.String() != want {
		t.Errorf("unexpected output\nwant: %q\ngot: %q", want, buf.String())
	}
}

func TestPlotSignals(t *testing.T) {
	dir := t.TempDir()
	labels := make([]segment.Label, 50)
	for i := range labels {
		labels[i].Magnitude = float64(i % 10)
		labels[i].Estimate = math.Sin(float64(i) / 5)
	}

	err := PlotSignals(dir, labels, 8, 0.5)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	for _, name := range []string{MotionPlot, VisitPlot} {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("plot %s not written: %v", name, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("plot %s is empty", name)
		}
	}

	err = PlotSignals(dir, nil, 8, 0.5)
	if err == nil {
		t.Error("expected error plotting no labels")
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	labels := []segment.Label{{Magnitude: 1}, {Magnitude: 11, NewSegment: true, View: 1}, {Magnitude: 2, View: 1}}
	views := []segment.Interval{{Start: 1, End: 3}}
	visits := []segment.Interval{{Start: 0, End: 3, Type: segment.TypeTransition}}

	err := WriteDir(dir, labels, views, visits, 10, 0.01)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	for _, name := range []string{ViewTable, VisitTable, LabelTable, StatsTable, MotionPlot, VisitPlot} {
		_, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, StatsTable))
	if err != nil {
		t.Fatalf("could not read stats: %v", err)
	}
	want := "Type,Count,Longest segment length,Shortest segment length,Average segment length,Segment length deviation\n" +
		"view,1,2,2,2,0\n" +
		"transition,1,3,3,3,0\n"
	if string(b) != want {
		t.Errorf("unexpected stats\nwant: %q\ngot: %q", want, string(b))
	}
}

func TestWriteDirNoLabels(t *testing.T) {
	dir := t.TempDir()
	err := WriteDir(dir, nil, nil, nil, 10, 0.01)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	_, err = os.Stat(filepath.Join(dir, MotionPlot))
	if !os.IsNotExist(err) {
		t.Errorf("expected no plot without labels, got: %v", err)
	}
}
