/*
DESCRIPTION
  merge_test.go provides testing for the interval merging of label streams.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	T = true
	F = false
)

func TestViewIntervals(t *testing.T) {
	tests := []struct {
		labels []bool
		min    int
		want   []Interval
	}{
		{
			labels: []bool{F, F, F, T, T, F},
			min:    2,
			want:   []Interval{{Start: 0, End: 3}, {Start: 3, End: 5}},
		},
		{
			labels: []bool{F, F, F, T, T, F},
			min:    1,
			want:   []Interval{{Start: 0, End: 3}, {Start: 3, End: 5}, {Start: 5, End: 6}},
		},
		{
			labels: []bool{T, T, T, T},
			min:    5,
			want:   nil,
		},
		{
			labels: nil,
			min:    1,
			want:   nil,
		},
	}

	for i, test := range tests {
		got := ViewIntervals(test.labels, test.min)
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected intervals for test %d\nwant: %v\ngot: %v", i, test.want, got)
		}
	}
}

func TestViewIntervalsTimeline(t *testing.T) {
	ids := []int{0, 0, 1, 1, 1, 1, 2, 3, 3, 3}
	want := []Interval{{Start: 2, End: 6}, {Start: 7, End: 10}}
	got := ViewIntervals(ids, 3)
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected intervals\nwant: %v\ngot: %v", want, got)
	}
}

func TestVisitIntervals(t *testing.T) {
	tests := []struct {
		labels []bool
		min    int
		want   []Interval
	}{
		{
			labels: []bool{T, T, T, F, F, F, T, T},
			min:    1,
			want: []Interval{
				{Start: 0, End: 3, Type: TypeVisit},
				{Start: 3, End: 6, Type: TypeTransition},
				{Start: 6, End: 8, Type: TypeVisit},
			},
		},
		{
			// The short final run loses its start boundary and joins the
			// preceding run.
			labels: []bool{T, T, T, F, F, F, T, T},
			min:    3,
			want: []Interval{
				{Start: 0, End: 3, Type: TypeVisit},
				{Start: 3, End: 8, Type: TypeTransition},
			},
		},
		{
			labels: []bool{T, T, T, F, F, F, T, T},
			min:    4,
			want:   []Interval{{Start: 0, End: 8, Type: TypeVisit}},
		},
		{
			// A short run in the middle drops both of its boundaries.
			labels: []bool{F, F, F, F, F, T, F, F, F, F, F, T, T, T, T, T, T},
			min:    3,
			want: []Interval{
				{Start: 0, End: 11, Type: TypeTransition},
				{Start: 11, End: 17, Type: TypeVisit},
			},
		},
		{
			labels: []bool{F, T},
			min:    5,
			want:   []Interval{{Start: 0, End: 2, Type: TypeTransition}},
		},
		{
			labels: nil,
			min:    3,
			want:   nil,
		},
	}

	for i, test := range tests {
		got := VisitIntervals(test.labels, test.min)
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected intervals for test %d\nwant: %v\ngot: %v", i, test.want, got)
		}
	}
}

func TestVisitIntervalsCover(t *testing.T) {
	labels := []bool{T, F, F, T, T, T, F, T, T, T, T, F, F, F, F, F, T, F}
	for min := 0; min < 8; min++ {
		got := VisitIntervals(labels, min)
		if len(got) == 0 || got[0].Start != 0 || got[len(got)-1].End != len(labels) {
			t.Errorf("intervals do not cover stream for min %d: %v", min, got)
			continue
		}
		for i := 1; i < len(got); i++ {
			if got[i].Start != got[i-1].End || got[i].Len() <= 0 {
				t.Errorf("intervals not contiguous for min %d: %v", min, got)
				break
			}
		}
	}
}
