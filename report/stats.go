/*
DESCRIPTION
  stats.go provides summary statistics of interval lengths.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/flowseg/segment"
)

// Stats summarises the lengths of the intervals of one type.
type Stats struct {
	Type     string
	Count    int
	Longest  float64
	Shortest float64
	Mean     float64
	StdDev   float64
}

// Summarise returns the length statistics of intervals grouped by Type, in
// type order. Untyped intervals are grouped under untyped.
func Summarise(intervals []segment.Interval, untyped string) []Stats {
	lengths := make(map[string][]float64)
	for _, iv := range intervals {
		t := iv.Type
		if t == "" {
			t = untyped
		}
		lengths[t] = append(lengths[t], float64(iv.Len()))
	}

	types := make([]string, 0, len(lengths))
	for t := range lengths {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]Stats, 0, len(types))
	for _, t := range types {
		l := lengths[t]
		s := Stats{
			Type:     t,
			Count:    len(l),
			Longest:  floats.Max(l),
			Shortest: floats.Min(l),
			Mean:     stat.Mean(l, nil),
		}
		if len(l) > 1 {
			s.StdDev = stat.StdDev(l, nil)
		}
		out = append(out, s)
	}
	return out
}

// WriteStats writes stats to w as CSV.
func WriteStats(w io.Writer, stats []Stats) error {
	cw := csv.NewWriter(w)
	err := cw.Write([]string{"Type", "Count", "Longest segment length", "Shortest segment length", "Average segment length", "Segment length deviation"})
	if err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for _, s := range stats {
		err = cw.Write([]string{
			s.Type,
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.Longest, 'g', -1, 64),
			strconv.FormatFloat(s.Shortest, 'g', -1, 64),
			strconv.FormatFloat(s.Mean, 'g', -1, 64),
			strconv.FormatFloat(s.StdDev, 'g', -1, 64),
		})
		if err != nil {
			return fmt.Errorf("could not write stats: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
