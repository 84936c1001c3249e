/*
DESCRIPTION
  table.go provides CSV output of interval tables and per-transition labels.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package report provides the tables, statistics and plots produced from a
// segmentation.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ausocean/flowseg/segment"
)

// Table column names.
const (
	colStart = "Start frame"
	colEnd   = "End frame"
	colType  = "Type"
)

// WriteIntervals writes intervals to w as CSV. The Type column is written
// only when typed is true, as for visit tables.
func WriteIntervals(w io.Writer, intervals []segment.Interval, typed bool) error {
	cw := csv.NewWriter(w)
	header := []string{colStart, colEnd}
	if typed {
		header = append(header, colType)
	}
	err := cw.Write(header)
	if err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	for _, iv := range intervals {
		rec := []string{strconv.Itoa(iv.Start), strconv.Itoa(iv.End)}
		if typed {
			rec = append(rec, iv.Type)
		}
		err = cw.Write(rec)
		if err != nil {
			return fmt.Errorf("could not write interval: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLabels writes one CSV row per transition.
func WriteLabels(w io.Writer, labels []segment.Label) error {
	cw := csv.NewWriter(w)
	err := cw.Write([]string{"Frame", "New segment", "In visit", "View", "Magnitude", "Estimate", "Fit failed"})
	if err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for i, l := range labels {
		err = cw.Write([]string{
			strconv.Itoa(i),
			strconv.FormatBool(l.NewSegment),
			strconv.FormatBool(l.InVisit),
			strconv.Itoa(l.View),
			strconv.FormatFloat(l.Magnitude, 'g', -1, 64),
			strconv.FormatFloat(l.Estimate, 'g', -1, 64),
			strconv.FormatBool(l.FitFailed),
		})
		if err != nil {
			return fmt.Errorf("could not write label: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
