/*
DESCRIPTION
  dir.go provides WriteDir, which writes the full set of segmentation outputs
  into a directory.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ausocean/flowseg/segment"
)

// Table file names written by WriteDir.
const (
	ViewTable  = "view.csv"
	VisitTable = "visit.csv"
	LabelTable = "labels.csv"
	StatsTable = "stats.csv"
)

// viewType names view intervals in statistics.
const viewType = "view"

// WriteDir writes the view and visit tables, the label stream, interval
// statistics and, when there are labels, the signal plots into dir, creating
// it if needed.
func WriteDir(dir string, labels []segment.Label, views, visits []segment.Interval, motionThreshold, transitionThreshold float64) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	stats := append(Summarise(views, viewType), Summarise(visits, "")...)
	tables := []struct {
		name  string
		write func(io.Writer) error
	}{
		{ViewTable, func(w io.Writer) error { return WriteIntervals(w, views, false) }},
		{VisitTable, func(w io.Writer) error { return WriteIntervals(w, visits, true) }},
		{LabelTable, func(w io.Writer) error { return WriteLabels(w, labels) }},
		{StatsTable, func(w io.Writer) error { return WriteStats(w, stats) }},
	}
	for _, t := range tables {
		err = writeFile(filepath.Join(dir, t.name), t.write)
		if err != nil {
			return err
		}
	}

	if len(labels) == 0 {
		return nil
	}
	return PlotSignals(dir, labels, motionThreshold, transitionThreshold)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	err = write(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return f.Close()
}
