/*
DESCRIPTION
  plot.go provides plots of the segmentation signals against their
  thresholds.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package report

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/flowseg/segment"
)

// Plot file names written by PlotSignals.
const (
	MotionPlot = "motion.png"
	VisitPlot  = "visit.png"
)

var thresholdColor = color.RGBA{R: 191, A: 255}

// PlotSignals writes plots of the motion magnitude and z-translation estimate
// of each transition, with their thresholds, into dir.
func PlotSignals(dir string, labels []segment.Label, motionThreshold, transitionThreshold float64) error {
	if len(labels) == 0 {
		return errors.New("no labels to plot")
	}
	mag := make([]float64, len(labels))
	est := make([]float64, len(labels))
	for i, l := range labels {
		mag[i], est[i] = l.Magnitude, l.Estimate
	}

	err := PlotSignal(filepath.Join(dir, MotionPlot), "View segmentation", "Magnitude", mag, motionThreshold)
	if err != nil {
		return fmt.Errorf("could not plot motion: %w", err)
	}
	err = PlotSignal(filepath.Join(dir, VisitPlot), "Visit segmentation", "Z-translation", est, transitionThreshold)
	if err != nil {
		return fmt.Errorf("could not plot visit signal: %w", err)
	}
	return nil
}

// PlotSignal writes a line plot of values against frame number, with a
// horizontal line at threshold, to file. The format follows the file
// extension.
func PlotSignal(file, title, label string, values []float64, threshold float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = label

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(label, line)

	end := float64(len(values) - 1)
	if end < 1 {
		end = 1
	}
	thr, err := plotter.NewLine(plotter.XYs{{X: 0, Y: threshold}, {X: end, Y: threshold}})
	if err != nil {
		return err
	}
	thr.Width = vg.Points(1)
	thr.Color = thresholdColor
	thr.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(thr)
	p.Legend.Add("threshold", thr)

	p.Legend.Top = true
	p.Legend.Left = false

	return p.Save(14*vg.Inch, 6*vg.Inch, file)
}
