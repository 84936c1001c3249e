//go:build debug && withcv
// +build debug,withcv

/*
DESCRIPTION
  Displays debug information for the flow extractor.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flow

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// debugWindows is used for displaying the grid flow field.
type debugWindows struct {
	window *gocv.Window
}

// close frees resources used by gocv.
func (d *debugWindows) close() error {
	return d.window.Close()
}

// newWindows creates debugging windows for the flow field.
func newWindows(name string) debugWindows {
	return debugWindows{window: gocv.NewWindow(name + ": Grid Flow")}
}

// show displays a flow field over its frame, one arrow per block.
func (d *debugWindows) show(img *image.Gray, f Flow) {
	var green = color.RGBA{0, 255, 0, 0}
	var red = color.RGBA{191, 0, 0, 0}

	gray, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return
	}
	defer gray.Close()
	im := gocv.NewMat()
	defer im.Close()
	gocv.CvtColor(gray, &im, gocv.ColorGrayToBGR)

	for i, o := range f.Origins.Vecs {
		p := f.Displacements.Vecs[i]
		from := image.Pt(int(o.X), int(o.Y))
		gocv.Circle(&im, from, 2, red, -1)
		gocv.ArrowedLine(&im, from, image.Pt(int(p.X), int(p.Y)), green, 1)
	}
	gocv.PutText(&im, fmt.Sprintf("mean motion: %.2f", f.Vectors().MeanNorm()), image.Pt(16, 24), gocv.FontHersheyPlain, 1.5, red, 2)

	d.window.IMShow(im)
	d.window.WaitKey(1)
}
