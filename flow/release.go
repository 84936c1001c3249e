//go:build !debug && withcv
// +build !debug,withcv

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
	"image"
)

// debugWindows is used for displaying the grid flow field.
type debugWindows struct{}

// close frees resources used by gocv.
func (d *debugWindows) close() error { return nil }

// newWindows creates debugging windows for the flow field.
func newWindows(name string) debugWindows { return debugWindows{} }

// show displays a flow field over its frame.
func (d *debugWindows) show(img *image.Gray, f Flow) {}
