//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the OpenCV backed tracker and debug windows when built without
  OpenCV, as on Circle-CI.

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
	"image"
)

// ErrNoCV is returned by NewLK when built without the withcv tag.
var ErrNoCV = errors.New("built without OpenCV support, rebuild with -tags withcv")

// LK is unavailable without OpenCV.
type LK struct{}

// NewLK always returns ErrNoCV.
func NewLK(p LKParams) (*LK, error) { return nil, ErrNoCV }

// Track implements Tracker.
func (l *LK) Track(a, b *image.Gray) (Result, error) { return None(), ErrNoCV }

// debugWindows is used for displaying the grid flow field.
type debugWindows struct{}

// close frees resources used by gocv.
func (d *debugWindows) close() error { return nil }

// newWindows creates debugging windows for the flow field.
func newWindows(name string) debugWindows { return debugWindows{} }

// show displays a flow field over its frame.
func (d *debugWindows) show(img *image.Gray, f Flow) {}
