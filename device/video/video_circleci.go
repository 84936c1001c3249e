//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the OpenCV backed video source when built without OpenCV, as on
  Circle-CI.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package video provides an implementation of FrameSource for video files.
package video

import (
	"errors"
	"image"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/flowseg/config"
)

var errNoCV = errors.New("video input requires OpenCV, rebuild with -tags withcv")

// Video is unavailable without OpenCV; Start always fails.
type Video struct{}

// New returns a new Video.
func New(l logging.Logger) *Video { return &Video{} }

// NewWith returns a new Video.
func NewWith(l logging.Logger, path string, step int) *Video { return &Video{} }

// Name returns the name of the device.
func (v *Video) Name() string { return "Video" }

// Set is a stub to satisfy the FrameSource interface.
func (v *Video) Set(c config.Config) error { return nil }

// Start always returns an error.
func (v *Video) Start() error { return errNoCV }

// Stop is a stub to satisfy the FrameSource interface.
func (v *Video) Stop() error { return nil }

// IsRunning always returns false.
func (v *Video) IsRunning() bool { return false }

// Len returns -1.
func (v *Video) Len() int { return -1 }

// Next always returns an error.
func (v *Video) Next() (*image.Gray, error) { return nil, errNoCV }
