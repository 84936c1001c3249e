/*
DESCRIPTION
  device.go provides FrameSource, an interface that describes a configurable
  source of grayscale frames that can be started and stopped, and Frames, an
  in-memory FrameSource.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for frame sources
// that can be started and stopped from which grayscale frames can be obtained.
package device

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/ausocean/flowseg/config"
)

// FrameSource describes a configurable, finite and forward-only sequence of
// grayscale frames of fixed size.
type FrameSource interface {
	// Name returns the name of the FrameSource.
	Name() string

	// Set allows for configuration of the FrameSource using a Config struct.
	// An implementation should specify what fields are considered.
	Set(c config.Config) error

	// Start prepares the FrameSource; after which Next may be called.
	Start() error

	// Stop releases the FrameSource. From this point calls to Next will fail.
	Stop() error

	// IsRunning is used to determine if the source is running.
	IsRunning() bool

	// Next returns the next frame, or io.EOF once all frames have been
	// returned.
	Next() (*image.Gray, error)

	// Len returns the total number of frames the source will return, or -1 if
	// unknown. It is valid once Start has returned.
	Len() int
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multi errors during validation of configuration parameters for
// FrameSources.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}

// Frames is a FrameSource over frames held in memory, such as frames
// produced by software.
type Frames struct {
	mu        sync.Mutex
	frames    []*image.Gray
	next      int
	isRunning bool
}

// NewFrames returns a new Frames that will return frames in order.
func NewFrames(frames ...*image.Gray) *Frames {
	return &Frames{frames: frames}
}

// Name returns the name of Frames i.e. "Frames".
func (f *Frames) Name() string { return "Frames" }

// Set is a stub to satisfy the FrameSource interface; no configuration fields
// are used by Frames.
func (f *Frames) Set(c config.Config) error { return nil }

// Start rewinds to the first frame.
func (f *Frames) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = 0
	f.isRunning = true
	return nil
}

// Stop sets the isRunning flag to false.
func (f *Frames) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.isRunning = false
	return nil
}

// IsRunning returns the value of the isRunning flag to indicate if Start has
// been called (and Stop has not been called after).
func (f *Frames) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isRunning
}

// Next returns the next frame.
func (f *Frames) Next() (*image.Gray, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.isRunning {
		return nil, errors.New("frames have not been started, can't read")
	}
	if f.next >= len(f.frames) {
		return nil, io.EOF
	}
	img := f.frames[f.next]
	f.next++
	return img, nil
}

// Len returns the number of frames.
func (f *Frames) Len() int { return len(f.frames) }
