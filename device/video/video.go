//go:build withcv
// +build withcv

/*
DESCRIPTION
  video.go provides an implementation of the FrameSource interface for video
  files decoded with OpenCV.

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
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/device"
)

const defaultStep = 1

// Video is an implementation of the FrameSource interface for a video file.
type Video struct {
	path      string
	step      int
	cap       *gocv.VideoCapture
	frame     gocv.Mat
	gray      gocv.Mat
	count     int
	isRunning bool
	set       bool
	log       logging.Logger
	mu        sync.Mutex
}

// New returns a new Video.
func New(l logging.Logger) *Video { return &Video{log: l} }

// NewWith returns a new Video with required params provided i.e. the Set
// method does not need to be called.
func NewWith(l logging.Logger, path string, step int) *Video {
	if step < 1 {
		step = defaultStep
	}
	return &Video{log: l, path: path, step: step, set: true}
}

// Name returns the name of the device.
func (v *Video) Name() string { return "Video" }

// Set configures the video from the InputPath and FrameStep fields.
func (v *Video) Set(c config.Config) error {
	var errs device.MultiError
	if c.InputPath == "" {
		errs = append(errs, errors.New("no video file"))
	}
	v.path = c.InputPath
	v.step = int(c.FrameStep)
	if v.step < 1 {
		c.LogInvalidField(config.KeyFrameStep, defaultStep)
		v.step = defaultStep
	}
	v.set = true
	if errs != nil {
		return errs
	}
	return nil
}

// Start opens the video file.
func (v *Video) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.set {
		return errors.New("Video has not been set with config")
	}

	var err error
	v.cap, err = gocv.VideoCaptureFile(v.path)
	if err != nil {
		return fmt.Errorf("could not open video file: %w", err)
	}
	if !v.cap.IsOpened() {
		v.cap.Close()
		return fmt.Errorf("could not open video file: %s", v.path)
	}
	v.frame = gocv.NewMat()
	v.gray = gocv.NewMat()
	v.count = int(v.cap.Get(gocv.VideoCaptureFrameCount))
	v.log.Info("video started",
		"path", v.path,
		"frames", v.count,
		"fps", v.cap.Get(gocv.VideoCaptureFPS),
		"width", v.cap.Get(gocv.VideoCaptureFrameWidth),
		"height", v.cap.Get(gocv.VideoCaptureFrameHeight),
	)
	v.isRunning = true
	return nil
}

// Stop closes the video file such that any further calls to Next will fail.
func (v *Video) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.isRunning {
		return nil
	}
	v.frame.Close()
	v.gray.Close()
	err := v.cap.Close()
	v.isRunning = false
	return err
}

// IsRunning is used to determine if the video is running.
func (v *Video) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isRunning
}

// Len returns the number of frames that will be returned according to the
// video's frame count.
func (v *Video) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.count <= 0 {
		return -1
	}
	return (v.count + v.step - 1) / v.step
}

// Next returns the next frame in grayscale, skipping frames according to the
// frame step.
func (v *Video) Next() (*image.Gray, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.isRunning {
		return nil, errors.New("video not started")
	}

	for i := 0; i < v.step; i++ {
		if !v.cap.Read(&v.frame) || v.frame.Empty() {
			if i == 0 {
				return nil, io.EOF
			}
			break
		}
		if i == 0 {
			gocv.CvtColor(v.frame, &v.gray, gocv.ColorBGRToGray)
		}
	}

	img, err := v.gray.ToImage()
	if err != nil {
		return nil, fmt.Errorf("could not convert frame: %w", err)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("unexpected frame type %T", img)
	}
	return g, nil
}
