/*
DESCRIPTION
  imageseq.go provides an implementation of the FrameSource interface for a
  directory of still images.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package imageseq provides an implementation of FrameSource for image
// sequences.
package imageseq

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ausocean/utils/logging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/device"
)

// Image file extensions recognised as frames.
var extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

const defaultStep = 1

// ImageSequence is an implementation of the FrameSource interface for a
// directory of images. Frames are the images in lexical file name order,
// decoded and converted to grayscale.
type ImageSequence struct {
	dir       string
	step      int
	files     []string
	next      int
	size      image.Point
	isRunning bool
	set       bool
	log       logging.Logger
	mu        sync.Mutex
}

// New returns a new ImageSequence.
func New(l logging.Logger) *ImageSequence { return &ImageSequence{log: l} }

// NewWith returns a new ImageSequence with required params provided i.e. the
// Set method does not need to be called.
func NewWith(l logging.Logger, dir string, step int) *ImageSequence {
	if step < 1 {
		step = defaultStep
	}
	return &ImageSequence{log: l, dir: dir, step: step, set: true}
}

// Name returns the name of the device.
func (s *ImageSequence) Name() string { return "ImageSequence" }

// Set configures the sequence from the InputPath and FrameStep fields.
func (s *ImageSequence) Set(c config.Config) error {
	var errs device.MultiError
	if c.InputPath == "" {
		errs = append(errs, errors.New("no image sequence directory"))
	}
	s.dir = c.InputPath
	s.step = int(c.FrameStep)
	if s.step < 1 {
		c.LogInvalidField(config.KeyFrameStep, defaultStep)
		s.step = defaultStep
	}
	s.set = true
	if errs != nil {
		return errs
	}
	return nil
}

// Start lists the images of the sequence directory, keeping every step'th.
func (s *ImageSequence) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return errors.New("ImageSequence has not been set with config")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("could not read image sequence directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	s.files = s.files[:0]
	for i := 0; i < len(names); i += s.step {
		s.files = append(s.files, filepath.Join(s.dir, names[i]))
	}
	if len(s.files) == 0 {
		return fmt.Errorf("no images in %s", s.dir)
	}
	s.log.Info("image sequence started", "dir", s.dir, "images", len(names), "frames", len(s.files))

	s.next = 0
	s.size = image.Point{}
	s.isRunning = true
	return nil
}

// Stop stops the sequence such that any further calls to Next will fail.
func (s *ImageSequence) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRunning = false
	return nil
}

// IsRunning is used to determine if the sequence is running.
func (s *ImageSequence) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Len returns the number of frames the sequence will return.
func (s *ImageSequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Next decodes and returns the next frame in grayscale. All frames must have
// the size of the first.
func (s *ImageSequence) Next() (*image.Gray, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return nil, errors.New("image sequence not started")
	}
	if s.next >= len(s.files) {
		return nil, io.EOF
	}
	path := s.files[s.next]
	s.next++

	img, err := decode(path)
	if err != nil {
		return nil, err
	}
	sz := img.Bounds().Size()
	if s.size == (image.Point{}) {
		s.size = sz
	} else if sz != s.size {
		return nil, fmt.Errorf("frame %s is %v, expected %v", path, sz, s.size)
	}
	return img, nil
}

// decode reads the image at path and converts it to grayscale with bounds
// starting at (0,0).
func decode(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g, nil
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g, nil
}
