/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for flow extraction and
// segmentation.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Enums to define inputs and fit failure policies.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	// Inputs.
	InputVideo
	InputImageSequence

	// Fit failure policies.
	FitAbort    // Abort segmentation on the first failed fit.
	FitPrevious // Reuse the previous visit label.
)

// Config provides parameters for a flow extraction and segmentation run.
// Default values for these fields are defined in variables.go.
type Config struct {
	// Input defines the frame source. Valid inputs are InputVideo and
	// InputImageSequence.
	Input uint8

	// InputPath is the video file or image sequence directory to read frames
	// from.
	InputPath string

	FrameStep uint // Only every FrameStep'th frame of the input is used.

	// GridRows and GridCols define the block grid laid over each frame. They
	// must evenly divide the frame height and width respectively.
	GridRows uint
	GridCols uint

	Workers uint // Number of blocks tracked concurrently.

	// Tracker parameters.
	MaxCorners        uint    // Maximum corners detected per block.
	CornerQuality     float64 // Minimum corner quality relative to the best corner.
	CornerMinDistance float64 // Minimum distance between corners in pixels.
	WindowSize        uint    // Lucas-Kanade search window side in pixels.
	PyramidLevels     uint    // Lucas-Kanade pyramid levels; zero given through Update uses the base image only.
	TermCount         uint    // Lucas-Kanade iteration limit.
	TermEpsilon       float64 // Lucas-Kanade search window movement limit.

	// MotionThreshold is the mean accumulated block motion, in pixels, that
	// starts a new view segment.
	MotionThreshold float64

	// TransitionThreshold is the z-translation estimate above which a frame is
	// considered in a visit. Displacements are absolute positions, so a static
	// camera estimates just under 1, which is the default. Zero is kept only
	// when given through Update.
	TransitionThreshold float64

	// SmoothFactor is the weight of the smoothed field in visit smoothing, in
	// [0, 1]. Zero, meaning no smoothing, is kept only when given through
	// Update.
	SmoothFactor float64
	FocalLength  float64 // Focal length of the z-translation model.

	MinViewLength  uint // Minimum frames in a view interval.
	MinVisitLength uint // Minimum frames in a visit interval.

	// FitPolicy defines the handling of a failed z-translation fit. Valid
	// policies are FitAbort and FitPrevious.
	FitPolicy uint8

	OutputPath string // Directory that tables, statistics and plots are written to.
	DBPath     string // Path of the sqlite database holding runs.

	LogLevel int8 // LogLevel is the logging verbosity level.
	Suppress bool // Holds logger suppression state.

	// Logger holds an implementation of the Logger interface as defined in
	// github.com/ausocean/utils/logging.
	Logger logging.Logger

	// given holds the names of numeric variables successfully parsed by Update,
	// so that Validate can tell a given zero from an unset field.
	given map[string]bool
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// Given reports whether the named numeric variable was set by Update.
func (c *Config) Given(name string) bool { return c.given[name] }

func (c *Config) markGiven(name string) {
	if c.given == nil {
		c.given = make(map[string]bool)
	}
	c.given[name] = true
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
