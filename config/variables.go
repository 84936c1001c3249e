/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyCornerMinDistance   = "CornerMinDistance"
	KeyCornerQuality       = "CornerQuality"
	KeyDBPath              = "DBPath"
	KeyFitPolicy           = "FitPolicy"
	KeyFocalLength         = "FocalLength"
	KeyFrameStep           = "FrameStep"
	KeyGridCols            = "GridCols"
	KeyGridRows            = "GridRows"
	KeyInput               = "Input"
	KeyInputPath           = "InputPath"
	KeyLogging             = "logging"
	KeyMaxCorners          = "MaxCorners"
	KeyMinViewLength       = "MinViewLength"
	KeyMinVisitLength      = "MinVisitLength"
	KeyMotionThreshold     = "MotionThreshold"
	KeyOutputPath          = "OutputPath"
	KeyPyramidLevels       = "PyramidLevels"
	KeySmoothFactor        = "SmoothFactor"
	KeySuppress            = "Suppress"
	KeyTermCount           = "TermCount"
	KeyTermEpsilon         = "TermEpsilon"
	KeyTransitionThreshold = "TransitionThreshold"
	KeyWindowSize          = "WindowSize"
	KeyWorkers             = "Workers"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	// General defaults.
	defaultInput      = InputVideo
	defaultVerbosity  = logging.Error
	defaultFrameStep  = 1
	defaultWorkers    = 1
	defaultOutputPath = "."
	defaultDBPath     = "flowseg.db"

	// Grid defaults.
	defaultGridRows = 4
	defaultGridCols = 4

	// Tracker defaults.
	defaultMaxCorners        = 100
	defaultCornerQuality     = 0.3
	defaultCornerMinDistance = 7.0
	defaultWindowSize        = 15
	defaultPyramidLevels     = 2
	defaultTermCount         = 10
	defaultTermEpsilon       = 0.03

	// Segmentation defaults.
	defaultMotionThreshold     = 10.0
	defaultTransitionThreshold = 1.0
	defaultSmoothFactor        = 0.99
	defaultFocalLength         = 150.0
	defaultMinViewLength       = 25
	defaultMinVisitLength      = 75
	defaultFitPolicy           = FitPrevious
)

// Variables describes the variables that can be used for flowseg control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyCornerMinDistance,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.CornerMinDistance = parseFloat(KeyCornerMinDistance, v, c) },
		Validate: func(c *Config) {
			c.CornerMinDistance = positiveFloat(KeyCornerMinDistance, c.CornerMinDistance, c, defaultCornerMinDistance)
		},
	},
	{
		Name:   KeyCornerQuality,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.CornerQuality = parseFloat(KeyCornerQuality, v, c) },
		Validate: func(c *Config) {
			if c.CornerQuality <= 0 || c.CornerQuality > 1 {
				c.LogInvalidField(KeyCornerQuality, defaultCornerQuality)
				c.CornerQuality = defaultCornerQuality
			}
		},
	},
	{
		Name:   KeyDBPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.DBPath = v },
		Validate: func(c *Config) {
			if c.DBPath == "" {
				c.LogInvalidField(KeyDBPath, defaultDBPath)
				c.DBPath = defaultDBPath
			}
		},
	},
	{
		Name: KeyFitPolicy,
		Type: "enum:abort,previous",
		Update: func(c *Config, v string) {
			c.FitPolicy = parseEnum(
				KeyFitPolicy,
				v,
				map[string]uint8{
					"abort":    FitAbort,
					"previous": FitPrevious,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.FitPolicy {
			case FitAbort, FitPrevious:
			default:
				c.LogInvalidField(KeyFitPolicy, defaultFitPolicy)
				c.FitPolicy = defaultFitPolicy
			}
		},
	},
	{
		Name:   KeyFocalLength,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.FocalLength = parseFloat(KeyFocalLength, v, c) },
		Validate: func(c *Config) {
			c.FocalLength = positiveFloat(KeyFocalLength, c.FocalLength, c, defaultFocalLength)
		},
	},
	{
		Name:   KeyFrameStep,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FrameStep = parseUint(KeyFrameStep, v, c) },
		Validate: func(c *Config) {
			c.FrameStep = lessThanOrEqual(KeyFrameStep, c.FrameStep, 0, c, defaultFrameStep)
		},
	},
	{
		Name:   KeyGridCols,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.GridCols = parseUint(KeyGridCols, v, c) },
		Validate: func(c *Config) {
			c.GridCols = lessThanOrEqual(KeyGridCols, c.GridCols, 0, c, defaultGridCols)
		},
	},
	{
		Name:   KeyGridRows,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.GridRows = parseUint(KeyGridRows, v, c) },
		Validate: func(c *Config) {
			c.GridRows = lessThanOrEqual(KeyGridRows, c.GridRows, 0, c, defaultGridRows)
		},
	},
	{
		Name: KeyInput,
		Type: "enum:video,imageseq",
		Update: func(c *Config, v string) {
			c.Input = parseEnum(
				KeyInput,
				v,
				map[string]uint8{
					"video":    InputVideo,
					"imageseq": InputImageSequence,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.Input {
			case InputVideo, InputImageSequence:
			default:
				c.LogInvalidField(KeyInput, defaultInput)
				c.Input = defaultInput
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyMaxCorners,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MaxCorners = parseUint(KeyMaxCorners, v, c) },
		Validate: func(c *Config) {
			c.MaxCorners = lessThanOrEqual(KeyMaxCorners, c.MaxCorners, 0, c, defaultMaxCorners)
		},
	},
	{
		Name:   KeyMinViewLength,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MinViewLength = parseUint(KeyMinViewLength, v, c) },
		Validate: func(c *Config) {
			c.MinViewLength = lessThanOrEqual(KeyMinViewLength, c.MinViewLength, 0, c, defaultMinViewLength)
		},
	},
	{
		Name:   KeyMinVisitLength,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MinVisitLength = parseUint(KeyMinVisitLength, v, c) },
		Validate: func(c *Config) {
			c.MinVisitLength = lessThanOrEqual(KeyMinVisitLength, c.MinVisitLength, 0, c, defaultMinVisitLength)
		},
	},
	{
		Name:   KeyMotionThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MotionThreshold = parseFloat(KeyMotionThreshold, v, c) },
		Validate: func(c *Config) {
			c.MotionThreshold = positiveFloat(KeyMotionThreshold, c.MotionThreshold, c, defaultMotionThreshold)
		},
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
		Validate: func(c *Config) {
			if c.OutputPath == "" {
				c.LogInvalidField(KeyOutputPath, defaultOutputPath)
				c.OutputPath = defaultOutputPath
			}
		},
	},
	{
		Name:   KeyPyramidLevels,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.PyramidLevels = parseUint(KeyPyramidLevels, v, c) },
		Validate: func(c *Config) {
			if c.PyramidLevels == 0 && !c.Given(KeyPyramidLevels) {
				c.LogInvalidField(KeyPyramidLevels, defaultPyramidLevels)
				c.PyramidLevels = defaultPyramidLevels
			}
		},
	},
	{
		Name:   KeySmoothFactor,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.SmoothFactor = parseFloat(KeySmoothFactor, v, c) },
		Validate: func(c *Config) {
			unset := c.SmoothFactor == 0 && !c.Given(KeySmoothFactor)
			if unset || c.SmoothFactor < 0 || c.SmoothFactor > 1 {
				c.LogInvalidField(KeySmoothFactor, defaultSmoothFactor)
				c.SmoothFactor = defaultSmoothFactor
			}
		},
	},
	{
		Name: KeySuppress,
		Type: typeBool,
		Update: func(c *Config, v string) {
			c.Suppress = parseBool(KeySuppress, v, c)
			if l, ok := c.Logger.(*logging.JSONLogger); ok {
				l.SetSuppress(c.Suppress)
			}
		},
	},
	{
		Name:   KeyTermCount,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.TermCount = parseUint(KeyTermCount, v, c) },
		Validate: func(c *Config) {
			c.TermCount = lessThanOrEqual(KeyTermCount, c.TermCount, 0, c, defaultTermCount)
		},
	},
	{
		Name:   KeyTermEpsilon,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.TermEpsilon = parseFloat(KeyTermEpsilon, v, c) },
		Validate: func(c *Config) {
			c.TermEpsilon = positiveFloat(KeyTermEpsilon, c.TermEpsilon, c, defaultTermEpsilon)
		},
	},
	{
		// Negative thresholds are accepted.
		Name:   KeyTransitionThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.TransitionThreshold = parseFloat(KeyTransitionThreshold, v, c) },
		Validate: func(c *Config) {
			if c.TransitionThreshold == 0 && !c.Given(KeyTransitionThreshold) {
				c.LogInvalidField(KeyTransitionThreshold, defaultTransitionThreshold)
				c.TransitionThreshold = defaultTransitionThreshold
			}
		},
	},
	{
		Name:   KeyWindowSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.WindowSize = parseUint(KeyWindowSize, v, c) },
		Validate: func(c *Config) {
			c.WindowSize = lessThanOrEqual(KeyWindowSize, c.WindowSize, 0, c, defaultWindowSize)
		},
	},
	{
		Name:   KeyWorkers,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Workers = parseUint(KeyWorkers, v, c) },
		Validate: func(c *Config) {
			c.Workers = lessThanOrEqual(KeyWorkers, c.Workers, 0, c, defaultWorkers)
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
		return 0
	}
	c.markGiven(n)
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
		return 0
	}
	c.markGiven(n)
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func positiveFloat(n string, v float64, c *Config, def float64) float64 {
	if v <= 0 {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
