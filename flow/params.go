/*
DESCRIPTION
  params.go provides the tuning parameters of the Lucas-Kanade tracker.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flow

// Default Lucas-Kanade tracker parameters.
const (
	DefaultMaxCorners    = 100
	DefaultQuality       = 0.3
	DefaultMinDistance   = 7
	DefaultWindowSize    = 15
	DefaultMaxLevel      = 2
	DefaultTermCount     = 10
	DefaultTermEpsilon   = 0.03
	DefaultMinEigenvalue = 1e-4
)

// NoPyramid as LKParams.MaxLevel tracks on the base image only.
const NoPyramid = -1

// LKParams holds the corner detection and pyramidal Lucas-Kanade parameters.
// Zero valued fields take their defaults.
type LKParams struct {
	MaxCorners  int     // Maximum corners detected per block.
	Quality     float64 // Minimum accepted corner quality relative to the best corner.
	MinDistance float64 // Minimum euclidean distance between corners.
	WindowSize  int     // Side of the square search window at each pyramid level.
	MaxLevel    int     // Number of pyramid levels above the base image, or NoPyramid.
	TermCount   int     // Iteration limit of the search.
	TermEpsilon float64 // Search stops when the window moves less than this.
}

// withDefaults returns p with zero valued fields set to their defaults.
func (p LKParams) withDefaults() LKParams {
	if p.MaxCorners <= 0 {
		p.MaxCorners = DefaultMaxCorners
	}
	if p.Quality <= 0 {
		p.Quality = DefaultQuality
	}
	if p.MinDistance <= 0 {
		p.MinDistance = DefaultMinDistance
	}
	if p.WindowSize <= 0 {
		p.WindowSize = DefaultWindowSize
	}
	switch {
	case p.MaxLevel == 0:
		p.MaxLevel = DefaultMaxLevel
	case p.MaxLevel < 0:
		p.MaxLevel = 0
	}
	if p.TermCount <= 0 {
		p.TermCount = DefaultTermCount
	}
	if p.TermEpsilon <= 0 {
		p.TermEpsilon = DefaultTermEpsilon
	}
	return p
}
