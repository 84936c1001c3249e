//go:build withcv
// +build withcv

/*
DESCRIPTION
  lk.go provides LK, a Tracker using Shi-Tomasi corners and pyramidal
  Lucas-Kanade optical flow from OpenCV.

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

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r2"
)

// LK tracks Shi-Tomasi corners of one image into another with pyramidal
// Lucas-Kanade. LK holds no mutable state and is safe for concurrent use.
type LK struct {
	p        LKParams
	criteria gocv.TermCriteria
}

// NewLK returns a new LK tracker using p.
func NewLK(p LKParams) (*LK, error) {
	p = p.withDefaults()
	return &LK{
		p:        p,
		criteria: gocv.NewTermCriteria(gocv.Count+gocv.EPS, p.TermCount, p.TermEpsilon),
	}, nil
}

// Track implements Tracker. Only points with a found status are returned.
func (l *LK) Track(a, b *image.Gray) (Result, error) {
	ma, err := gocv.ImageGrayToMatGray(a)
	if err != nil {
		return None(), fmt.Errorf("could not convert first image: %w", err)
	}
	defer ma.Close()
	mb, err := gocv.ImageGrayToMatGray(b)
	if err != nil {
		return None(), fmt.Errorf("could not convert second image: %w", err)
	}
	defer mb.Close()

	corners := gocv.NewMat()
	defer corners.Close()
	gocv.GoodFeaturesToTrack(ma, &corners, l.p.MaxCorners, l.p.Quality, l.p.MinDistance)
	if corners.Empty() || corners.Rows() == 0 {
		return None(), nil
	}

	next := gocv.NewMat()
	defer next.Close()
	status := gocv.NewMat()
	defer status.Close()
	errs := gocv.NewMat()
	defer errs.Close()

	win := image.Pt(l.p.WindowSize, l.p.WindowSize)
	gocv.CalcOpticalFlowPyrLKWithParams(ma, mb, corners, next, &status, &errs, win, l.p.MaxLevel, l.criteria, 0, DefaultMinEigenvalue)

	var pairs []Pair
	for i := 0; i < corners.Rows(); i++ {
		if status.GetUCharAt(i, 0) != 1 {
			continue
		}
		o := corners.GetVecfAt(i, 0)
		d := next.GetVecfAt(i, 0)
		pairs = append(pairs, Pair{
			Origin:      r2.Vec{X: float64(o[0]), Y: float64(o[1])},
			Destination: r2.Vec{X: float64(d[0]), Y: float64(d[1])},
		})
	}
	return Found(pairs), nil
}
