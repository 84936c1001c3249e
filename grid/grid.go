/*
DESCRIPTION
  grid.go provides partitioning of grayscale frames into an evenly sized grid
  of blocks, the centre coordinates of those blocks, and Field, a grid shaped
  array of 2D vectors used to carry per-block motion.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package grid provides the block grid used for coarse motion analysis of
// video frames.
package grid

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/spatial/r2"
)

// DimensionError is returned when a grid does not evenly divide a frame.
type DimensionError struct {
	Height, Width int
	Rows, Cols    int
}

func (e *DimensionError) Error() string {
	switch {
	case e.Rows < 1 || e.Cols < 1:
		return fmt.Sprintf("invalid grid %dx%d", e.Rows, e.Cols)
	case e.Height%e.Rows != 0:
		return fmt.Sprintf("height %d is not divisible by rows %d", e.Height, e.Rows)
	default:
		return fmt.Sprintf("width %d is not divisible by cols %d", e.Width, e.Cols)
	}
}

// Check returns a *DimensionError if a grid of rows x cols does not evenly
// divide a frame of height h and width w.
func Check(h, w, rows, cols int) error {
	if rows < 1 || cols < 1 || h%rows != 0 || w%cols != 0 {
		return &DimensionError{Height: h, Width: w, Rows: rows, Cols: cols}
	}
	return nil
}

// Partition splits img into rows*cols blocks in row-major order. Each block is
// a copy of the corresponding region with bounds starting at (0,0), so point
// coordinates found within a block are block local.
func Partition(img *image.Gray, rows, cols int) ([]*image.Gray, error) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	err := Check(h, w, rows, cols)
	if err != nil {
		return nil, err
	}

	bh, bw := h/rows, w/cols
	blocks := make([]*image.Gray, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			blk := image.NewGray(image.Rect(0, 0, bw, bh))
			for y := 0; y < bh; y++ {
				src := img.PixOffset(b.Min.X+c*bw, b.Min.Y+r*bh+y)
				copy(blk.Pix[y*blk.Stride:y*blk.Stride+bw], img.Pix[src:src+bw])
			}
			blocks = append(blocks, blk)
		}
	}
	return blocks, nil
}

// Centres returns the centre of each block of a rows x cols grid laid over a
// frame of height h and width w. A centre is the block's top-left offset plus
// half the block size, using integer division.
func Centres(h, w, rows, cols int) (Field, error) {
	err := Check(h, w, rows, cols)
	if err != nil {
		return Field{}, err
	}

	bh, bw := h/rows, w/cols
	f := NewField(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			f.Set(r, c, r2.Vec{X: float64(c*bw + bw/2), Y: float64(r*bh + bh/2)})
		}
	}
	return f, nil
}
