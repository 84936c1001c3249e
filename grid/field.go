/*
DESCRIPTION
  field.go provides Field, a rows x cols array of 2D vectors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package grid

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field is a rows x cols array of 2D vectors stored in row-major order.
type Field struct {
	Rows, Cols int
	Vecs       []r2.Vec
}

// NewField returns a zeroed Field of the given shape.
func NewField(rows, cols int) Field {
	return Field{Rows: rows, Cols: cols, Vecs: make([]r2.Vec, rows*cols)}
}

// Len returns the number of vectors in the field.
func (f Field) Len() int { return len(f.Vecs) }

// At returns the vector of block (r, c).
func (f Field) At(r, c int) r2.Vec { return f.Vecs[r*f.Cols+c] }

// Set sets the vector of block (r, c).
func (f Field) Set(r, c int, v r2.Vec) { f.Vecs[r*f.Cols+c] = v }

// Clone returns a deep copy of f.
func (f Field) Clone() Field {
	g := Field{Rows: f.Rows, Cols: f.Cols, Vecs: make([]r2.Vec, len(f.Vecs))}
	copy(g.Vecs, f.Vecs)
	return g
}

// SameShape reports whether f and g have the same number of rows and columns.
func (f Field) SameShape(g Field) bool {
	return f.Rows == g.Rows && f.Cols == g.Cols && len(f.Vecs) == len(g.Vecs)
}

// Add returns f + g element wise. Add panics if the fields differ in shape.
func (f Field) Add(g Field) Field {
	mustSameShape(f, g)
	h := NewField(f.Rows, f.Cols)
	for i := range f.Vecs {
		h.Vecs[i] = r2.Add(f.Vecs[i], g.Vecs[i])
	}
	return h
}

// Sub returns f - g element wise. Sub panics if the fields differ in shape.
func (f Field) Sub(g Field) Field {
	mustSameShape(f, g)
	h := NewField(f.Rows, f.Cols)
	for i := range f.Vecs {
		h.Vecs[i] = r2.Sub(f.Vecs[i], g.Vecs[i])
	}
	return h
}

// ErrShape is the panic value of arithmetic on fields of differing shape.
var ErrShape = errors.New("grid: field shape mismatch")

func mustSameShape(f, g Field) {
	if !f.SameShape(g) {
		panic(ErrShape)
	}
}

// Scale returns s * f.
func (f Field) Scale(s float64) Field {
	h := NewField(f.Rows, f.Cols)
	for i := range f.Vecs {
		h.Vecs[i] = r2.Scale(s, f.Vecs[i])
	}
	return h
}

// MeanNorm returns the mean L2 norm of the vectors in f, or 0 for an empty field.
func (f Field) MeanNorm() float64 {
	if len(f.Vecs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.Vecs {
		sum += r2.Norm(v)
	}
	return sum / float64(len(f.Vecs))
}
