// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// NewWts returns a new (no, ne) weight matrix with given row-major values.
// A nil vals leaves the weights at zero, and a single value fills the matrix.
func NewWts(no, ne int, vals ...float32) (*etensor.Float32, error) {
	if no <= 0 || ne <= 0 {
		return nil, fmt.Errorf("%w: weight matrix dims must be > 0, got (%d, %d)", ErrShape, no, ne)
	}
	w := etensor.NewFloat32([]int{no, ne}, nil, []string{"Recv", "Send"})
	switch len(vals) {
	case 0:
	case 1:
		for i := range w.Values {
			w.Values[i] = vals[0]
		}
	case no * ne:
		copy(w.Values, vals)
	default:
		return nil, fmt.Errorf("%w: %d weight values for a (%d, %d) matrix", ErrShape, len(vals), no, ne)
	}
	return w, nil
}

// DiagWts returns a new square weight matrix with vals on the diagonal
func DiagWts(vals ...float32) *etensor.Float32 {
	n := len(vals)
	w := etensor.NewFloat32([]int{n, n}, nil, []string{"Recv", "Send"})
	for i, v := range vals {
		w.Values[i*n+i] = v
	}
	return w
}

// CheckWtShape returns a Shape error unless w is a 2D (no, ne) matrix
func CheckWtShape(w *etensor.Float32, no, ne int) error {
	if w == nil {
		return fmt.Errorf("%w: nil weight matrix, want (%d, %d)", ErrShape, no, ne)
	}
	if w.NumDims() != 2 || w.Dim(0) != no || w.Dim(1) != ne {
		return fmt.Errorf("%w: weight matrix shape %v, want (%d, %d)", ErrShape, w.Shapes(), no, ne)
	}
	return nil
}

// MatVec computes out = w * x for a row-major (len(out), len(x)) matrix w.
// Zero entries of x are skipped, as spike vectors are mostly zero.
func MatVec(w *etensor.Float32, x, out []float32) {
	ne := len(x)
	for ri := range out {
		row := w.Values[ri*ne : (ri+1)*ne]
		sum := float32(0)
		for si, xv := range x {
			if xv == 0 {
				continue
			}
			sum += row[si] * xv
		}
		out[ri] = sum
	}
}

// CloneWts returns a copy of the 2D weight matrix w
func CloneWts(w *etensor.Float32) *etensor.Float32 {
	cw := etensor.NewFloat32([]int{w.Dim(0), w.Dim(1)}, nil, []string{"Recv", "Send"})
	copy(cw.Values, w.Values)
	return cw
}
