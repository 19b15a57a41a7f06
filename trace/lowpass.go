// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import "github.com/chewxy/math32"

// LowPass is a first-order low-pass filter applied elementwise to a vector,
// with an optional one-tick delay.  The filter state is held by the caller.
type LowPass struct {
	On    bool    `desc:"apply the filter -- when off, the input passes through unchanged"`
	Tau   float32 `viewif:"On" def:"2" min:"0" desc:"time constant of the filter in ticks"`
	Delay bool    `viewif:"On" desc:"deliver the filter value from before integrating the current input, i.e., delay the signal by one tick"`

	Beta float32 `view:"-" json:"-" xml:"-" desc:"exp(-1/Tau) -- retention of the previous filter value"`
}

func (lp *LowPass) Defaults() {
	lp.On = false
	lp.Tau = 2
	lp.Delay = false
	lp.Update()
}

func (lp *LowPass) Update() {
	if lp.Tau <= 0 {
		lp.Beta = 0
		return
	}
	lp.Beta = math32.Exp(-1 / lp.Tau)
}

// Filter integrates x into the filter state val and writes the filtered
// signal to out.  When off, out is a copy of x and val is untouched.
// All slices must have the same length.
func (lp *LowPass) Filter(val, out, x []float32) {
	if !lp.On {
		copy(out, x)
		return
	}
	for i, xv := range x {
		nv := lp.Beta*val[i] + (1-lp.Beta)*xv
		if lp.Delay {
			out[i] = val[i]
		} else {
			out[i] = nv
		}
		val[i] = nv
	}
}
