// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/goki/mat32"
)

// Transform is an elementwise nonlinearity applied to the weighted sum
// of a synapse before it is delivered to the receiving layer.
type Transform func(x float32) float32

// Rect is the rectifier: max(x, 0)
func Rect(x float32) float32 {
	if x < 0 {
		return 0
	}
	return x
}

// Sigmoid is the logistic function 1 / (1 + exp(-x))
func Sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// Tanh is the hyperbolic tangent
func Tanh(x float32) float32 {
	return math32.Tanh(x)
}

// Clamp returns a Transform that clips to [min, max]
func Clamp(min, max float32) Transform {
	return func(x float32) float32 {
		return mat32.Clamp(x, min, max)
	}
}

// Transforms are the named transforms available to configuration files
var Transforms = map[string]Transform{
	"rect":    Rect,
	"sigmoid": Sigmoid,
	"tanh":    Tanh,
	"unit":    Clamp(0, 1),
}

// TransformByName returns the named transform, or nil for "" or "none"
func TransformByName(name string) (Transform, error) {
	if name == "" || name == "none" {
		return nil, nil
	}
	tf, ok := Transforms[name]
	if !ok {
		nms := make([]string, 0, len(Transforms))
		for k := range Transforms {
			nms = append(nms, k)
		}
		sort.Strings(nms)
		return nil, fmt.Errorf("%w: unknown transform %q, have: %v", ErrParam, name, nms)
	}
	return tf, nil
}
