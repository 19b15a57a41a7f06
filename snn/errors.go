// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import "errors"

// Every error returned by this package wraps one of these, so that callers
// can test for the category with errors.Is.
var (
	// ErrTopology is for duplicate or unknown names, wrong endpoint counts,
	// and changes to a network that has already been built
	ErrTopology = errors.New("snn: topology error")

	// ErrShape is for vectors or matrices whose size does not match
	ErrShape = errors.New("snn: shape error")

	// ErrConnectivity is for synapse endpoints that violate a variant's
	// structural requirement (one-to-one sizes, modulator size)
	ErrConnectivity = errors.New("snn: connectivity error")

	// ErrParam is for parameter values out of their valid range
	ErrParam = errors.New("snn: parameter error")
)
