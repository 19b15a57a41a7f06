// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

// snn.Time contains the timing state and parameters for running a network
type Time struct {

	// accumulated amount of time the network has been running,
	// in simulation-time (not real world time), in seconds.
	Time float32

	// tick counter since the last Reset of the network
	Cycle int

	// total tick count. this increments continuously from whenever
	// the counters were last zeroed with Reset, and is not affected
	// by NewEpisode.
	CycleTot int

	// amount of time to increment per tick.
	TimePerCyc float32 `def:"0.001"`
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerCyc = 0.001
}

// NewEpisode starts a new episode: resets Cycle and Time but not CycleTot
func (tm *Time) NewEpisode() {
	tm.Time = 0
	tm.Cycle = 0
	if tm.TimePerCyc == 0 {
		tm.Defaults()
	}
}

// CycleInc increments at the tick level
func (tm *Time) CycleInc() {
	tm.Cycle++
	tm.CycleTot++
	tm.Time += tm.TimePerCyc
}
