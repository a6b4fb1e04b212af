// Package runner implements a three-lane endless runner simulation.
// The player runs forward automatically, switches lanes and jumps to avoid
// boxes and bars that roll toward them, and the world speeds up with every
// obstacle left behind.
//
// The package has no terminal or timer dependencies: drivers call Tick once
// per frame, Spawn from an independent fixed-interval timer, and HandleInput
// for every discrete input event, all from a single goroutine.
package runner

import "github.com/vovakirdan/lane-runner/internal/core"

// LaneSet is the immutable ordered set of lane X offsets.
type LaneSet struct {
	offsets []float64
}

// NewLaneSet copies offsets into a new lane set.
func NewLaneSet(offsets []float64) LaneSet {
	o := make([]float64, len(offsets))
	copy(o, offsets)
	return LaneSet{offsets: o}
}

// Len returns the number of lanes.
func (l LaneSet) Len() int {
	return len(l.offsets)
}

// Clamp restricts a lane index to the valid range.
func (l LaneSet) Clamp(i int) int {
	return core.Clamp(i, 0, len(l.offsets)-1)
}

// Offset returns the X offset of lane i. Out-of-range indices are clamped.
func (l LaneSet) Offset(i int) float64 {
	return l.offsets[l.Clamp(i)]
}

// Offsets returns a copy of all lane offsets.
func (l LaneSet) Offsets() []float64 {
	o := make([]float64, len(l.offsets))
	copy(o, l.offsets)
	return o
}
