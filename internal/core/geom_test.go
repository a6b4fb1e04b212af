package core

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{1, 0, 2, 1},  // within range
		{-1, 0, 2, 0}, // below min
		{3, 0, 2, 2},  // above max
		{0, 0, 2, 0},  // at min
		{2, 0, 2, 2},  // at max
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestLerpConverges(t *testing.T) {
	x := 0.0
	for i := 0; i < 100; i++ {
		x = Lerp(x, 3, 0.1)
	}
	if math.Abs(x-3) > 1e-3 {
		t.Errorf("Lerp should converge to 3, got %f", x)
	}

	// One step covers exactly a tenth of the gap.
	if got := Lerp(0, -3, 0.1); math.Abs(got+0.3) > 1e-12 {
		t.Errorf("Lerp(0, -3, 0.1) = %f, expected -0.3", got)
	}
}

func TestVec3Ops(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(0.5, -1, 2)

	if got := a.Add(b); got != V3(1.5, 1, 5) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != V3(0.5, 3, 1) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale = %+v", got)
	}
}

func TestActionRoundTrip(t *testing.T) {
	for a := ActionNone; a <= ActionQuit; a++ {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("ParseAction(%q) = %v, expected %v", a.String(), got, a)
		}
	}
	if ParseAction("Duck") != ActionNone {
		t.Error("unknown action names should parse to ActionNone")
	}
}

func TestInputFrameOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionStart)
	f.Set(ActionNone)
	f.Set(ActionJump)

	if len(f.Actions) != 2 || f.Actions[0] != ActionStart || f.Actions[1] != ActionJump {
		t.Fatalf("unexpected actions %v", f.Actions)
	}
	if !f.Has(ActionJump) || f.Has(ActionLaneLeft) {
		t.Error("Has reported wrong membership")
	}

	c := f.Clone()
	f.Clear()
	if len(f.Actions) != 0 {
		t.Error("Clear should empty the frame")
	}
	if len(c.Actions) != 2 {
		t.Error("Clone must not share storage with the original")
	}
}
