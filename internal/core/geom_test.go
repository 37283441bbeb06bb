package core

import "testing"

func TestPointWrap(t *testing.T) {
	tests := []struct {
		name     string
		p        Point
		expected Point
	}{
		{"inside", Point{X: 3, Y: 4}, Point{X: 3, Y: 4}},
		{"left edge", Point{X: -1, Y: 4}, Point{X: 19, Y: 4}},
		{"right edge", Point{X: 20, Y: 4}, Point{X: 0, Y: 4}},
		{"top edge", Point{X: 3, Y: -1}, Point{X: 3, Y: 14}},
		{"bottom edge", Point{X: 3, Y: 15}, Point{X: 3, Y: 0}},
		{"far negative", Point{X: -41, Y: -31}, Point{X: 19, Y: 14}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.p.Wrap(20, 15)
			if got != tc.expected {
				t.Errorf("Wrap(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestPointAdd(t *testing.T) {
	p := Point{X: 1, Y: 2}.Add(-1, 3)
	if p != (Point{X: 0, Y: 5}) {
		t.Errorf("Add() = %v, expected (0,5)", p)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}
