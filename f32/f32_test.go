// SPDX-License-Identifier: Unlicense OR MIT

package f32

import (
	"image"
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rt(10, 10, 20, 10)
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(10, 10), true},
		{Pt(29.9, 19.9), true},
		{Pt(30, 15), false},
		{Pt(15, 20), false},
		{Pt(9.9, 15), false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("%v.Contains(%v) = %v, want %v", r, tc.p, got, tc.want)
		}
	}
}

func TestRectValid(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		r    Rect
		want bool
	}{
		{Rt(0, 0, 0, 0), true},
		{Rt(-5, -5, 10, 10), true},
		{Rt(0, 0, -1, 10), false},
		{Rt(0, 0, 10, -1), false},
		{Rt(nan, 0, 10, 10), false},
	}
	for _, tc := range tests {
		if got := tc.r.Valid(); got != tc.want {
			t.Errorf("%v.Valid() = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	parent := Rt(0, 0, 100, 50)
	tests := []struct {
		r, want Rect
	}{
		{Rt(10, 10, 20, 20), Rt(10, 10, 20, 20)},
		{Rt(90, 0, 30, 60), Rt(90, 0, 10, 50)},
		{Rt(150, 10, 10, 10), Rt(100, 10, 0, 10)},
		{Rt(-10, -10, 20, 20), Rt(0, 0, 10, 10)},
	}
	for _, tc := range tests {
		got := tc.r.Intersect(parent)
		if got != tc.want {
			t.Errorf("%v.Intersect(%v) = %v, want %v", tc.r, parent, got, tc.want)
		}
		if !got.In(parent) {
			t.Errorf("%v not inside %v", got, parent)
		}
	}
}

func TestRectImage(t *testing.T) {
	got := Rt(1.5, 2.25, 10, 3.5).Scale(2).Image()
	want := image.Rect(3, 4, 23, 12)
	if got != want {
		t.Errorf("Image() = %v, want %v", got, want)
	}
}
