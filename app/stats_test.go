// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"testing"
	"time"
)

func TestFrameTimerRing(t *testing.T) {
	var ft frameTimer
	for i := range frameSamples + 10 {
		d := time.Millisecond
		if i >= 10 {
			d = 4 * time.Millisecond
		}
		ft.add(d)
	}
	s := ft.stats()
	if s.Frames != frameSamples+10 {
		t.Errorf("frames = %d", s.Frames)
	}
	// The 1ms samples have been overwritten.
	if s.Min != 4*time.Millisecond || s.Max != 4*time.Millisecond || s.Average != 4*time.Millisecond {
		t.Errorf("stats %+v, want every sample 4ms", s)
	}
	if got := s.FPS(); got != 250 {
		t.Errorf("FPS = %v, want 250", got)
	}
}

func TestFrameTimerDue(t *testing.T) {
	var ft frameTimer
	now := time.Now()
	if d := ft.due(now, time.Second); d != 0 {
		t.Errorf("due before any frame = %v", d)
	}
	ft.started = now
	if d := ft.due(now.Add(300*time.Millisecond), time.Second); d != 700*time.Millisecond {
		t.Errorf("due = %v, want 700ms", d)
	}
	if d := ft.due(now.Add(time.Hour), 0); d != 0 {
		t.Errorf("zero interval delayed %v", d)
	}
}
