// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"time"
)

// FrameStats summarizes the render times of a window. Last, Average,
// Min and Max cover the most recent frames only.
type FrameStats struct {
	// Frames is the number of frames presented since the window was
	// created.
	Frames int
	// Last is the duration of the most recent frame.
	Last time.Duration
	// Average, Min and Max are taken over the sampled frames.
	Average, Min, Max time.Duration
}

// FPS returns the frame rate the average frame time would sustain, or
// zero before the first frame.
func (s FrameStats) FPS() float64 {
	if s.Average <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Average)
}

// frameSamples is the number of frame times FrameStats averages over.
const frameSamples = 120

// frameTimer records the duration of presented frames in a ring.
type frameTimer struct {
	samples [frameSamples]time.Duration
	frames  int
	// started is the start of the last frame, presented or not.
	started time.Time
}

func (t *frameTimer) add(d time.Duration) {
	t.samples[t.frames%frameSamples] = d
	t.frames++
}

func (t *frameTimer) stats() FrameStats {
	s := FrameStats{Frames: t.frames}
	n := min(t.frames, frameSamples)
	if n == 0 {
		return s
	}
	s.Last = t.samples[(t.frames-1)%frameSamples]
	s.Min = s.Last
	var total time.Duration
	for _, d := range t.samples[:n] {
		total += d
		s.Min = min(s.Min, d)
		s.Max = max(s.Max, d)
	}
	s.Average = total / time.Duration(n)
	return s
}

// due returns how long until a frame started after the last one keeps
// the given interval. A zero interval never delays.
func (t *frameTimer) due(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 || t.started.IsZero() {
		return 0
	}
	return t.started.Add(interval).Sub(now)
}
