// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"image"
	"image/color"
	"testing"
	"time"

	"cxui.org/errs"
	"cxui.org/platform"
)

func TestCreateFailureLeavesNothing(t *testing.T) {
	b := New()
	b.FailNextCreate(nil)
	if _, err := b.CreateWindow(platform.DefaultParams()); !errs.IsKind(err, errs.KindPlatform) {
		t.Fatalf("CreateWindow error = %v, want platform error", err)
	}
	if n := b.LiveWindows(); n != 0 {
		t.Errorf("%d windows live after failed create", n)
	}
	h, err := b.CreateWindow(platform.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if h == 0 {
		t.Error("zero handle from successful create")
	}
}

func TestInvalidHandle(t *testing.T) {
	b := New()
	err := b.Show(42)
	if got := errs.ReasonOf(err); got != errs.ReasonInvalidHandle {
		t.Errorf("Show(42) reason = %v, want %v", got, errs.ReasonInvalidHandle)
	}
}

func TestEventOrder(t *testing.T) {
	b := New()
	b.Inject(
		platform.RawEvent{Kind: platform.RawMouseMove, Window: 1},
		platform.RawEvent{Kind: platform.RawMousePress, Window: 1},
	)
	b.Inject(platform.RawEvent{Kind: platform.RawMouseRelease, Window: 1})
	evs, err := b.PollEvents()
	if err != nil {
		t.Fatal(err)
	}
	want := []platform.RawKind{platform.RawMouseMove, platform.RawMousePress, platform.RawMouseRelease}
	if len(evs) != len(want) {
		t.Fatalf("got %d events, want %d", len(evs), len(want))
	}
	for i, e := range evs {
		if e.Kind != want[i] {
			t.Errorf("event %d = %v, want %v", i, e.Kind, want[i])
		}
	}
	if evs, _ := b.PollEvents(); len(evs) != 0 {
		t.Errorf("queue not drained: %d events", len(evs))
	}
}

func TestWakeUnblocksWait(t *testing.T) {
	b := New()
	done := make(chan []platform.RawEvent)
	go func() {
		evs, _ := b.WaitEvents()
		done <- evs
	}()
	b.Wake()
	select {
	case evs := <-done:
		if len(evs) != 1 || evs[0].Kind != platform.RawWakeup {
			t.Errorf("WaitEvents = %v, want a single wakeup", evs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitEvents did not return after Wake")
	}
}

func TestPresent(t *testing.T) {
	b := New()
	b.SetScale(2)
	h, err := b.CreateWindow(platform.Params{Width: 10, Height: 5})
	if err != nil {
		t.Fatal(err)
	}
	s, err := b.AcquireSurface(h)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s.Image().Rect, image.Rect(0, 0, 20, 10); got != want {
		t.Fatalf("surface bounds = %v, want %v", got, want)
	}
	red := color.RGBA{R: 0xff, A: 0xff}
	s.Image().SetRGBA(3, 4, red)
	b.FailNextPresent(nil)
	if err := s.Present(image.Rectangle{}); !errs.IsTransient(err) {
		t.Fatalf("Present error = %v, want transient", err)
	}
	if b.Frames() != 0 {
		t.Error("failed present counted as a frame")
	}
	if err := s.Present(image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	if got := b.Snapshot(h).RGBAAt(3, 4); got != red {
		t.Errorf("presented pixel = %v, want %v", got, red)
	}
	if b.Presents(h) != 1 {
		t.Errorf("Presents = %d, want 1", b.Presents(h))
	}
	if err := b.DestroyWindow(h); err != nil {
		t.Fatal(err)
	}
	if b.LiveSurfaces() != 0 || b.LiveWindows() != 0 {
		t.Error("resources left after DestroyWindow")
	}
}

func TestSetSizeQueuesResize(t *testing.T) {
	b := New()
	h, _ := b.CreateWindow(platform.DefaultParams())
	if err := b.SetSize(h, 300, 200); err != nil {
		t.Fatal(err)
	}
	evs, _ := b.PollEvents()
	if len(evs) != 1 || evs[0].Kind != platform.RawResize || evs[0].Width != 300 || evs[0].Height != 200 {
		t.Errorf("events after SetSize = %+v", evs)
	}
	if w, hgt, _ := b.Size(h); w != 300 || hgt != 200 {
		t.Errorf("Size = %dx%d, want 300x200", w, hgt)
	}
}
