package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeHost struct {
	once   sync.Once
	closed chan struct{}
	closes atomic.Int32
}

func newFakeHost() *fakeHost {
	return &fakeHost{closed: make(chan struct{})}
}

func (h *fakeHost) ProcessMessages() {
	<-h.closed
}

func (h *fakeHost) RequestClose() {
	h.closes.Add(1)
	h.once.Do(func() { close(h.closed) })
}

func runAsync(e Engine) <-chan error {
	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunTwiceIsRejected(t *testing.T) {
	host := newFakeHost()
	e := NewEngine(WithHost(host))
	done := runAsync(e)

	deadline := time.Now().Add(5 * time.Second)
	for !e.Running() {
		if time.Now().After(deadline) {
			t.Fatal("engine never started")
		}
		time.Sleep(time.Millisecond)
	}

	if err := e.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Run() = %v, want ErrAlreadyRunning", err)
	}

	e.Quit()
	if err := waitRun(t, done); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if err := e.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Run() after quit = %v, want ErrAlreadyRunning", err)
	}
}

func TestRenderCallbackIsNeverReentered(t *testing.T) {
	var inside, calls atomic.Int32
	var overlapped atomic.Bool

	var e Engine
	e = NewEngine(
		WithHost(newFakeHost()),
		WithRenderCallback(func(dt float32) {
			if inside.Add(1) > 1 {
				overlapped.Store(true)
			}
			defer inside.Add(-1)
			if dt < 0 {
				t.Errorf("negative delta time %f", dt)
			}
			if calls.Add(1) == 20 {
				e.Quit()
			}
		}),
	)

	if err := waitRun(t, runAsync(e)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if overlapped.Load() {
		t.Fatal("render callback was re-entered")
	}
	if calls.Load() < 20 {
		t.Fatalf("calls = %d, want >= 20", calls.Load())
	}
	if e.Running() {
		t.Fatal("Running() = true after quit")
	}
}

func TestHostCloseStopsLoop(t *testing.T) {
	host := newFakeHost()
	var calls atomic.Int32
	e := NewEngine(WithHost(host), WithRenderCallback(func(float32) {
		if calls.Add(1) == 3 {
			host.RequestClose()
		}
	}))

	if err := waitRun(t, runAsync(e)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	select {
	case <-e.Done():
	default:
		t.Fatal("Done() not closed after host closed")
	}
}

func TestRenderPanicIsRecovered(t *testing.T) {
	host := newFakeHost()
	e := NewEngine(WithHost(host), WithRenderCallback(func(float32) {
		panic("lost device")
	}))

	if err := waitRun(t, runAsync(e)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if host.closes.Load() == 0 {
		t.Fatal("host was not asked to close after a render panic")
	}
}

func TestRunWithoutHostBlocksUntilQuit(t *testing.T) {
	var calls atomic.Int32
	var e Engine
	e = NewEngine(WithProfiling(true), WithRenderCallback(func(float32) {
		if calls.Add(1) == 5 {
			e.Quit()
		}
	}))

	if err := waitRun(t, runAsync(e)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{0, 0},
		{-30, 0},
		{50, 20 * time.Millisecond},
		{1000, time.Millisecond},
	}
	for _, tt := range tests {
		if got := frameDuration(tt.fps); got != tt.want {
			t.Errorf("frameDuration(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestFrameLimitThrottlesLoop(t *testing.T) {
	var calls atomic.Int32
	var e Engine
	e = NewEngine(WithRenderFrameLimit(100), WithRenderCallback(func(float32) {
		if calls.Add(1) == 5 {
			e.Quit()
		}
	}))

	start := time.Now()
	if err := waitRun(t, runAsync(e)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Fatalf("5 frames at 100 fps took %v, want >= 35ms", elapsed)
	}
}
