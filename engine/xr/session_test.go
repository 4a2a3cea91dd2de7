package xr

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePlatform struct {
	available bool
	supported bool
	queryErr  error
	gate      chan struct{}
	begins    int
	ends      int
}

func (p *fakePlatform) Available() bool { return p.available }

func (p *fakePlatform) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	if p.gate != nil {
		<-p.gate
	}
	return p.supported, p.queryErr
}

func (p *fakePlatform) Begin() error {
	p.begins++
	return nil
}

func (p *fakePlatform) End() error {
	p.ends++
	return nil
}

type countingAffordance struct{ attached, detached int }

func (a *countingAffordance) Attach() { a.attached++ }
func (a *countingAffordance) Detach() { a.detached++ }

type countingNotifier struct{ messages []string }

func (n *countingNotifier) Alert(message string) { n.messages = append(n.messages, message) }

// loop collects dispatched continuations so tests can run them like the render loop does.
type loop chan func()

func (l loop) dispatch(f func()) { l <- f }

func (l loop) runOne(t *testing.T) {
	t.Helper()
	select {
	case f := <-l:
		f()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for capability query")
	}
}

func newTestSession(p Platform) (Session, *countingAffordance, *countingNotifier, loop) {
	a := &countingAffordance{}
	n := &countingNotifier{}
	l := make(loop, 4)
	s := NewSession(p, WithAffordance(a), WithNotifier(n), WithDispatcher(l.dispatch))
	return s, a, n, l
}

func TestToggleSupportedEntersAndExits(t *testing.T) {
	p := &fakePlatform{available: true, supported: true}
	s, a, n, l := newTestSession(p)

	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if s.State() != StateInactive || !s.Pending() {
		t.Fatal("state must not change before the query resolves")
	}
	l.runOne(t)

	if s.State() != StatePresenting {
		t.Fatalf("state = %v, want presenting", s.State())
	}
	if a.attached != 1 || p.begins != 1 {
		t.Fatalf("attached = %d, begins = %d, want 1 each", a.attached, p.begins)
	}

	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if s.State() != StateInactive || p.ends != 1 || a.detached != 1 {
		t.Fatalf("state = %v, ends = %d, detached = %d", s.State(), p.ends, a.detached)
	}
	if len(n.messages) != 0 {
		t.Fatalf("unexpected alerts: %v", n.messages)
	}

	// A second round attaches again, once.
	_ = s.Toggle(context.Background())
	l.runOne(t)
	if a.attached != 2 {
		t.Fatalf("attached = %d, want 2", a.attached)
	}
}

func TestToggleUnsupportedAlertsOnce(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
		wantErr  error
		async    bool
	}{
		{"no capability", &fakePlatform{available: false}, ErrUnsupported, false},
		{"query false", &fakePlatform{available: true, supported: false}, nil, true},
		{"query error", &fakePlatform{available: true, queryErr: errors.New("boom")}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a, n, l := newTestSession(tt.platform)
			if err := s.Toggle(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Toggle err = %v, want %v", err, tt.wantErr)
			}
			if tt.async {
				l.runOne(t)
			}
			if s.State() != StateInactive || s.Pending() {
				t.Fatalf("state = %v pending = %v", s.State(), s.Pending())
			}
			if len(n.messages) != 1 || n.messages[0] != UnsupportedMessage {
				t.Fatalf("alerts = %v, want exactly one", n.messages)
			}
			if a.attached != 0 || tt.platform.begins != 0 {
				t.Fatal("unsupported toggle must not start presentation")
			}
		})
	}
}

func TestToggleWhilePendingRejected(t *testing.T) {
	p := &fakePlatform{available: true, supported: true, gate: make(chan struct{})}
	s, a, _, l := newTestSession(p)

	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := s.Toggle(context.Background()); !errors.Is(err, ErrTogglePending) {
		t.Fatalf("second Toggle err = %v, want ErrTogglePending", err)
	}

	close(p.gate)
	l.runOne(t)
	if s.State() != StatePresenting || a.attached != 1 {
		t.Fatalf("state = %v attached = %d", s.State(), a.attached)
	}
}

func TestStateChangeCallback(t *testing.T) {
	var states []State
	l := make(loop, 1)
	s := NewSession(NewStereoPlatform(),
		WithDispatcher(l.dispatch),
		WithStateChange(func(st State) { states = append(states, st) }),
	)

	_ = s.Toggle(context.Background())
	l.runOne(t)
	_ = s.Toggle(context.Background())

	if len(states) != 2 || states[0] != StatePresenting || states[1] != StateInactive {
		t.Fatalf("states = %v", states)
	}
}

func TestNoPlatform(t *testing.T) {
	p := NoPlatform()
	if p.Available() {
		t.Fatal("NoPlatform must report XR absent")
	}
	if ok, _ := NewStereoPlatform().IsSessionSupported(context.Background(), "inline"); ok {
		t.Fatal("stereo platform only supports immersive-vr")
	}
	if StatePresenting.String() != "presenting" {
		t.Fatalf("String() = %q", StatePresenting.String())
	}
}

func TestStereoPlatformBeginTwice(t *testing.T) {
	p := NewStereoPlatform()
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := p.Begin(); !errors.Is(err, ErrAlreadyPresenting) {
		t.Fatalf("second Begin = %v, want ErrAlreadyPresenting", err)
	}
	if err := p.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin after End: %v", err)
	}
}
