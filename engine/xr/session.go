package xr

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// State is the presentation state of a Session.
type State int

const (
	// StateInactive means the scene renders to the window normally.
	StateInactive State = iota

	// StatePresenting means an immersive session is active.
	StatePresenting
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StatePresenting:
		return "presenting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Affordance is the visible entry point shown while a session is presenting.
type Affordance interface {
	// Attach shows the affordance. Called once per transition into StatePresenting.
	Attach()

	// Detach hides the affordance. Called once per transition out of StatePresenting.
	Detach()
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	// Alert displays message and returns once the user has dismissed it.
	//
	// Parameters:
	//   - message: the text to show
	Alert(message string)
}

// UnsupportedMessage is the alert shown when the platform cannot present.
const UnsupportedMessage = "VR not supported on this device."

// session is the implementation of the Session interface.
type session struct {
	mu sync.Mutex

	platform   Platform
	affordance Affordance
	notifier   Notifier
	dispatch   func(func())
	onChange   func(State)
	mode       SessionMode

	state   State
	pending bool
}

// Session is the two-state VR toggle.
//
// Toggling from StateInactive runs the platform capability query on its own goroutine and
// mutates nothing until the answer is handed back through the dispatcher. Toggling from
// StatePresenting ends the session immediately.
type Session interface {
	// State returns the current presentation state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Pending reports whether a capability query is in flight.
	//
	// Returns:
	//   - bool: true while a toggle awaits the platform
	Pending() bool

	// Toggle requests the opposite state.
	// Entering presents only if the platform is available and supports immersive-vr;
	// otherwise the notifier raises one alert and the state is unchanged.
	//
	// Parameters:
	//   - ctx: cancels the capability query
	//
	// Returns:
	//   - error: ErrTogglePending if a query is in flight, ErrUnsupported if XR is absent
	Toggle(ctx context.Context) error
}

var _ Session = &session{}

// NewSession creates an inactive Session on platform.
//
// Parameters:
//   - platform: the XR capability to query and present through
//   - options: functional options to configure the session
//
// Returns:
//   - Session: the newly created session
func NewSession(platform Platform, options ...SessionBuilderOption) Session {
	s := &session{
		platform: platform,
		mode:     SessionModeImmersiveVR,
		dispatch: func(f func()) { f() },
	}
	for _, option := range options {
		option(s)
	}
	if s.platform == nil {
		s.platform = NoPlatform()
	}
	return s
}

func (s *session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *session) Toggle(ctx context.Context) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrTogglePending
	}

	if s.state == StatePresenting {
		if err := s.platform.End(); err != nil {
			log.Printf("[XR] error ending session: %v", err)
		}
		s.state = StateInactive
		s.mu.Unlock()
		if s.affordance != nil {
			s.affordance.Detach()
		}
		s.changed(StateInactive)
		return nil
	}

	if !s.platform.Available() {
		s.mu.Unlock()
		log.Printf("[XR] no XR capability present")
		s.alert()
		return ErrUnsupported
	}

	s.pending = true
	s.mu.Unlock()

	go func() {
		supported, err := s.platform.IsSessionSupported(ctx, s.mode)
		s.dispatch(func() { s.resolve(supported, err) })
	}()
	return nil
}

// resolve applies the answer of a capability query. Runs through the dispatcher.
func (s *session) resolve(supported bool, err error) {
	s.mu.Lock()
	s.pending = false

	if err != nil || !supported {
		s.mu.Unlock()
		if err != nil {
			log.Printf("[XR] session support query failed: %v", err)
		} else {
			log.Printf("[XR] %s sessions not supported", s.mode)
		}
		s.alert()
		return
	}

	if err := s.platform.Begin(); err != nil {
		s.mu.Unlock()
		log.Printf("[XR] error starting session: %v", err)
		s.alert()
		return
	}
	s.state = StatePresenting
	s.mu.Unlock()

	if s.affordance != nil {
		s.affordance.Attach()
	}
	s.changed(StatePresenting)
}

func (s *session) alert() {
	if s.notifier != nil {
		s.notifier.Alert(UnsupportedMessage)
	}
}

func (s *session) changed(state State) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
