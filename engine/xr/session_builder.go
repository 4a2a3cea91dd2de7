package xr

// SessionBuilderOption is a functional option for configuring a Session via NewSession.
type SessionBuilderOption func(*session)

// WithAffordance sets the entry affordance attached while presenting.
//
// Parameters:
//   - a: the affordance
//
// Returns:
//   - SessionBuilderOption: functional option to set the affordance
func WithAffordance(a Affordance) SessionBuilderOption {
	return func(s *session) {
		s.affordance = a
	}
}

// WithNotifier sets the notifier used for the unsupported alert.
//
// Parameters:
//   - n: the notifier
//
// Returns:
//   - SessionBuilderOption: functional option to set the notifier
func WithNotifier(n Notifier) SessionBuilderOption {
	return func(s *session) {
		s.notifier = n
	}
}

// WithDispatcher sets how capability query results are handed back.
// The viewer passes its event queue so state only changes on the render loop.
// By default results are applied on the query goroutine.
//
// Parameters:
//   - dispatch: schedules a function to run on the owning goroutine
//
// Returns:
//   - SessionBuilderOption: functional option to set the dispatcher
func WithDispatcher(dispatch func(func())) SessionBuilderOption {
	return func(s *session) {
		if dispatch != nil {
			s.dispatch = dispatch
		}
	}
}

// WithStateChange registers a callback invoked after every state transition.
//
// Parameters:
//   - fn: receives the new state
//
// Returns:
//   - SessionBuilderOption: functional option to set the callback
func WithStateChange(fn func(State)) SessionBuilderOption {
	return func(s *session) {
		s.onChange = fn
	}
}
