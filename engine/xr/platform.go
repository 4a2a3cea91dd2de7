package xr

import (
	"context"
	"errors"
	"sync"
)

// SessionMode names a presentation mode a Platform may support.
type SessionMode string

const (
	// SessionModeImmersiveVR is a stereo presentation meant for a head-mounted display.
	SessionModeImmersiveVR SessionMode = "immersive-vr"
)

var (
	// ErrUnsupported is returned when the platform lacks XR or rejects the requested mode.
	ErrUnsupported = errors.New("xr: immersive session not supported")

	// ErrTogglePending is returned when a toggle arrives while a capability query is in flight.
	ErrTogglePending = errors.New("xr: toggle already pending")

	// ErrAlreadyPresenting is returned by Begin when the platform is already presenting.
	ErrAlreadyPresenting = errors.New("xr: already presenting")
)

// Platform is the device capability the viewer presents through.
// IsSessionSupported may block; Session always calls it off the render loop.
type Platform interface {
	// Available reports whether any XR capability is present.
	//
	// Returns:
	//   - bool: true if the platform can be queried for session support
	Available() bool

	// IsSessionSupported asks whether the platform can present in mode.
	//
	// Parameters:
	//   - ctx: cancels the query
	//   - mode: the session mode to check
	//
	// Returns:
	//   - bool: true if the mode is supported
	//   - error: error if the query itself failed
	IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error)

	// Begin enables presentation.
	//
	// Returns:
	//   - error: error if presentation could not start
	Begin() error

	// End stops presentation immediately.
	//
	// Returns:
	//   - error: error reported by the platform while ending
	End() error
}

// noPlatform reports XR as absent.
type noPlatform struct{}

// NoPlatform returns a Platform without XR capability.
//
// Returns:
//   - Platform: a platform whose Available always reports false
func NoPlatform() Platform {
	return noPlatform{}
}

func (noPlatform) Available() bool { return false }

func (noPlatform) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	return false, nil
}

func (noPlatform) Begin() error { return ErrUnsupported }

func (noPlatform) End() error { return nil }

// stereoPlatform presents side-by-side stereo on the regular window surface.
type stereoPlatform struct {
	mu         sync.Mutex
	presenting bool
}

// NewStereoPlatform returns a Platform that supports immersive-vr by splitting the
// window into left and right eye viewports, which suits phone headsets and stereo displays.
//
// Returns:
//   - Platform: the stereo platform
func NewStereoPlatform() Platform {
	return &stereoPlatform{}
}

func (p *stereoPlatform) Available() bool { return true }

func (p *stereoPlatform) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return mode == SessionModeImmersiveVR, nil
}

func (p *stereoPlatform) Begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.presenting {
		return ErrAlreadyPresenting
	}
	p.presenting = true
	return nil
}

func (p *stereoPlatform) End() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presenting = false
	return nil
}
