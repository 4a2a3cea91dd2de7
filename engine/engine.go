package engine

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
)

// ErrAlreadyRunning is returned by Run when the loop has already been started.
var ErrAlreadyRunning = errors.New("engine is already running")

// Host is the platform message pump the engine runs alongside.
// window.Window satisfies it.
type Host interface {
	// ProcessMessages pumps platform events and blocks until the host closes.
	ProcessMessages()

	// RequestClose asks the host to stop pumping messages. Safe to call from any goroutine.
	RequestClose()
}

// engine implements the Engine interface.
// Coordinates the render loop goroutine and the host message pump.
type engine struct {
	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	host Host

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine drives the viewer: one render loop goroutine invokes the render callback once per frame
// while the calling goroutine pumps host messages.
type Engine interface {
	// Run starts the render loop and pumps host messages until the host closes or Quit is called.
	// The render callback is never re-entered: each invocation returns before the next begins.
	// Without a host, Run blocks until Quit.
	//
	// Returns:
	//   - error: ErrAlreadyRunning if Run was already called
	Run() error

	// Running reports whether Run has started and the loop has not yet quit.
	//
	// Returns:
	//   - bool: true while the render loop is live
	Running() bool

	// Done returns a channel that is closed once the engine has been told to quit.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}

	// Quit signals the render loop to stop and asks the host to close.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (host, profiling, frame limit, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Run() error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	e.wg.Add(1)
	go e.handleRender()

	if e.host != nil {
		e.host.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	return nil
}

func (e *engine) Running() bool {
	select {
	case <-e.quitChannel:
		return false
	default:
		return e.running.Load()
	}
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// Quit signals the render loop to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel and asks the host to stop pumping.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.host != nil {
			e.host.RequestClose()
		}
	})
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() && e.profiler != nil {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// frameDuration converts a frame rate cap to a minimum frame duration (0 = uncapped).
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
