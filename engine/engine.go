package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
)

var (
	// ErrRenderPanic is returned by Frame and Run when the render step panicked.
	ErrRenderPanic = errors.New("engine: render panic")

	// ErrAlreadyStarted is returned by Startup when called twice.
	ErrAlreadyStarted = errors.New("engine: already started")
)

// app implements the App interface.
type app struct {
	mu *sync.Mutex

	plugins []Plugin
	systems map[Phase][]System

	renderApp *renderApp
	window    window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate   time.Duration
	frameLimit uint64 // frames Run renders before returning; 0 = unlimited

	started    bool
	frameIndex uint64
}

// App is the main entry point of the engine. It owns the plugins, the per-phase systems and
// the optional render app, and drives frames.
//
// A frame runs strictly in order: update systems, extract systems, then the render graph
// for every camera view.
type App interface {
	// AddPlugins registers plugins. They are built by Startup in registration order.
	//
	// Parameters:
	//   - plugins: the plugins to add
	AddPlugins(plugins ...Plugin)

	// AddSystem registers a system in a phase. Systems in a phase run in registration order.
	//
	// Parameters:
	//   - phase: the phase to run in
	//   - system: the system
	AddSystem(phase Phase, system System)

	// RenderApp returns the render app, or nil when the app is headless.
	//
	// Returns:
	//   - RenderApp: the render app or nil
	RenderApp() RenderApp

	// Window returns the window, or nil when none was configured.
	Window() window.Window

	// Startup builds, then finishes, every plugin.
	//
	// Returns:
	//   - error: the first plugin error, wrapped with the plugin name
	Startup() error

	// Frame runs one frame.
	//
	// Parameters:
	//   - dt: the time since the previous frame
	//
	// Returns:
	//   - error: the first system or render error
	Frame(dt time.Duration) error

	// FrameIndex returns the index the next frame will run with.
	FrameIndex() uint64

	// Run calls Startup if needed, then runs frames until ctx is cancelled, the window closes,
	// the frame limit is reached or a frame fails.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: the frame error, or ctx.Err() on cancellation
	Run(ctx context.Context) error
}

var _ App = &app{}

// NewApp creates a new App with the provided options.
//
// Parameters:
//   - options: functional options for app configuration
//
// Returns:
//   - App: the newly created app
func NewApp(options ...AppBuilderOption) App {
	a := &app{
		mu:       &sync.Mutex{},
		systems:  make(map[Phase][]System),
		tickRate: time.Second / 60,
	}
	for _, opt := range options {
		opt(a)
	}
	if a.profilingEnabled {
		a.profiler = profiler.NewProfiler(Logger())
	}

	if a.window != nil && a.renderApp != nil {
		a.window.SetResizeCallback(func(width, height int) {
			if r := a.renderApp.Renderer(); r != nil {
				r.Resize(width, height)
			}
			for _, c := range a.renderApp.Cameras() {
				if height > 0 {
					c.SetAspect(float32(width) / float32(height))
				}
			}
		})
	}
	return a
}

func (a *app) AddPlugins(plugins ...Plugin) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plugins = append(a.plugins, plugins...)
}

func (a *app) AddSystem(phase Phase, system System) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.systems[phase] = append(a.systems[phase], system)
}

func (a *app) RenderApp() RenderApp {
	if a.renderApp == nil {
		return nil
	}
	return a.renderApp
}

func (a *app) Window() window.Window {
	return a.window
}

func (a *app) FrameIndex() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frameIndex
}

func (a *app) Startup() error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	a.started = true
	plugins := append([]Plugin(nil), a.plugins...)
	a.mu.Unlock()

	for _, p := range plugins {
		Logger().Debug("building plugin", "plugin", p.Name())
		if err := p.Build(a); err != nil {
			return fmt.Errorf("plugin %s: build: %w", p.Name(), err)
		}
	}
	for _, p := range plugins {
		if err := p.Finish(a); err != nil {
			return fmt.Errorf("plugin %s: finish: %w", p.Name(), err)
		}
	}
	Logger().Info("app started", "plugins", len(plugins), "headless", a.renderApp == nil)
	return nil
}

func (a *app) Frame(dt time.Duration) error {
	a.mu.Lock()
	info := FrameInfo{Index: a.frameIndex, Delta: dt}
	a.frameIndex++
	update := append([]System(nil), a.systems[PhaseUpdate]...)
	extract := append([]System(nil), a.systems[PhaseExtract]...)
	a.mu.Unlock()

	for _, phase := range []struct {
		phase   Phase
		systems []System
	}{{PhaseUpdate, update}, {PhaseExtract, extract}} {
		for _, s := range phase.systems {
			if err := s(info); err != nil {
				return fmt.Errorf("%s system, frame %d: %w", phase.phase, info.Index, err)
			}
		}
	}

	if err := a.render(info.Index); err != nil {
		return err
	}

	if a.profiler != nil {
		a.profiler.Tick()
	}
	return nil
}

// render runs the render app and converts a panic into ErrRenderPanic.
func (a *app) render(frameIndex uint64) (err error) {
	if a.renderApp == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("render recovered from panic", "frame", frameIndex, "panic", r)
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
	}()
	return a.renderApp.Render(frameIndex)
}

func (a *app) Run(ctx context.Context) error {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if !started {
		if err := a.Startup(); err != nil {
			return err
		}
	}

	Logger().Info("app running", "frame_limit", a.frameLimit, "window", a.window != nil)
	defer Logger().Info("app stopped", "frames", a.FrameIndex())

	if a.window != nil {
		return a.runWindowed(ctx)
	}
	return a.runTicker(ctx)
}

// limitReached reports whether Run rendered its frame limit.
func (a *app) limitReached() bool {
	return a.frameLimit > 0 && a.FrameIndex() >= a.frameLimit
}

// runWindowed drives frames from the window message loop on the calling goroutine.
func (a *app) runWindowed(ctx context.Context) error {
	var runErr error
	last := time.Now()
	a.window.SetUpdateCallback(func() {
		if runErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			runErr = err
		} else {
			now := time.Now()
			runErr = a.Frame(now.Sub(last))
			last = now
		}
		if runErr != nil || a.limitReached() {
			_ = a.window.Close()
		}
	})
	a.window.ProcessMessages()
	return runErr
}

// runTicker drives frames at the tick rate without a window.
func (a *app) runTicker(ctx context.Context) error {
	ticker := time.NewTicker(a.tickRate)
	defer ticker.Stop()

	last := time.Now()
	for !a.limitReached() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := a.Frame(now.Sub(last)); err != nil {
				return err
			}
			last = now
		}
	}
	return nil
}
