// Package app wires depth capture, the hand-tracking pipeline, the
// gesture recognizer facade and plugin execution into the single
// long-running service that cmd/handtrace starts.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/handtrace/internal/capture"
	"github.com/ayusman/handtrace/internal/curvature"
	"github.com/ayusman/handtrace/internal/depthmask"
	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/gesture"
	"github.com/ayusman/handtrace/internal/plugin"
	"github.com/ayusman/handtrace/internal/store"
	"github.com/ayusman/handtrace/internal/vector"
)

// pluginTimeoutMs bounds how long a single action's plugin subprocess is
// allowed to run before Executor.Execute gives up on it.
const pluginTimeoutMs = 5000

// Config holds the wiring for a single App instance.
type Config struct {
	Store     *store.Store
	PluginDir string
	CameraID  int
	Source    capture.SourceParams
	Pipeline  PipelineParams
}

// App is the main service: it owns the depth Source, the Pipeline built
// over it, plugin discovery/execution, and the enable/disable switch that
// the tray and HTTP API toggle.
type App struct {
	config Config
	store  *store.Store

	source     *capture.Source
	pipeline   *Pipeline
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	mu      sync.RWMutex
	enabled bool

	// ContourDataReady, CurvesReady, FingertipLocationsReady, GestureRecorded
	// and GestureRecognized mirror the Pipeline/gesture.Recognizer events so
	// a caller only needs to hold onto the App, not every stage inside it.
	ContourDataReady        func(points []vector.Vector, mask []depthmask.Pixel)
	CurvesReady             func(curves []curvature.Point)
	FingertipLocationsReady func(fingertips []finger.Fingertip)
	GestureRecorded         func(gesture.Gesture)
	GestureRecognized       func(name string, meanPathCost float64)
}

// New creates an App with the given configuration. It does not touch the
// camera or the plugin directory until Start/DiscoverPlugins are called.
func New(config Config) *App {
	if config.Source == (capture.SourceParams{}) {
		config.Source = capture.DefaultSourceParams()
	}
	if config.Pipeline.Threshold == (depthmask.Threshold{}) {
		config.Pipeline = DefaultPipelineParams()
	}

	a := &App{
		config:     config,
		store:      config.Store,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(pluginTimeoutMs),
	}

	a.pipeline = NewPipeline(config.Pipeline, nil)
	a.pipeline.ContourDataReady = func(points []vector.Vector, mask []depthmask.Pixel) {
		if a.ContourDataReady != nil {
			a.ContourDataReady(points, mask)
		}
	}
	a.pipeline.CurvesReady = func(curves []curvature.Point) {
		if a.CurvesReady != nil {
			a.CurvesReady(curves)
		}
	}
	a.pipeline.FingertipLocationsReady = func(fingertips []finger.Fingertip) {
		if a.FingertipLocationsReady != nil {
			a.FingertipLocationsReady(fingertips)
		}
	}
	a.pipeline.Recognizer.GestureRecorded = func(g gesture.Gesture) {
		if a.GestureRecorded != nil {
			a.GestureRecorded(g)
		}
	}
	a.pipeline.Recognizer.GestureRecognized = func(name string, meanPathCost float64) {
		a.executeAction(name, meanPathCost)
		if a.GestureRecognized != nil {
			a.GestureRecognized(name, meanPathCost)
		}
	}

	camera := capture.NewCamera(config.CameraID)
	a.source = capture.NewSource(camera, config.Source)
	a.source.OnDepthFrame = func(distances []int16, width, height int) {
		if !a.IsEnabled() {
			return
		}
		if err := a.pipeline.ProcessFrame(distances, width, height); err != nil {
			log.Printf("app: dropping frame: %v", err)
		}
	}

	return a
}

// SetEnabled enables or disables frame processing. The camera keeps
// running either way; a disabled App just discards what Source delivers.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether frame processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Pipeline returns the underlying Pipeline, for callers that want direct
// access to the recognizer facade (StartRecording/StartRecognizer/etc).
func (a *App) Pipeline() *Pipeline {
	return a.pipeline
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// DiscoverPlugins scans the configured plugin directory.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// LoadGestures loads every gesture recording from the store into the
// pipeline's gesture library, replacing whatever was loaded before.
func (a *App) LoadGestures() error {
	if a.store == nil {
		return nil
	}

	records, err := a.store.Gestures().List()
	if err != nil {
		return fmt.Errorf("app: load gestures: %w", err)
	}

	library := make([]gesture.Gesture, 0, len(records))
	for _, g := range records {
		library = append(library, gesture.Gesture{Name: g.Name, Frames: g.Frames})
	}
	a.pipeline.Recognizer.SetLibrary(library)

	log.Printf("app: loaded %d gestures from store", len(library))
	return nil
}

// Start opens the depth camera and begins delivering frames into the
// pipeline.
func (a *App) Start() error {
	return a.source.Start()
}

// Stop halts frame delivery and closes the camera.
func (a *App) Stop() error {
	return a.source.Stop()
}

// executeAction looks up the action bound to the recognized gesture (by
// name, since the in-memory gesture.Gesture carries no store ID) and runs
// its plugin. A gesture with no bound action or a disabled action is
// skipped silently; a gesture missing from the store, a missing plugin, or
// a plugin that fails to execute is logged and otherwise ignored - a failed
// action must never take down the recognition loop.
func (a *App) executeAction(name string, meanPathCost float64) {
	if a.store == nil {
		return
	}

	record, err := a.store.Gestures().GetByName(name)
	if err != nil {
		log.Printf("app: gesture %q recognized but not found in store: %v", name, err)
		return
	}

	action, err := a.store.Actions().GetByGestureID(record.ID)
	if err != nil {
		log.Printf("app: failed to look up action for gesture %q: %v", name, err)
		return
	}
	if action == nil || !action.Enabled {
		return
	}

	p, err := a.pluginMgr.Get(action.PluginName)
	if err != nil {
		log.Printf("app: plugin %q for gesture %q not found: %v", action.PluginName, name, err)
		return
	}

	inv := plugin.NewInvocation(action, name)
	resp, err := a.pluginExec.Execute(p, inv)
	if err != nil {
		log.Printf("app: plugin %q action %q failed for gesture %q: %v", action.PluginName, action.ActionName, name, err)
		return
	}
	if !resp.Success {
		log.Printf("app: plugin %q action %q reported failure for gesture %q: %s", action.PluginName, action.ActionName, name, resp.Error)
	}
}
