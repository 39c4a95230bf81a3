// Package app wires the camera, landmark detector, rubbing monitor and
// alert dispatcher into the LensSafe frame-processing pipeline.
package app

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/jedawel/lenssafe/internal/alert"
	"github.com/jedawel/lenssafe/internal/capture"
	"github.com/jedawel/lenssafe/internal/config"
	"github.com/jedawel/lenssafe/internal/detector"
	"github.com/jedawel/lenssafe/internal/monitor"
	"github.com/jedawel/lenssafe/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 5
	// IdleTimeout is how long without motion before dropping back to
	// idle mode.
	IdleTimeout = 2 * time.Second
)

// settingEnabled is the settings key persisting the monitoring toggle.
const settingEnabled = "monitoring_enabled"

// Config holds the application wiring. Camera, Detector and Dispatcher
// may be pre-built (tests inject mocks here); nil fields get the
// production defaults.
type Config struct {
	Settings   config.Config
	Store      *store.Store
	Camera     capture.Camera
	Detector   detector.Detector
	Dispatcher *alert.Dispatcher
	// MotionThresh is the percentage of changed pixels that counts as
	// scene motion for the idle/active gate.
	MotionThresh float64
}

// Status is a snapshot of the pipeline state after the most recent frame.
type Status struct {
	Enabled       bool          `json:"enabled"`
	FaceDetected  bool          `json:"faceDetected"`
	HandsDetected bool          `json:"handsDetected"`
	Rubbing       bool          `json:"rubbing"`
	Confirmed     bool          `json:"confirmed"`
	Outcome       alert.Outcome `json:"outcome"`
	FPS           float64       `json:"fps"`
	LastAlert     time.Time     `json:"lastAlert,omitzero"`
	Timestamp     time.Time     `json:"timestamp"`
}

// App runs the detection pipeline.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	monitor    *monitor.Monitor
	dispatcher *alert.Dispatcher

	mu        sync.RWMutex
	enabled   bool
	status    Status
	listeners []func(Status)
	stopCh    chan struct{}
	// resetPending defers monitor resets to the pipeline goroutine,
	// which is the only goroutine allowed to touch the monitor.
	resetPending bool
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	motionThreshold := cfg.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	a := &App{
		config: cfg,
		motion: capture.NewMotionDetector(motionThreshold),
		monitor: monitor.New(monitor.Config{
			EyeRubThreshold:            cfg.Settings.Detection.EyeRubThreshold,
			DepthThreshold:             cfg.Settings.Detection.DepthThreshold,
			MotionThreshold:            cfg.Settings.Detection.MotionThreshold,
			MotionHistoryFrames:        cfg.Settings.Detection.MotionHistoryFrames,
			ConsecutiveFramesThreshold: cfg.Settings.Detection.ConsecutiveFramesThreshold,
		}),
		enabled: true,
	}

	a.camera = cfg.Camera
	if a.camera == nil {
		cam := cfg.Settings.Camera
		a.camera = capture.NewCamera(cam.Source, cam.Width, cam.Height)
	}

	a.dispatcher = cfg.Dispatcher
	if a.dispatcher == nil {
		a.dispatcher = alert.NewDispatcher(cfg.Settings.Cooldown(), alert.ConsoleSink{})
	}

	a.detector = cfg.Detector
	if a.detector == nil {
		// Try MediaPipe first, fall back to the mock detector
		mpCfg := detector.DefaultConfig()
		mpCfg.MinConfidence = cfg.Settings.Detection.MinDetectionConfidence
		mpCfg.MinTrackingConf = cfg.Settings.Detection.MinTrackingConfidence

		if mp, err := detector.NewMediaPipeDetector(mpCfg); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe landmark detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	a.restoreEnabled()
	a.status = Status{Enabled: a.enabled, Timestamp: time.Now()}

	return a
}

// restoreEnabled loads the persisted monitoring toggle, if any.
func (a *App) restoreEnabled() {
	if a.config.Store == nil {
		return
	}
	value, err := a.config.Store.Settings().Get(settingEnabled)
	if err != nil {
		return
	}
	if enabled, err := strconv.ParseBool(value); err == nil {
		a.enabled = enabled
	}
}

// SetEnabled enables or disables rubbing detection. Disabling clears the
// monitor's temporal state so re-enabling starts from a clean slate; the
// clear itself happens on the pipeline goroutine, since callers arrive
// here from the tray and the dashboard.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	if !enabled {
		a.resetPending = true
	}
	a.status.Enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(settingEnabled, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to persist monitoring toggle: %v", err)
		}
	}
}

// takeResetPending reports whether a monitor reset was requested and
// clears the request. Called only from the pipeline goroutine.
func (a *App) takeResetPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	pending := a.resetPending
	a.resetPending = false
	return pending
}

// IsEnabled returns whether rubbing detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns a snapshot of the pipeline state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// OnStatus registers a listener invoked after every processed frame.
// Listeners run on the pipeline goroutine and must not block.
func (a *App) OnStatus(fn func(Status)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Dispatcher returns the alert dispatcher.
func (a *App) Dispatcher() *alert.Dispatcher {
	return a.dispatcher
}
