package app

import (
	"log"
	"time"

	"github.com/jedawel/lenssafe/internal/detector"
)

// runPipeline is the main detection loop that processes frames from the
// camera. Frames are fully resolved one at a time: landmarks, then the
// rubbing decision, then confirmation, then a possible alert.
//
// The motion gate keeps the loop cheap while the scene is still:
//  1. Start in idle mode (IdleFPS)
//  2. On scene motion, switch to active mode (the configured camera FPS)
//  3. Run landmark detection and the rubbing monitor
//  4. Dispatch an alert when a detection is confirmed
//  5. After IdleTimeout without motion, drop back to idle mode and clear
//     the monitor's temporal state
func (a *App) runPipeline(stopCh chan struct{}) {
	activeFPS := a.config.Settings.Camera.FPS

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	// FPS accounting over a one-second window
	fpsStart := time.Now()
	fpsFrames := 0
	currentFPS := 0.0

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Resets requested from other goroutines (the tray and the
			// dashboard toggle) are applied here; the monitor is only
			// ever touched from this goroutine.
			if a.takeResetPending() {
				a.monitor.Reset()
			}

			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				// A dropped frame carries no inputs: the monitor sees an
				// empty observation so confirmation counters and motion
				// histories cannot coast across the gap.
				a.monitor.ProcessFrame(detector.Observation{})
				continue
			}

			fpsFrames++
			if elapsed := time.Since(fpsStart); elapsed > time.Second {
				currentFPS = float64(fpsFrames) / elapsed.Seconds()
				fpsFrames = 0
				fpsStart = time.Now()
			}

			// Step 1: motion gate
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(activeFPS)
					frameInterval = time.Second / time.Duration(activeFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > IdleTimeout {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					a.monitor.Reset()
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode || a.detector == nil {
				frame.Close()
				a.publishStatus(Status{Enabled: true, FPS: currentFPS, Timestamp: time.Now()})
				continue
			}

			// Step 2: landmark detection
			obs, err := a.detector.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting landmarks: %v", err)
				a.monitor.ProcessFrame(detector.Observation{})
				continue
			}

			// Step 3: rubbing decision and confirmation
			result := a.monitor.ProcessFrame(obs)

			// Step 4: alert on confirmed detection
			outcome := a.dispatcher.MaybeAlert(result.Confirmed, time.Now())

			status := Status{
				Enabled:       true,
				FaceDetected:  result.FaceDetected,
				HandsDetected: result.HandsDetected,
				Rubbing:       result.Rubbing,
				Confirmed:     result.Confirmed,
				Outcome:       outcome,
				FPS:           currentFPS,
				Timestamp:     time.Now(),
			}
			if last, ok := a.dispatcher.LastAlert(); ok {
				status.LastAlert = last
			}
			a.publishStatus(status)
		}
	}
}

// publishStatus records the latest snapshot and fans it out to listeners.
func (a *App) publishStatus(status Status) {
	a.mu.Lock()
	a.status = status
	listeners := a.listeners
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(status)
	}
}
