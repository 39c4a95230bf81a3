package server

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/jedawel/lenssafe/internal/app"
)

var (
	overlayGreen = color.RGBA{G: 255, A: 255}
	overlayRed   = color.RGBA{R: 255, A: 255}
	overlayGray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	overlayWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	overlayBlack = color.RGBA{A: 255}
)

// drawOverlay renders the monitoring status onto a frame: a banner with
// the current detection state, optional FPS, and face/hand indicators.
func drawOverlay(frame *gocv.Mat, status app.Status, showFPS bool) {
	width := frame.Cols()

	statusText := "Monitoring..."
	statusColor := overlayGreen
	switch {
	case !status.Enabled:
		statusText = "Monitoring paused"
		statusColor = overlayGray
	case status.Rubbing:
		statusText = "EYE RUBBING DETECTED!"
		statusColor = overlayRed
	}

	// Status bar
	gocv.Rectangle(frame, image.Rect(0, 0, width, 40), overlayBlack, -1)
	gocv.PutText(frame, statusText, image.Pt(10, 25), gocv.FontHersheySimplex, 0.7, statusColor, 2)

	if showFPS {
		fpsText := fmt.Sprintf("FPS: %.1f", status.FPS)
		gocv.PutText(frame, fpsText, image.Pt(width-120, 25), gocv.FontHersheySimplex, 0.6, overlayWhite, 2)
	}

	// Detection indicators
	faceColor := overlayGray
	faceText := "Face: -"
	if status.FaceDetected {
		faceColor = overlayGreen
		faceText = "Face: OK"
	}

	handColor := overlayGray
	handText := "Hands: -"
	if status.HandsDetected {
		handColor = overlayGreen
		handText = "Hands: OK"
	}

	gocv.PutText(frame, faceText, image.Pt(10, 60), gocv.FontHersheySimplex, 0.5, faceColor, 2)
	gocv.PutText(frame, handText, image.Pt(110, 60), gocv.FontHersheySimplex, 0.5, handColor, 2)
}
