// Package anim produces interpolated animation frame sequences from static
// point sets: a progressive reveal in ascending x order, with the appearing
// point rising into place.
package anim

import (
	"log"
	"math"
	"sort"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

// entryRiseOffset is how far below its final position the appearing point
// starts, in data-domain units of the y axis.
const entryRiseOffset = 50.0

// GenerateFrames builds the full frame sequence for one animation run.
// The input is sorted ascending by x (a copy; the caller's slice is not
// touched) so the reveal order follows the data, not insertion order.
// Returns floor(duration*fps) frames; an empty point set yields an empty
// sequence with a warning rather than an error.
func GenerateFrames(points []models.DataPoint, cfg models.AnimationConfig) []models.AnimationFrame {
	totalFrames := int(math.Floor(cfg.Duration * float64(cfg.FPS)))
	if totalFrames <= 0 {
		return nil
	}

	if len(points) == 0 {
		log.Println("Warning: generating animation frames from empty point set")
		return nil
	}

	sorted := make([]models.DataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	frames := make([]models.AnimationFrame, 0, totalFrames)
	totalPoints := len(sorted)

	for i := 0; i < totalFrames; i++ {
		rawProgress := 0.0
		if totalFrames > 1 {
			rawProgress = float64(i) / float64(totalFrames-1)
		}
		eased := Ease(cfg.Easing, rawProgress)

		pointsToShow := int(math.Floor(eased * float64(totalPoints)))
		if pointsToShow > totalPoints {
			pointsToShow = totalPoints
		}

		frameData := make([]models.DataPoint, 0, pointsToShow)
		for j := 0; j < pointsToShow; j++ {
			p := sorted[j]
			if j == pointsToShow-1 && pointsToShow < totalPoints {
				// The newest point rises from below its final position,
				// fading and growing as it settles.
				entryProgress := eased*float64(totalPoints) - float64(pointsToShow)
				if entryProgress < 0 {
					entryProgress = 0
				}
				p.Y = p.Y + entryRiseOffset*(1-entryProgress)
				p.Size = p.Size * entryProgress
				p.Opacity = entryProgress
			} else {
				p.Opacity = 1
			}
			frameData = append(frameData, p)
		}

		frames = append(frames, models.AnimationFrame{
			Data:     frameData,
			Progress: rawProgress,
		})
	}

	return frames
}
