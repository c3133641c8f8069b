package anim

import (
	"math"
	"testing"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

func testPoints(n int) []models.DataPoint {
	points := make([]models.DataPoint, n)
	for i := range points {
		points[i] = models.DataPoint{X: float64(i), Y: float64(i * 2), Size: 5}
	}
	return points
}

func animConfig(duration float64, fps int, easing models.EasingKind) models.AnimationConfig {
	cfg := models.DefaultAnimationConfig()
	cfg.Duration = duration
	cfg.FPS = fps
	cfg.Easing = easing
	return cfg
}

func TestFrameCount(t *testing.T) {
	frames := GenerateFrames(testPoints(20), animConfig(5, 30, models.EaseLinear))
	if len(frames) != 150 {
		t.Errorf("Expected 150 frames for duration=5 fps=30, got %d", len(frames))
	}
}

func TestZeroDurationYieldsNoFrames(t *testing.T) {
	frames := GenerateFrames(testPoints(10), animConfig(0, 30, models.EaseLinear))
	if len(frames) != 0 {
		t.Errorf("Expected 0 frames for duration=0, got %d", len(frames))
	}
}

func TestEmptyPointSetYieldsNoFrames(t *testing.T) {
	frames := GenerateFrames(nil, animConfig(5, 30, models.EaseLinear))
	if len(frames) != 0 {
		t.Errorf("Expected empty sequence for empty point set, got %d frames", len(frames))
	}
}

func TestEasingBoundaries(t *testing.T) {
	kinds := []models.EasingKind{
		models.EaseLinear,
		models.EaseIn,
		models.EaseOut,
		models.EaseInOutKind,
	}
	const tol = 1e-9
	for _, kind := range kinds {
		if v := Ease(kind, 0); math.Abs(v) > tol {
			t.Errorf("%s: Ease(0) = %v, expected 0", kind, v)
		}
		if v := Ease(kind, 1); math.Abs(v-1) > tol {
			t.Errorf("%s: Ease(1) = %v, expected 1", kind, v)
		}
	}
	if v := Ease(models.EaseInOutKind, 0.5); math.Abs(v-0.5) > tol {
		t.Errorf("easeInOut(0.5) = %v, expected 0.5", v)
	}
}

func TestProgressiveRevealMonotonic(t *testing.T) {
	frames := GenerateFrames(testPoints(25), animConfig(2, 30, models.EaseInOutKind))
	if len(frames) == 0 {
		t.Fatal("Expected frames, got none")
	}

	prevOpaque := 0
	for i, frame := range frames {
		opaque := 0
		for _, p := range frame.Data {
			if p.Opacity == 1 {
				opaque++
			}
		}
		if opaque < prevOpaque {
			t.Fatalf("Frame %d: opaque point count decreased %d -> %d", i, prevOpaque, opaque)
		}
		prevOpaque = opaque
	}

	last := frames[len(frames)-1]
	if len(last.Data) != 25 {
		t.Errorf("Final frame should contain all points, got %d", len(last.Data))
	}
	for i, p := range last.Data {
		if p.Opacity != 1 {
			t.Errorf("Final frame point %d has opacity %v, expected 1", i, p.Opacity)
		}
	}
}

func TestRevealOrderFollowsX(t *testing.T) {
	points := []models.DataPoint{
		{X: 30, Y: 1, Size: 5},
		{X: 10, Y: 2, Size: 5},
		{X: 20, Y: 3, Size: 5},
	}
	frames := GenerateFrames(points, animConfig(1, 10, models.EaseLinear))

	for _, frame := range frames {
		for i := 1; i < len(frame.Data); i++ {
			if frame.Data[i].X < frame.Data[i-1].X {
				t.Fatalf("Frame data not ordered by x: %v before %v", frame.Data[i-1].X, frame.Data[i].X)
			}
		}
	}
}

func TestFrameProgressSpansUnitInterval(t *testing.T) {
	frames := GenerateFrames(testPoints(5), animConfig(1, 10, models.EaseLinear))
	if frames[0].Progress != 0 {
		t.Errorf("First frame progress = %v, expected 0", frames[0].Progress)
	}
	if frames[len(frames)-1].Progress != 1 {
		t.Errorf("Last frame progress = %v, expected 1", frames[len(frames)-1].Progress)
	}
}
