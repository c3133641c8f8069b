package anim

import "github.com/aeronauty/DataVisualiser/internal/models"

// Ease reparameterizes linear progress t in [0,1] by the selected curve.
// Unknown kinds fall back to linear.
func Ease(kind models.EasingKind, t float64) float64 {
	switch kind {
	case models.EaseIn:
		return t * t
	case models.EaseOut:
		return t * (2 - t)
	case models.EaseInOutKind:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	default:
		return t
	}
}
