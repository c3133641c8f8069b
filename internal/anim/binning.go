package anim

import (
	"fmt"
	"math"
)

// BinNumericColumn converts a continuous numeric column into contiguous
// equal-width bins and returns one label per input value. Labels are of the
// form "lo–hi" formatted to one decimal. The maximum value always lands in
// the last bin rather than falling off the upper boundary.
func BinNumericColumn(values []float64, numBins int) []string {
	labels := make([]string, len(values))
	if len(values) == 0 {
		return labels
	}
	if numBins < 2 {
		numBins = 2
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	width := (max - min) / float64(numBins)
	if width == 0 {
		label := binLabel(min, max)
		for i := range labels {
			labels[i] = label
		}
		return labels
	}

	for i, v := range values {
		idx := int(math.Floor((v - min) / width))
		if idx >= numBins {
			idx = numBins - 1
		}
		lo := min + float64(idx)*width
		hi := lo + width
		labels[i] = binLabel(lo, hi)
	}
	return labels
}

func binLabel(lo, hi float64) string {
	return fmt.Sprintf("%.1f-%.1f", lo, hi)
}
