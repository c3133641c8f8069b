package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"time"

	"github.com/aeronauty/DataVisualiser/internal/logger"
)

// transcodeToGIF resamples the recorded frame sequence at a fixed GIF frame
// rate by timestamp: for each output instant the latest captured frame at or
// before it is selected, so uneven grab timing does not distort playback
// speed. Progress is reported in the 80-95% band; the preceding recording
// phase owns 0-80.
func transcodeToGIF(ctx context.Context, frames []capturedFrame, status StatusSink) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to transcode")
	}

	total := frames[len(frames)-1].at
	step := time.Second / gifSampleFPS
	samples := int(total/step) + 1
	delay := 100 / gifSampleFPS // centiseconds
	if delay < 2 {
		delay = 2
	}

	out := &gif.GIF{LoopCount: 0}
	cursor := 0
	for i := 0; i < samples; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		at := time.Duration(i) * step
		for cursor+1 < len(frames) && frames[cursor+1].at <= at {
			cursor++
		}

		out.Image = append(out.Image, quantize(frames[cursor].img))
		out.Delay = append(out.Delay, delay)

		status.Progress(80 + i*15/samples)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode GIF: %w", err)
	}
	logger.Debug("Transcoded GIF", map[string]interface{}{"samples": samples, "bytes": buf.Len()})
	status.Progress(95)
	return buf.Bytes(), nil
}

func quantize(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
	return p
}
