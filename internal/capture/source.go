package capture

import (
	"context"
	"image"
)

// FrameSource is the live chart region the pipeline records. Snapshot returns
// whatever is currently rendered; the pipeline never synchronizes with the
// renderer, it captures the screen as-is.
type FrameSource interface {
	Bounds() (width, height int)
	Snapshot(ctx context.Context) (image.Image, error)
}

// StatusSink receives progress percentages and status transitions from an
// export operation. Implementations must be safe for concurrent use.
type StatusSink interface {
	Progress(percent int)
	Status(message string)
}

// NopSink discards all updates
type NopSink struct{}

func (NopSink) Progress(int)  {}
func (NopSink) Status(string) {}
