package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/at-wat/ebml-go/webm"
)

// targetBitrate is the nominal encoder budget. The JPEG quality below is
// tuned to land near this for typical chart surfaces at 20 FPS.
const (
	targetBitrate = 4_000_000
	jpegQuality   = 85
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// videoEncoder accumulates frames into a Matroska/WebM container. Frames are
// written in arrival order with their wall-clock timestamps.
type videoEncoder struct {
	buf    *bytes.Buffer
	writer webm.BlockWriteCloser
	closed bool
}

// newVideoEncoder starts an encoder session for one recording
func newVideoEncoder(codec Codec, width, height, fps int) (*videoEncoder, error) {
	buf := &bytes.Buffer{}

	writers, err := webm.NewSimpleBlockWriter(nopWriteCloser{buf}, []webm.TrackEntry{
		{
			Name:            "Video",
			TrackNumber:     1,
			TrackUID:        1,
			CodecID:         codec.CodecID,
			TrackType:       1,
			DefaultDuration: uint64(1_000_000_000 / fps),
			Video: &webm.Video{
				PixelWidth:  uint64(width),
				PixelHeight: uint64(height),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start encoder session: %w", err)
	}

	return &videoEncoder{buf: buf, writer: writers[0]}, nil
}

// writeFrame encodes one bitmap and appends it at the given timestamp (ms)
func (e *videoEncoder) writeFrame(img image.Image, timestampMS int64) error {
	var frame bytes.Buffer
	if err := jpeg.Encode(&frame, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if _, err := e.writer.Write(true, timestampMS, frame.Bytes()); err != nil {
		return fmt.Errorf("failed to append frame to container: %w", err)
	}
	return nil
}

// finalize flushes the container and returns the assembled bytes.
// Safe to call more than once; later calls return the already-assembled data.
func (e *videoEncoder) finalize() ([]byte, error) {
	if !e.closed {
		e.closed = true
		if err := e.writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize container: %w", err)
		}
	}
	return e.buf.Bytes(), nil
}
