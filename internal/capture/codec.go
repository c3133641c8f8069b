package capture

import "fmt"

// Format identifies an export artifact container
type Format string

const (
	FormatWebM Format = "webm"
	FormatMKV  Format = "mkv"
	FormatGIF  Format = "gif"
	FormatHTML Format = "html"
)

// Codec describes the track written into a video container
type Codec struct {
	Format   Format
	CodecID  string
	MimeType string
}

// CodecRegistry answers which container formats the running build can
// produce. The default pure-Go build writes motion-JPEG tracks into Matroska
// containers for both mkv and webm targets; real VP9/H.264 encoders can be
// registered by alternate builds.
type CodecRegistry interface {
	Lookup(f Format) (Codec, bool)
}

type mapRegistry map[Format]Codec

func (m mapRegistry) Lookup(f Format) (Codec, bool) {
	c, ok := m[f]
	return c, ok
}

// DefaultRegistry supports webm and mkv via the built-in Matroska muxer
func DefaultRegistry() CodecRegistry {
	return mapRegistry{
		FormatWebM: {Format: FormatWebM, CodecID: "V_MJPEG", MimeType: "video/webm"},
		FormatMKV:  {Format: FormatMKV, CodecID: "V_MJPEG", MimeType: "video/x-matroska"},
	}
}

// RegistryWithout returns a registry lacking the given formats, for platforms
// (or tests) where a container is unavailable.
func RegistryWithout(base CodecRegistry, missing ...Format) CodecRegistry {
	out := mapRegistry{}
	for _, f := range []Format{FormatWebM, FormatMKV} {
		if c, ok := base.Lookup(f); ok {
			out[f] = c
		}
	}
	for _, f := range missing {
		delete(out, f)
	}
	return out
}

// selectCodec resolves the requested video format against the registry.
// An unsupported mkv request transparently falls back to webm; the fallback
// is reported through the status sink, not as an error.
func selectCodec(reg CodecRegistry, requested Format, status StatusSink) (Codec, error) {
	if c, ok := reg.Lookup(requested); ok {
		return c, nil
	}
	if requested == FormatMKV {
		if c, ok := reg.Lookup(FormatWebM); ok {
			status.Status("MKV not supported on this platform, falling back to WebM")
			return c, nil
		}
	}
	return Codec{}, fmt.Errorf("no encoder available for format %q", requested)
}
