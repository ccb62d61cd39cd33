package probe

import (
	"context"
	"time"
)

// Info describes the basic properties of an audio stream.
type Info struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
	Codec      string
}

// Prober reads basic stream info from an audio file. Implementations must
// fail when the stream is not decodable at all; field-level sanity checks
// (positive duration, positive sample rate) belong to the caller.
//
// ShortDecode goes one step past the headers: it must decode roughly the
// first second of audio and fail when that yields no samples, so a
// truncated payload with intact headers is caught.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
	ShortDecode(ctx context.Context, path string) error
}
