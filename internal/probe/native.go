package probe

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/simonhull/audiometa"
)

// Native parses stream headers in-process. WAV payloads are handled
// directly; compressed formats go through audiometa.
type Native struct{}

// NewNative constructs the in-process prober.
func NewNative() *Native {
	return &Native{}
}

func (n *Native) Probe(ctx context.Context, path string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		w, err := parseWAV(path)
		if err != nil {
			return Info{}, err
		}
		return w.info(), nil
	}

	f, err := audiometa.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	defer f.Close()

	return Info{
		Duration:   f.Audio.Duration,
		SampleRate: f.Audio.SampleRate,
		Channels:   f.Audio.Channels,
		Codec:      f.Audio.Codec,
	}, nil
}

// ShortDecode reads actual sample data instead of trusting the headers. For
// WAV it pulls up to the first second out of the data chunk and requires
// non-empty sample bytes inside the file's real extent, so a truncated
// payload with an intact header fails here. Compressed formats derive their
// stream info from frame scans in audiometa, so a successful parse with
// positive duration has already touched payload bytes.
func (n *Native) ShortDecode(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return shortDecodeWAV(path)
	}

	f, err := audiometa.Open(path)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	defer f.Close()
	if f.Audio.Duration <= 0 {
		return fmt.Errorf("decode %s: stream yielded no audio frames", path)
	}
	return nil
}

// wavStream is the parsed shape of a RIFF/WAVE file: the fmt chunk fields
// plus where the sample data actually sits on disk.
type wavStream struct {
	sampleRate    uint32
	channels      uint16
	bitsPerSample uint16
	byteRate      uint32
	dataOffset    int64
	dataLen       uint32
	haveData      bool
	fileSize      int64
}

func (w *wavStream) info() Info {
	out := Info{
		SampleRate: int(w.sampleRate),
		Channels:   int(w.channels),
		Codec:      "pcm",
	}
	if w.byteRate > 0 {
		out.Duration = time.Duration(float64(w.dataLen) / float64(w.byteRate) * float64(time.Second))
	}
	return out
}

// parseWAV walks the RIFF chunk list. Chunk contents are read with
// io.ReadFull so a short read is an error, and odd-sized chunks skip their
// RIFF padding byte to stay aligned.
func parseWAV(path string) (*wavStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	w := &wavStream{fileSize: stat.Size()}

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, fmt.Errorf("probe wav %s: %w", path, err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, fmt.Errorf("probe wav %s: not a RIFF/WAVE stream", path)
	}

	var (
		offset  = int64(12)
		chunk   = make([]byte, 8)
		haveFmt bool
	)
	for {
		if _, err := io.ReadFull(f, chunk); err != nil {
			break
		}
		offset += 8
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])
		// RIFF chunks are word-aligned; an odd size carries a padding byte.
		next := offset + int64(size) + int64(size%2)

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("probe wav %s: truncated fmt chunk", path)
			}
			body := make([]byte, 16)
			if _, err := io.ReadFull(f, body); err != nil {
				return nil, fmt.Errorf("probe wav %s: truncated fmt chunk: %w", path, err)
			}
			w.channels = binary.LittleEndian.Uint16(body[2:4])
			w.sampleRate = binary.LittleEndian.Uint32(body[4:8])
			w.byteRate = binary.LittleEndian.Uint32(body[8:12])
			w.bitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			haveFmt = true
		case "data":
			w.dataOffset = offset
			w.dataLen = size
			w.haveData = true
		}

		if _, err := f.Seek(next, io.SeekStart); err != nil {
			return nil, err
		}
		offset = next
	}

	if !haveFmt || w.sampleRate == 0 {
		return nil, fmt.Errorf("probe wav %s: missing fmt chunk", path)
	}
	if w.byteRate == 0 {
		w.byteRate = w.sampleRate * uint32(w.channels) * uint32(w.bitsPerSample) / 8
	}
	return w, nil
}

// shortDecodeWAV requires readable sample bytes. The data chunk's declared
// length is capped to what the file actually holds, so a header that claims
// more audio than exists on disk does not pass on the header's word alone.
func shortDecodeWAV(path string) error {
	w, err := parseWAV(path)
	if err != nil {
		return err
	}
	if !w.haveData || w.dataLen == 0 {
		return fmt.Errorf("decode wav %s: no sample data", path)
	}

	avail := w.fileSize - w.dataOffset
	if avail > int64(w.dataLen) {
		avail = int64(w.dataLen)
	}
	if avail <= 0 {
		return fmt.Errorf("decode wav %s: data chunk claims %d bytes but the file ends at its header", path, w.dataLen)
	}

	want := int64(w.byteRate) // one second of samples
	if want <= 0 || want > avail {
		want = avail
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, want)
	if _, err := f.ReadAt(buf, w.dataOffset); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}
	return nil
}
