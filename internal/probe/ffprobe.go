package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFprobe shells out to the ffprobe binary and decodes its JSON output.
type FFprobe struct {
	binary string
}

// NewFFprobe constructs an exec-based prober. An empty binary means
// "ffprobe" on PATH.
func NewFFprobe(binary string) *FFprobe {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{binary: binary}
}

type ffprobeOutput struct {
	Streams []struct {
		CodecName  string `json:"codec_name"`
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *FFprobe) Probe(ctx context.Context, path string) (Info, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Info{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams",
		"-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return Info{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	for _, stream := range parsed.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		info := Info{
			Channels: stream.Channels,
			Codec:    stream.CodecName,
		}
		if rate, err := strconv.Atoi(stream.SampleRate); err == nil {
			info.SampleRate = rate
		}
		duration := stream.Duration
		if duration == "" {
			duration = parsed.Format.Duration
		}
		if seconds, err := strconv.ParseFloat(duration, 64); err == nil {
			info.Duration = time.Duration(seconds * float64(time.Second))
		}
		return info, nil
	}
	return Info{}, fmt.Errorf("ffprobe: no audio stream in %s", path)
}

// ShortDecode asks ffprobe to decode the frames inside the first second of
// the stream. Header-only truncated files produce no frames and fail.
func (p *FFprobe) ShortDecode(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error", "-hide_banner",
		"-select_streams", "a:0",
		"-show_frames", "-read_intervals", "%+1",
		"-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffprobe decode: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var parsed struct {
		Frames []json.RawMessage `json:"frames"`
	}
	if err := json.Unmarshal(output, &parsed); err != nil {
		return fmt.Errorf("ffprobe decode parse: %w", err)
	}
	if len(parsed.Frames) == 0 {
		return fmt.Errorf("ffprobe decode: no audio frames in the first second of %s", path)
	}
	return nil
}
