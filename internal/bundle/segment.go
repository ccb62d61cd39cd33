package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"bc1/internal/logging"
)

// Word is one word-level timing record inside a segment.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptSegment is one timed transcript record. Segments are created
// once per transcript line at load time and are immutable thereafter.
type TranscriptSegment struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker,omitempty"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// segmentRecord accepts the field aliases seen in historical transcript
// streams: start/start_time, end/end_time, speaker_id/speaker. Pointers
// distinguish absent from zero.
type segmentRecord struct {
	StartTime  *float64 `json:"start_time"`
	Start      *float64 `json:"start"`
	EndTime    *float64 `json:"end_time"`
	End        *float64 `json:"end"`
	Text       *string  `json:"text"`
	Speaker    *string  `json:"speaker"`
	SpeakerID  *string  `json:"speaker_id"`
	Confidence *float64 `json:"confidence"`
	Words      []Word   `json:"words"`
}

func parseSegmentLine(line []byte) (TranscriptSegment, error) {
	var rec segmentRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return TranscriptSegment{}, fmt.Errorf("invalid json: %w", err)
	}

	start := firstFloat(rec.StartTime, rec.Start)
	end := firstFloat(rec.EndTime, rec.End)
	if start == nil || end == nil || rec.Text == nil {
		return TranscriptSegment{}, fmt.Errorf("missing required field (start_time, end_time, text)")
	}

	seg := TranscriptSegment{
		StartTime:  *start,
		EndTime:    *end,
		Text:       strings.TrimSpace(*rec.Text),
		Confidence: 1.0,
		Words:      rec.Words,
	}
	if rec.Speaker != nil {
		seg.Speaker = *rec.Speaker
	} else if rec.SpeakerID != nil {
		seg.Speaker = *rec.SpeakerID
	}
	if rec.Confidence != nil {
		seg.Confidence = *rec.Confidence
	}
	return seg, nil
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// ParseTranscript splits an uncompressed transcript stream into lines and
// parses each line as an independent JSON record. A malformed line is
// skipped with a warning; it never aborts the stream.
func ParseTranscript(data []byte, logger *slog.Logger) []TranscriptSegment {
	logger = logging.OrNop(logger)
	var segments []TranscriptSegment
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		seg, err := parseSegmentLine(line)
		if err != nil {
			logger.Warn("skipping malformed transcript line", "line", i+1, "error", err)
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// EncodeTranscript serializes segments as newline-delimited JSON, one record
// per line. This is the uncompressed stream the transcript checksum covers.
func EncodeTranscript(segments []TranscriptSegment) ([]byte, error) {
	var buf bytes.Buffer
	for i, seg := range segments {
		line, err := json.Marshal(seg)
		if err != nil {
			return nil, fmt.Errorf("encode segment %d: %w", i, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
