package bundle

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bc1/internal/logging"
	"bc1/internal/manifest"
)

// Writer assembles BC1 archives. Members are written in a fixed order —
// manifest, audio, compressed transcript, metadata — and checksums are
// computed over the uncompressed payloads before serialization. That
// ordering and naming is the compatibility contract loaders rely on.
type Writer struct {
	logger *slog.Logger
}

// NewWriter constructs a Writer. A nil logger means no logging.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logging.OrNop(logger)}
}

// Create builds a new archive in memory. audioFormat is the payload codec
// hint ("opus", "mp3", ...); metadata may be nil.
func (w *Writer) Create(audio []byte, audioFormat string, segments []TranscriptSegment, metadata map[string]any) ([]byte, error) {
	if len(audio) == 0 {
		return nil, errors.New("refusing to write bundle without audio payload")
	}
	audioFormat = strings.TrimSpace(audioFormat)
	if audioFormat == "" {
		audioFormat = "bin"
	}

	transcript, err := EncodeTranscript(segments)
	if err != nil {
		return nil, err
	}

	audioMember := "audio/audio." + audioFormat
	mf := manifest.Manifest{
		Version:            manifest.CurrentVersion,
		AudioFormat:        audioFormat,
		TranscriptFormat:   "jsonl",
		ChecksumAudio:      hashHex(audio),
		ChecksumTranscript: hashHex(transcript),
		AudioFile:          audioMember,
		TranscriptFile:     manifest.DefaultTranscriptMember,
	}
	if metadata != nil {
		mf.MetadataFile = manifest.DefaultMetadataMember
	}

	manifestData, err := manifest.Encode(mf)
	if err != nil {
		return nil, err
	}

	compressed, err := gzipBytes(transcript)
	if err != nil {
		return nil, fmt.Errorf("compress transcript: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	writeMember := func(name string, data []byte) error {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create member %s: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write member %s: %w", name, err)
		}
		return nil
	}

	if err := writeMember(manifest.MemberName, manifestData); err != nil {
		return nil, err
	}
	if err := writeMember(audioMember, audio); err != nil {
		return nil, err
	}
	if err := writeMember(manifest.DefaultTranscriptMember, compressed); err != nil {
		return nil, err
	}
	if metadata != nil {
		metadataData, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		if err := writeMember(manifest.DefaultMetadataMember, metadataData); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	w.logger.Debug("bundle written",
		"audio_bytes", len(audio),
		"segments", len(segments),
		"archive_bytes", buf.Len())
	return buf.Bytes(), nil
}

// CreateFile writes a new archive to path.
func (w *Writer) CreateFile(path string, audio []byte, audioFormat string, segments []TranscriptSegment, metadata map[string]any) error {
	data, err := w.Create(audio, audioFormat, segments, metadata)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write bundle file: %w", err)
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
