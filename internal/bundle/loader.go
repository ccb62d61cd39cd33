package bundle

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"bc1/internal/logging"
	"bc1/internal/manifest"
	"bc1/internal/tempres"
)

// Loader opens BC1 archives and materializes their audio payload through a
// temp-resource manager.
type Loader struct {
	temp   *tempres.Manager
	logger *slog.Logger
}

// NewLoader constructs a Loader. The manager is required; a nil logger means
// no logging.
func NewLoader(temp *tempres.Manager, logger *slog.Logger) *Loader {
	return &Loader{temp: temp, logger: logging.OrNop(logger)}
}

// Open loads a bundle from a file path.
func (l *Loader) Open(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bundle: %w", err)
	}
	return l.OpenReaderAt(f, info.Size())
}

// OpenBytes loads a bundle from an in-memory archive.
func (l *Loader) OpenBytes(data []byte) (*Bundle, error) {
	return l.OpenReaderAt(bytes.NewReader(data), int64(len(data)))
}

// OpenReaderAt loads a bundle from an already-open archive stream.
func (l *Loader) OpenReaderAt(r io.ReaderAt, size int64) (*Bundle, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}

	manifestData, err := readMember(archive, manifest.MemberName)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", ErrBadArchive, err)
	}
	mf, err := manifest.Parse(manifestData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	if mf.Encrypted {
		return nil, ErrEncryptedUnsupported
	}

	entries := make([]string, 0, len(archive.File))
	for _, f := range archive.File {
		entries = append(entries, f.Name)
	}
	members := mf.ResolveMembers(entries)
	if members.Audio == "" {
		return nil, fmt.Errorf("%w: generation-%d manifest resolved no audio path", ErrMissingAudioMember, mf.Generation())
	}

	audioData, err := readMember(archive, members.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio member %s: %v", ErrBadArchive, members.Audio, err)
	}

	checksumOK := true
	if want := strings.TrimSpace(mf.ChecksumAudio); want != "" {
		got := hashHex(audioData)
		if !strings.EqualFold(got, want) {
			// Documented behavior: a mismatch is surfaced, not fatal.
			checksumOK = false
			l.logger.Warn("audio checksum mismatch",
				"member", members.Audio, "expected", want, "actual", got)
		}
	}

	audioPath, err := l.temp.Create(audioData, audioExtension(members.Audio, mf.AudioFormat), tempres.PurposeAudio)
	if err != nil {
		return nil, err
	}
	// Past this point a temp file exists; every failure path must release it
	// before propagating.
	fail := func(err error) (*Bundle, error) {
		l.temp.Cleanup(audioPath)
		return nil, err
	}

	var segments []TranscriptSegment
	if members.Transcript != "" {
		compressed, err := readMember(archive, members.Transcript)
		if err != nil {
			return fail(fmt.Errorf("%w: read transcript member %s: %v", ErrBadArchive, members.Transcript, err))
		}
		raw, err := gunzip(compressed)
		if err != nil {
			return fail(fmt.Errorf("%w: decompress transcript: %v", ErrBadArchive, err))
		}
		if want := strings.TrimSpace(mf.ChecksumTranscript); want != "" {
			if got := hashHex(raw); !strings.EqualFold(got, want) {
				checksumOK = false
				l.logger.Warn("transcript checksum mismatch",
					"member", members.Transcript, "expected", want, "actual", got)
			}
		}
		segments = ParseTranscript(raw, l.logger)
	}

	var metadata map[string]any
	if members.Metadata != "" {
		metadataData, err := readMember(archive, members.Metadata)
		if err != nil {
			return fail(fmt.Errorf("%w: read metadata member %s: %v", ErrBadArchive, members.Metadata, err))
		}
		if err := json.Unmarshal(metadataData, &metadata); err != nil {
			return fail(fmt.Errorf("%w: parse metadata: %v", ErrBadArchive, err))
		}
	}

	l.logger.Debug("bundle loaded",
		"generation", mf.Generation(),
		"audio", audioPath,
		"segments", len(segments),
		"checksum_ok", checksumOK)

	return &Bundle{
		AudioFile:    audioPath,
		Segments:     segments,
		Metadata:     metadata,
		Manifest:     mf,
		ChecksumOK:   checksumOK,
		cleanupFiles: []string{audioPath},
		temp:         l.temp,
	}, nil
}

func readMember(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// audioExtension prefers the member path's extension, then the manifest's
// format hint.
func audioExtension(member, format string) string {
	if ext := strings.TrimPrefix(path.Ext(member), "."); ext != "" {
		return ext
	}
	if format = strings.TrimSpace(format); format != "" {
		return format
	}
	return "bin"
}
