package probe_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bc1/internal/bundle"
	"bc1/internal/probe"
)

func TestNativeProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, bundle.DemoAudioWAV(2.0), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := probe.NewNative().Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.SampleRate != 16000 {
		t.Fatalf("sample rate = %d, want 16000", info.SampleRate)
	}
	if info.Channels != 1 {
		t.Fatalf("channels = %d, want 1", info.Channels)
	}
	if info.Duration < 1900*time.Millisecond || info.Duration > 2100*time.Millisecond {
		t.Fatalf("duration = %s, want ~2s", info.Duration)
	}
}

func TestNativeProbeRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("definitely not riff"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := probe.NewNative().Probe(context.Background(), path); err == nil {
		t.Fatal("expected error for non-WAV bytes")
	}
}

func TestNativeProbeHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := probe.NewNative().Probe(ctx, "whatever.wav"); err == nil {
		t.Fatal("expected context error")
	}
}

// hollowWAV builds coherent headers whose data chunk claims sample bytes
// that are not present on disk.
func hollowWAV(claimedDataLen uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+claimedDataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16000))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(32000))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, claimedDataLen)
	return buf.Bytes()
}

func TestNativeShortDecodeAcceptsRealSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, bundle.DemoAudioWAV(2.0), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := probe.NewNative().ShortDecode(context.Background(), path); err != nil {
		t.Fatalf("ShortDecode: %v", err)
	}
}

func TestNativeShortDecodeRejectsHollowDataChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hollow.wav")
	if err := os.WriteFile(path, hollowWAV(50*32000), 0o644); err != nil {
		t.Fatal(err)
	}

	// The headers alone still probe as 50 seconds of PCM.
	info, err := probe.NewNative().Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Duration != 50*time.Second {
		t.Fatalf("claimed duration = %s, want 50s", info.Duration)
	}

	if err := probe.NewNative().ShortDecode(context.Background(), path); err == nil {
		t.Fatal("expected error for data chunk with no sample bytes")
	}
}

func TestNativeShortDecodeRejectsEmptyDataChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := os.WriteFile(path, hollowWAV(0), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := probe.NewNative().ShortDecode(context.Background(), path); err == nil {
		t.Fatal("expected error for zero-length data chunk")
	}
}

func TestNativeProbeSkipsOddSizedChunks(t *testing.T) {
	// An odd-sized chunk before fmt/data carries a RIFF padding byte; the
	// walker must stay aligned across it.
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.WriteString("WAVE")
	buf.WriteString("LIST")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(7))
	buf.Write(make([]byte, 8)) // 7 bytes + 1 padding byte
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16000))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(32000))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	path := filepath.Join(t.TempDir(), "padded.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := probe.NewNative().Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 {
		t.Fatalf("fmt chunk misparsed after odd-sized chunk: %+v", info)
	}
	if err := probe.NewNative().ShortDecode(context.Background(), path); err != nil {
		t.Fatalf("ShortDecode: %v", err)
	}
}
