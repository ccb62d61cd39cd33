package bundle

import (
	"bytes"
	"encoding/binary"
	"math"
)

// DemoAudioWAV synthesizes a mono 16-bit PCM WAV sine tone. It gives the
// create command and tests a self-contained, decodable payload.
func DemoAudioWAV(seconds float64) []byte {
	const (
		sampleRate = 16000
		freq       = 440.0
	)
	n := int(seconds * sampleRate)
	if n < 1 {
		n = 1
	}

	var pcm bytes.Buffer
	for i := 0; i < n; i++ {
		sample := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		_ = binary.Write(&pcm, binary.LittleEndian, int16(sample*12000))
	}

	dataLen := uint32(pcm.Len())
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(pcm.Bytes())
	return buf.Bytes()
}

// DemoSegments returns a short transcript suitable for a sample bundle.
func DemoSegments() []TranscriptSegment {
	return []TranscriptSegment{
		{StartTime: 0.0, EndTime: 2.5, Text: "Welcome to the demo bundle.", Speaker: "narrator", Confidence: 1.0},
		{StartTime: 2.5, EndTime: 5.0, Text: "This transcript is synchronized with the audio.", Speaker: "narrator", Confidence: 0.97},
		{StartTime: 5.0, EndTime: 8.0, Text: "Each line is an independent JSON record.", Speaker: "narrator", Confidence: 0.99},
	}
}

// DemoMetadata returns sample free-form metadata.
func DemoMetadata() map[string]any {
	return map[string]any{
		"title":       "Demo Bundle",
		"description": "Synthesized sample produced by bc1 create --demo",
		"language":    "en",
	}
}
