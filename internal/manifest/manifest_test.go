package manifest_test

import (
	"testing"

	"bc1/internal/manifest"
)

func TestParseGeneration1(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"encrypted": false,
		"audio_format": "opus",
		"transcript_format": "jsonl",
		"checksum_audio": "",
		"checksum_transcript": ""
	}`)

	m, err := manifest.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", m.Generation())
	}
	if m.AudioFormat != "opus" {
		t.Fatalf("audio_format = %q", m.AudioFormat)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := manifest.Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveMembersGeneration1(t *testing.T) {
	m := manifest.Manifest{Version: "1.0", AudioFormat: "mp3"}
	entries := []string{
		"manifest.json",
		"audio/",
		"audio/audio.mp3",
		"data/transcript.jsonl.gz",
		"data/metadata.json",
	}

	members := m.ResolveMembers(entries)
	if members.Audio != "audio/audio.mp3" {
		t.Fatalf("audio = %q", members.Audio)
	}
	if members.Transcript != manifest.DefaultTranscriptMember {
		t.Fatalf("transcript = %q", members.Transcript)
	}
	if members.Metadata != manifest.DefaultMetadataMember {
		t.Fatalf("metadata = %q", members.Metadata)
	}
}

func TestResolveMembersGeneration2(t *testing.T) {
	m := manifest.Manifest{
		Version:        "2.0",
		AudioFile:      "clip.m4a",
		TranscriptFile: "text/segments.jsonl.gz",
	}
	entries := []string{"manifest.json", "clip.m4a", "text/segments.jsonl.gz", "audio/decoy.mp3"}

	if m.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", m.Generation())
	}
	members := m.ResolveMembers(entries)
	if members.Audio != "clip.m4a" {
		t.Fatalf("explicit audio path must win, got %q", members.Audio)
	}
	if members.Transcript != "text/segments.jsonl.gz" {
		t.Fatalf("transcript = %q", members.Transcript)
	}
	if members.Metadata != "" {
		t.Fatalf("metadata should be absent, got %q", members.Metadata)
	}
}

func TestResolveMembersMissingAudio(t *testing.T) {
	m := manifest.Manifest{Version: "1.0"}
	members := m.ResolveMembers([]string{"manifest.json", "data/transcript.jsonl.gz"})
	if members.Audio != "" {
		t.Fatalf("audio should be unresolved, got %q", members.Audio)
	}
}

func TestResolveMembersExplicitPathMissingFromArchive(t *testing.T) {
	m := manifest.Manifest{AudioFile: "clip.m4a"}
	members := m.ResolveMembers([]string{"manifest.json", "audio/other.mp3"})
	// An explicit path that the archive does not contain is unresolved, not
	// silently replaced by generation-1 inference.
	if members.Audio != "" {
		t.Fatalf("audio = %q, want unresolved", members.Audio)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := manifest.Manifest{
		Version:            manifest.CurrentVersion,
		AudioFormat:        "opus",
		TranscriptFormat:   "jsonl",
		ChecksumAudio:      "abc123",
		ChecksumTranscript: "def456",
		AudioFile:          "audio/audio.opus",
		Flags:              map[string]any{"lang": "he"},
	}

	data, err := manifest.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := manifest.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out.Version != in.Version || out.ChecksumAudio != in.ChecksumAudio || out.AudioFile != in.AudioFile {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.Flags["lang"] != "he" {
		t.Fatalf("flags lost: %+v", out.Flags)
	}
}
