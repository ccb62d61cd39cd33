package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fixed member names inside the archive. MemberName is required; the
// generation-1 defaults apply when the manifest names nothing better.
const (
	MemberName              = "manifest.json"
	DefaultTranscriptMember = "data/transcript.jsonl.gz"
	DefaultMetadataMember   = "data/metadata.json"

	audioPrefix = "audio/"
)

// CurrentVersion is the format version the writer emits.
const CurrentVersion = "2.0"

// Manifest is the versioned bundle descriptor. It is immutable once parsed:
// the loader passes it around by value and never writes it back.
type Manifest struct {
	Version            string         `json:"version"`
	Encrypted          bool           `json:"encrypted"`
	AudioFormat        string         `json:"audio_format"`
	TranscriptFormat   string         `json:"transcript_format"`
	ChecksumAudio      string         `json:"checksum_audio"`
	ChecksumTranscript string         `json:"checksum_transcript"`
	Flags              map[string]any `json:"flags,omitempty"`

	// Generation-2 explicit member paths. Absent in generation-1 manifests.
	AudioFile      string `json:"audio_file,omitempty"`
	TranscriptFile string `json:"transcript_file,omitempty"`
	MetadataFile   string `json:"metadata_file,omitempty"`
}

// Members holds the resolved archive paths of a bundle's parts. Transcript
// and Metadata are empty when the archive carries neither an explicit path
// nor the generation-1 default member.
type Members struct {
	Audio      string
	Transcript string
	Metadata   string
}

// Parse deserializes a manifest member.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// Encode serializes a manifest for writing as the archive's first member.
func Encode(m Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// Generation reports the manifest generation: 2 when an explicit audio path
// is present, 1 otherwise.
func (m Manifest) Generation() int {
	if strings.TrimSpace(m.AudioFile) != "" {
		return 2
	}
	return 1
}

// ResolveMembers derives member paths from the manifest and the archive's
// entry list. Explicit manifest paths take precedence field by field;
// everything else falls back to generation-1 inference. A bundle without a
// resolvable audio member yields Members.Audio == "".
func (m Manifest) ResolveMembers(entries []string) Members {
	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[e] = struct{}{}
	}

	var out Members

	if explicit := strings.TrimSpace(m.AudioFile); explicit != "" {
		if _, ok := present[explicit]; ok {
			out.Audio = explicit
		}
	} else {
		for _, e := range entries {
			if strings.HasPrefix(e, audioPrefix) && !strings.HasSuffix(e, "/") {
				out.Audio = e
				break
			}
		}
	}

	out.Transcript = resolveOptional(m.TranscriptFile, DefaultTranscriptMember, present)
	out.Metadata = resolveOptional(m.MetadataFile, DefaultMetadataMember, present)
	return out
}

func resolveOptional(explicit, fallback string, present map[string]struct{}) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if _, ok := present[explicit]; ok {
			return explicit
		}
		return ""
	}
	if _, ok := present[fallback]; ok {
		return fallback
	}
	return ""
}
