// Package manifest defines the versioned descriptor stored as the first
// member of a BC1 archive and the rules for locating the remaining members.
//
// Two manifest generations are in the wild. Generation-1 manifests carry no
// member paths: the audio member is found by scanning archive entries for
// the first path under "audio/", and transcript/metadata live at fixed
// paths. Generation-2 manifests name their members explicitly. The
// discriminator is the presence of audio_file in the parsed manifest, never
// the version string.
package manifest
