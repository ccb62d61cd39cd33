// Package bundle reads and writes BC1 archives: a ZIP container holding a
// manifest, an audio payload, a gzip-compressed line-oriented transcript,
// and optional metadata.
//
// The Loader opens an archive from a path, a byte slice, or an io.ReaderAt,
// materializes the audio payload through the temp-resource manager, parses
// the transcript into segments, and returns a Bundle whose Cleanup method
// releases every temp file it created. The Writer is the inverse: it
// assembles the members in a fixed, deterministic order and computes
// checksums over the uncompressed payloads before finalizing.
//
// Structural failures (unreadable container, missing manifest, missing
// audio member) surface as typed errors; content-level anomalies (checksum
// mismatch, malformed transcript lines) are recovered locally and logged.
package bundle
