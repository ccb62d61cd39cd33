// Package probe inspects audio streams for the integrity checker.
//
// Two implementations are provided. The native prober parses stream headers
// in-process (WAV directly, everything else via audiometa) and needs no
// external tooling. The ffprobe prober shells out to ffprobe and parses its
// JSON output; it covers formats the native path cannot and is selected
// with integrity.prober = "ffprobe".
package probe
