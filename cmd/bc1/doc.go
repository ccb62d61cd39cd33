// Package main hosts the bc1 CLI entrypoint and command graph.
//
// The Cobra-based command tree covers bundle authoring (create), reading
// (inspect, extract), validation, the directory catalog (index, search),
// temp-file reclamation (sweep), and configuration scaffolding. It
// centralizes configuration resolution, logger construction, and
// temp-resource lifecycle so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
