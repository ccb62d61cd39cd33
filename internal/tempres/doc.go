// Package tempres owns the lifecycle of transient filesystem resources:
// creation with multi-location fallback, advisory locking, and reclamation.
//
// The bundle loader materializes extracted payloads through a Manager so a
// consumer (the playback engine) can read them from local storage. Every
// created file is tracked; unlocked files are reclaimed by an explicit
// Cleanup call or by the background sweep once they age out. Locking is
// advisory and application-level: consumers call MarkLocked before opening
// a path and MarkUnlocked when done. A consumer that skips this risks
// losing its file to a sweep.
//
// The tracker registry is guarded by a single mutex held only for registry
// mutation, never across file I/O.
package tempres
