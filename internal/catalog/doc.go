// Package catalog maintains a SQLite index of discovered bundles.
//
// The scanner walks a directory tree for .bc1 files, opens each one through
// the bundle loader, and persists per-bundle rows plus per-segment rows the
// search query runs over. Re-scans skip files whose size and modification
// time are unchanged. Search is a case-insensitive substring match over
// indexed segment text; ranking is deliberately out of scope.
package catalog
