// Package integrity validates standalone audio resources and full bundles.
//
// ValidateAudio checks a file on disk: existence, a size floor, and a
// decoding probe whose stream info must be sane. ValidateBundle performs a
// real open through the bundle loader — not a dry parse — validates the
// extracted audio member, and always cleans up the bundle's temp files,
// whatever the outcome. Validation is strict where the loader is lenient:
// a checksum mismatch fails the report here.
package integrity
