package bundle

import "errors"

var (
	// ErrNotFound reports a source path that does not exist.
	ErrNotFound = errors.New("bundle not found")
	// ErrBadArchive reports an unreadable or malformed container, manifest,
	// or compressed member.
	ErrBadArchive = errors.New("bad archive")
	// ErrMissingAudioMember reports an archive whose manifest and entry list
	// yield no resolvable audio path.
	ErrMissingAudioMember = errors.New("missing audio member")
	// ErrEncryptedUnsupported reports a manifest with the encrypted flag
	// set. The flag is a reserved extension point; serving ciphertext as
	// audio would be worse than refusing.
	ErrEncryptedUnsupported = errors.New("encrypted bundles not supported")
)
