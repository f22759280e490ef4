package twiml

import "errors"

// Builder errors. Every error returned by a verb builder wraps exactly one of
// these sentinels, so callers can classify failures with errors.Is without
// parsing messages.
var (
	// ErrInvalidEnumValue reports a voice or language value outside the
	// supported set.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrMissingAttribute reports a required attribute or required nested
	// content that was left empty.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrMissingCallback reports a callback target that could not be
	// resolved to an absolute URL.
	ErrMissingCallback = errors.New("callback target not resolved")

	// ErrTranscriptionConfig reports a Record with transcription enabled
	// but no transcription callback to deliver the text to.
	ErrTranscriptionConfig = errors.New("transcription enabled without transcription callback")

	// ErrInvalidNesting reports a child fragment that is not allowed inside
	// the verb it was passed to.
	ErrInvalidNesting = errors.New("verb not allowed here")
)
