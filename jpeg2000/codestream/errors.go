package codestream

import "errors"

var (
	// ErrNotCodestream is returned when the input does not start with SOC
	ErrNotCodestream = errors.New("not a JPEG 2000 codestream")

	// ErrMissingSegment is returned when a required main header segment is absent
	ErrMissingSegment = errors.New("missing required marker segment")

	// ErrTruncated is returned when the input ends inside the main header
	ErrTruncated = errors.New("codestream truncated")

	// ErrInvalidSegment is returned when a segment carries values that cannot describe an image
	ErrInvalidSegment = errors.New("invalid marker segment")
)
