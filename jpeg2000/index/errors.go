package index

import "errors"

var (
	// ErrUnexpectedEOF is returned when fewer bytes remain than a read requires
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrInvalidSeek is returned when a seek would leave the source bounds
	ErrInvalidSeek = errors.New("seek outside source bounds")
)
