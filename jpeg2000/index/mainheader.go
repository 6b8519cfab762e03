package index

import (
	"errors"
	"io"

	"github.com/cocosip/go-j2kdump/jpeg2000/codestream"
)

// ScanMainHeader walks the codestream from offset 0 and records every marker
// segment up to, but excluding, the first SOT.
//
// Truncated or malformed input ends the walk early; the entries collected so
// far are returned with a nil error. Only failures of the underlying source
// are reported as errors.
func ScanMainHeader(r io.ReaderAt, size int64) ([]MarkerEntry, error) {
	c := NewCursor(r, size)
	var entries []MarkerEntry

	for {
		start := c.Position()
		code, err := c.ReadU16()
		if err != nil {
			return entries, softStop(err)
		}

		if code == codestream.MarkerSOT {
			return entries, nil
		}

		if code == codestream.MarkerSOC {
			entries = append(entries, MarkerEntry{Code: code, Offset: start, Length: 2})
			continue
		}

		length, err := c.ReadU16()
		if err != nil {
			return entries, softStop(err)
		}
		entries = append(entries, MarkerEntry{Code: code, Offset: start, Length: length})

		if length < 2 {
			return entries, nil
		}
		// length covers the two bytes already read
		if err := c.SeekRelative(int64(length) - 2); err != nil {
			return entries, nil
		}
	}
}

// softStop turns end-of-input into a normal end of scan.
func softStop(err error) error {
	if errors.Is(err, ErrUnexpectedEOF) {
		return nil
	}
	return err
}
