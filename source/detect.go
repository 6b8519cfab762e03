package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Signatures checked by Detect
var (
	socSignature   = []byte{0xFF, 0x4F}
	jp2Signature   = []byte{0x6A, 0x50, 0x20, 0x20} // "jP  " at offset 4
	dicomSignature = []byte("DICM")                 // after the 128-byte preamble
)

const (
	dicomPreamble = 128
	sniffLen      = dicomPreamble + 4
)

// Detect identifies the format of r from its leading bytes
func Detect(r io.ReaderAt, size int64) (Format, error) {
	n := int64(sniffLen)
	if size < n {
		n = size
	}
	head := make([]byte, n)
	got, err := r.ReadAt(head, 0)
	if int64(got) < n && err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read signature: %w", err)
	}
	head = head[:got]

	switch {
	case bytes.HasPrefix(head, socSignature):
		return FormatJ2C, nil
	case len(head) >= 8 && bytes.Equal(head[4:8], jp2Signature):
		return FormatJP2, nil
	case len(head) >= sniffLen && bytes.Equal(head[dicomPreamble:sniffLen], dicomSignature):
		return FormatDICOM, nil
	}
	return "", fmt.Errorf("%w: leading bytes % X", ErrUnknownFormat, head[:min(len(head), 8)])
}
