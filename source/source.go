// Package source exposes a JPEG 2000 codestream held in a raw .j2c/.j2k
// file, a JP2 container, a DICOM encapsulated frame or a memory buffer as a
// random-access byte range starting at the SOC marker.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Format identifies how the codestream is stored
type Format string

// Supported formats
const (
	FormatAuto  Format = "auto"
	FormatJ2C   Format = "j2c"
	FormatJP2   Format = "jp2"
	FormatDICOM Format = "dicom"
)

// ParseFormat converts a command line value into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJ2C, FormatJP2, FormatDICOM:
		return f, nil
	case "j2k":
		return FormatJ2C, nil
	case "dcm":
		return FormatDICOM, nil
	default:
		return "", fmt.Errorf("%w: format %q", ErrInvalidOption, s)
	}
}

// Options selects the input format and the location of the codestream
type Options struct {
	// Format of the input; empty or FormatAuto detects it from the signature
	Format Format

	// Offset of the data inside the input; bytes before it are ignored
	Offset int64

	// Frame index for multi-frame DICOM inputs (zero-based)
	Frame int
}

// Validate checks if the options are valid
func (o *Options) Validate() error {
	if _, err := ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if o.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidOption, o.Offset)
	}
	if o.Frame < 0 {
		return fmt.Errorf("%w: negative frame %d", ErrInvalidOption, o.Frame)
	}
	return nil
}

// Input is the byte range handed to an Opener
type Input struct {
	Path string // Empty for in-memory inputs
	R    io.ReaderAt
	Size int64
}

// Box is one top-level JP2 box
type Box struct {
	Type   string
	Offset int64 // Offset of the box header
	Length int64 // Whole box, header included
	Header int64 // 8, or 16 when the length is carried in XLBox
}

// Container describes where the codestream was found
type Container struct {
	Format Format

	// Offset of the codestream inside the input file; -1 when the
	// codestream was copied out of the file (DICOM fragments)
	Offset int64

	// JP2 only
	Boxes []Box
	UUIDs []uuid.UUID

	// DICOM only
	TransferSyntax string
	Frame          int
	NumFrames      int
}

// Source is a codestream exposed through io.ReaderAt. Offset 0 is the SOC marker.
type Source struct {
	r         io.ReaderAt
	size      int64
	container Container
	closer    io.Closer
}

// ReadAt implements io.ReaderAt over the codestream bytes
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

// Size returns the codestream length in bytes
func (s *Source) Size() int64 {
	return s.size
}

// Format returns the format the codestream was read from
func (s *Source) Format() Format {
	return s.container.Format
}

// Container returns details about the enclosing container
func (s *Source) Container() Container {
	return s.container
}

// Close releases the underlying file, if any
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// Open opens the file at path and locates its codestream
func Open(path string, opts Options) (*Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat input: %w", err)
	}

	src, err := open(Input{Path: path, R: f, Size: st.Size()}, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// FromBytes locates the codestream held in data
func FromBytes(data []byte, opts Options) (*Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return open(Input{R: bytes.NewReader(data), Size: int64(len(data))}, opts)
}

func open(in Input, opts Options) (*Source, error) {
	if opts.Offset > in.Size {
		return nil, fmt.Errorf("%w: offset %d beyond input size %d", ErrInvalidOption, opts.Offset, in.Size)
	}
	if opts.Offset > 0 {
		in.R = io.NewSectionReader(in.R, opts.Offset, in.Size-opts.Offset)
		in.Size -= opts.Offset
	}

	format, _ := ParseFormat(string(opts.Format))
	if format == FormatAuto {
		detected, err := Detect(in.R, in.Size)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	opener, err := Get(format)
	if err != nil {
		return nil, err
	}
	src, err := opener.Open(in, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s input: %w", format, err)
	}
	if src.container.Offset >= 0 {
		src.container.Offset += opts.Offset
	}
	return src, nil
}
