package source

import "errors"

var (
	// ErrUnknownFormat is returned when auto-detection matches no known signature
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrNoCodestream is returned when a container holds no JPEG 2000 codestream
	ErrNoCodestream = errors.New("no codestream in container")

	// ErrOpenerNotFound is returned when no opener is registered for a format
	ErrOpenerNotFound = errors.New("opener not found")

	// ErrFrameOutOfRange is returned when the requested frame does not exist
	ErrFrameOutOfRange = errors.New("frame out of range")

	// ErrNotJPEG2000 is returned when a DICOM file is not JPEG 2000 encapsulated
	ErrNotJPEG2000 = errors.New("transfer syntax is not JPEG 2000")

	// ErrInvalidOption is returned when Options fail validation
	ErrInvalidOption = errors.New("invalid option")
)
