package source

import (
	"bytes"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging"
)

// maxLargeObject bounds the pixel data element read by the DICOM parser
const maxLargeObject = 1 << 30

// jpeg2000Syntaxes lists the transfer syntaxes whose frames are JPEG 2000
// codestreams (Part 1, Part 2 multi-component and HTJ2K)
var jpeg2000Syntaxes = []*transfer.Syntax{
	transfer.JPEG2000Lossless,
	transfer.JPEG2000,
	transfer.JPEG2000Part2MultiComponentLosslessOnly,
	transfer.JPEG2000Part2MultiComponent,
	transfer.HTJ2KLossless,
	transfer.HTJ2KLosslessRPCL,
	transfer.HTJ2K,
}

// IsJPEG2000Syntax reports whether uid names a JPEG 2000 family transfer syntax
func IsJPEG2000Syntax(uid string) bool {
	for _, ts := range jpeg2000Syntaxes {
		if ts.UID().UID() == uid {
			return true
		}
	}
	return false
}

// dicomOpener extracts one encapsulated frame from a DICOM file
type dicomOpener struct{}

func (dicomOpener) Format() Format {
	return FormatDICOM
}

func (dicomOpener) Open(in Input, opts Options) (*Source, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("%w: DICOM input must be a file", ErrInvalidOption)
	}
	if opts.Offset != 0 {
		return nil, fmt.Errorf("%w: offset is not supported for DICOM input", ErrInvalidOption)
	}

	res, err := parser.ParseFile(in.Path,
		parser.WithReadOption(parser.ReadAll),
		parser.WithLargeObjectSize(maxLargeObject),
	)
	if err != nil {
		return nil, fmt.Errorf("parse DICOM: %w", err)
	}

	ts := res.TransferSyntax
	if ts == nil || !ts.IsEncapsulated() {
		return nil, fmt.Errorf("%w: pixel data is not encapsulated", ErrNotJPEG2000)
	}
	uid := ts.UID().UID()
	if !IsJPEG2000Syntax(uid) {
		return nil, fmt.Errorf("%w: %s", ErrNotJPEG2000, uid)
	}

	ds := res.Dataset
	pd, err := imaging.CreatePixelData(ds)
	if err != nil {
		return nil, fmt.Errorf("read pixel data: %w", err)
	}
	numFrames := pd.FrameCount()
	if opts.Frame >= numFrames {
		return nil, fmt.Errorf("%w: frame %d of %d (%dx%d)", ErrFrameOutOfRange, opts.Frame, numFrames,
			ds.TryGetUInt16(tag.Columns, 0), ds.TryGetUInt16(tag.Rows, 0))
	}
	frame, err := pd.GetFrame(opts.Frame)
	if err != nil {
		return nil, fmt.Errorf("get frame %d: %w", opts.Frame, err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("%w: frame %d is empty", ErrNoCodestream, opts.Frame)
	}

	return &Source{
		r:    bytes.NewReader(frame),
		size: int64(len(frame)),
		container: Container{
			Format:         FormatDICOM,
			Offset:         -1,
			TransferSyntax: uid,
			Frame:          opts.Frame,
			NumFrames:      numFrames,
		},
	}, nil
}
