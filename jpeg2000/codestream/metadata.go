package codestream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// initialWindow is the first prefix read by ReadMetadata; it doubles while
// the main header does not fit.
const initialWindow = 64 << 10

// defaultPrecinctExp is the precinct exponent used when COD carries no
// precinct sizes (maximal precincts, 2^15).
const defaultPrecinctExp = 15

// Point is a position or a sub-sampling factor on the reference grid
type Point struct {
	X, Y uint32
}

// Size is a width and height pair
type Size struct {
	W, H uint32
}

// Metadata is a read-only view of a parsed main header
type Metadata struct {
	header *MainHeader
}

// ReadMetadata parses the main header of the codestream held by r.
// Only a prefix of the source is read; it grows until the header fits.
func ReadMetadata(r io.ReaderAt, size int64) (*Metadata, error) {
	window := int64(initialWindow)
	for {
		if window > size {
			window = size
		}
		buf := make([]byte, window)
		n, err := r.ReadAt(buf, 0)
		if int64(n) < window {
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("read codestream prefix: %w", err)
		}

		h, err := NewParser(buf).ParseMainHeader()
		if err == nil {
			return &Metadata{header: h}, nil
		}
		if !errors.Is(err, ErrTruncated) || window == size {
			return nil, fmt.Errorf("parse main header: %w", err)
		}
		window *= 2
	}
}

// NewMetadata wraps an already parsed main header
func NewMetadata(h *MainHeader) *Metadata {
	return &Metadata{header: h}
}

// Header returns the underlying main header segments
func (m *Metadata) Header() *MainHeader {
	return m.header
}

// ImageOffset returns (XOsiz, YOsiz)
func (m *Metadata) ImageOffset() Point {
	return Point{X: m.header.SIZ.XOsiz, Y: m.header.SIZ.YOsiz}
}

// ImageExtent returns (Xsiz, Ysiz), the bottom-right corner of the image area
func (m *Metadata) ImageExtent() Point {
	return Point{X: m.header.SIZ.Xsiz, Y: m.header.SIZ.Ysiz}
}

// ImageSize returns the image width and height
func (m *Metadata) ImageSize() Size {
	siz := m.header.SIZ
	return Size{W: siz.Xsiz - siz.XOsiz, H: siz.Ysiz - siz.YOsiz}
}

// TileOffset returns (XTOsiz, YTOsiz)
func (m *Metadata) TileOffset() Point {
	return Point{X: m.header.SIZ.XTOsiz, Y: m.header.SIZ.YTOsiz}
}

// TileSize returns (XTsiz, YTsiz)
func (m *Metadata) TileSize() Size {
	return Size{W: m.header.SIZ.XTsiz, H: m.header.SIZ.YTsiz}
}

// TileCount returns the number of tiles across and down, computed from the
// image size alone
func (m *Metadata) TileCount() Size {
	img := m.ImageSize()
	tile := m.TileSize()
	return Size{
		W: uint32((uint64(img.W) + uint64(tile.W) - 1) / uint64(tile.W)),
		H: uint32((uint64(img.H) + uint64(tile.H) - 1) / uint64(tile.H)),
	}
}

// NumComponents returns Csiz
func (m *Metadata) NumComponents() int {
	return len(m.header.SIZ.Components)
}

// Downsampling returns (XRsiz, YRsiz) of component c
func (m *Metadata) Downsampling(c int) Point {
	comp := m.header.SIZ.Components[c]
	return Point{X: uint32(comp.XRsiz), Y: uint32(comp.YRsiz)}
}

// BitDepth returns the precision of component c
func (m *Metadata) BitDepth(c int) int {
	return m.header.SIZ.Components[c].BitDepth()
}

// IsSigned reports whether component c holds signed samples
func (m *Metadata) IsSigned(c int) bool {
	return m.header.SIZ.Components[c].IsSigned()
}

// ProgressionOrder returns the COD progression order
func (m *Metadata) ProgressionOrder() uint8 {
	return m.header.COD.ProgressionOrder
}

// NumLayers returns the COD layer count
func (m *Metadata) NumLayers() uint16 {
	return m.header.COD.NumberOfLayers
}

// UsesColorTransform reports whether COD enables the multiple component transform
func (m *Metadata) UsesColorTransform() bool {
	return m.header.COD.MultipleComponentTransform == 1
}

// NumDecompositions returns the number of wavelet decomposition levels
func (m *Metadata) NumDecompositions() int {
	return int(m.header.COD.NumberOfDecompositionLevels)
}

// LogBlockDims returns the base-2 logarithm of the code-block width and height
func (m *Metadata) LogBlockDims() Size {
	cod := m.header.COD
	return Size{W: uint32(cod.CodeBlockWidth) + 2, H: uint32(cod.CodeBlockHeight) + 2}
}

// PrecinctSize returns the precinct width and height at resolution level
func (m *Metadata) PrecinctSize(level int) Size {
	cod := m.header.COD
	if !cod.HasPrecincts() || level < 0 || level >= len(cod.PrecinctSizes) {
		return Size{W: 1 << defaultPrecinctExp, H: 1 << defaultPrecinctExp}
	}
	ps := cod.PrecinctSizes[level]
	return Size{W: 1 << ps.PPx, H: 1 << ps.PPy}
}

// Comments returns the COM segments of the main header in stream order
func (m *Metadata) Comments() []Comment {
	out := make([]Comment, len(m.header.COM))
	for i, c := range m.header.COM {
		out[i] = Comment(c)
	}
	return out
}

// HeaderEnd returns the offset of the first SOT (or EOC) that ended the main header
func (m *Metadata) HeaderEnd() int64 {
	return int64(m.header.End)
}

// Comment is a COM segment payload
type Comment COMSegment

// Comment registration values
const (
	RcomBinary uint16 = 0
	RcomLatin  uint16 = 1
)

// IsText reports whether the comment is registered as ISO/IEC 8859-15 text
func (c Comment) IsText() bool {
	return c.Rcom == RcomLatin
}

// Text returns the comment as a string. Latin text is decoded from
// ISO/IEC 8859-15; binary payloads are rendered as hex.
func (c Comment) Text() (string, error) {
	if !c.IsText() {
		return fmt.Sprintf("<binary % X>", c.Data), nil
	}
	rd := charmap.ISO8859_15.NewDecoder().Reader(bytes.NewReader(c.Data))
	var sb strings.Builder
	if _, err := io.Copy(&sb, rd); err != nil {
		return "", fmt.Errorf("decode comment: %w", err)
	}
	return sb.String(), nil
}
