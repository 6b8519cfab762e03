// Package testdata assembles JPEG 2000 codestreams byte by byte for tests.
// The generated streams carry well-formed headers and placeholder packet
// data; they are meant for structural parsing, not pixel decoding.
package testdata

import (
	"bytes"
	"encoding/binary"
)

// Marker codes used by the builder
const (
	markerSOC uint16 = 0xFF4F
	markerSIZ uint16 = 0xFF51
	markerCOD uint16 = 0xFF52
	markerQCD uint16 = 0xFF5C
	markerCOM uint16 = 0xFF64
	markerSOT uint16 = 0xFF90
	markerSOD uint16 = 0xFF93
	markerEOC uint16 = 0xFFD9
)

// Component describes one SIZ component entry
type Component struct {
	BitDepth int
	Signed   bool
	DX, DY   uint8
}

// SIZParams holds the SIZ segment fields
type SIZParams struct {
	Xsiz, Ysiz     uint32 // Reference grid extent
	XOsiz, YOsiz   uint32 // Image offset
	XTsiz, YTsiz   uint32 // Tile size
	XTOsiz, YTOsiz uint32 // Tile offset
	Components     []Component
}

// CODParams holds the COD segment fields
type CODParams struct {
	Scod        uint8
	Progression uint8
	Layers      uint16
	MCT         uint8
	Levels      uint8
	CBWidthExp  uint8 // xcb, code-block width is 2^(xcb+2)
	CBHeightExp uint8
	CBStyle     uint8
	Transform   uint8
	Precincts   []uint8 // PPx | PPy<<4 per resolution, written when Scod bit 0 is set
}

// TilePart describes one tile-part. Header holds raw marker segments placed
// between SOT and SOD. Psot is computed unless Length is non-zero.
type TilePart struct {
	Tile     uint16
	Part     uint8
	NumParts uint8
	Header   []byte
	Data     []byte
	Length   uint32
}

// Builder accumulates a codestream
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Len returns the number of bytes written so far
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Bytes returns the assembled codestream
func (b *Builder) Bytes() []byte {
	return append([]byte(nil), b.buf.Bytes()...)
}

// Marker writes a bare marker code
func (b *Builder) Marker(code uint16) *Builder {
	_ = binary.Write(&b.buf, binary.BigEndian, code)
	return b
}

// Raw writes bytes as-is
func (b *Builder) Raw(p []byte) *Builder {
	b.buf.Write(p)
	return b
}

// Segment writes a marker followed by a length field and payload
func (b *Builder) Segment(code uint16, payload []byte) *Builder {
	return b.Marker(code).Raw(Segment(code, payload)[2:])
}

// SOC writes the start of codestream marker
func (b *Builder) SOC() *Builder {
	return b.Marker(markerSOC)
}

// EOC writes the end of codestream marker
func (b *Builder) EOC() *Builder {
	return b.Marker(markerEOC)
}

// SIZ writes the image and tile size segment
func (b *Builder) SIZ(p SIZParams) *Builder {
	data := &bytes.Buffer{}
	_ = binary.Write(data, binary.BigEndian, uint16(0)) // Rsiz
	_ = binary.Write(data, binary.BigEndian, p.Xsiz)
	_ = binary.Write(data, binary.BigEndian, p.Ysiz)
	_ = binary.Write(data, binary.BigEndian, p.XOsiz)
	_ = binary.Write(data, binary.BigEndian, p.YOsiz)
	_ = binary.Write(data, binary.BigEndian, p.XTsiz)
	_ = binary.Write(data, binary.BigEndian, p.YTsiz)
	_ = binary.Write(data, binary.BigEndian, p.XTOsiz)
	_ = binary.Write(data, binary.BigEndian, p.YTOsiz)
	_ = binary.Write(data, binary.BigEndian, uint16(len(p.Components)))
	for _, c := range p.Components {
		ssiz := uint8(c.BitDepth - 1)
		if c.Signed {
			ssiz |= 0x80
		}
		dx, dy := c.DX, c.DY
		if dx == 0 {
			dx = 1
		}
		if dy == 0 {
			dy = 1
		}
		data.Write([]byte{ssiz, dx, dy})
	}
	return b.Segment(markerSIZ, data.Bytes())
}

// COD writes the coding style default segment
func (b *Builder) COD(p CODParams) *Builder {
	data := &bytes.Buffer{}
	data.WriteByte(p.Scod)
	data.WriteByte(p.Progression)
	_ = binary.Write(data, binary.BigEndian, p.Layers)
	data.WriteByte(p.MCT)
	data.WriteByte(p.Levels)
	data.WriteByte(p.CBWidthExp)
	data.WriteByte(p.CBHeightExp)
	data.WriteByte(p.CBStyle)
	data.WriteByte(p.Transform)
	if p.Scod&0x01 != 0 {
		data.Write(p.Precincts)
	}
	return b.Segment(markerCOD, data.Bytes())
}

// QCD writes a reversible (no quantization) default quantization segment
func (b *Builder) QCD(levels uint8, bitDepth int) *Builder {
	data := &bytes.Buffer{}
	data.WriteByte(0x40) // Sqcd: no quantization, 2 guard bits
	numSubbands := 3*int(levels) + 1
	for i := 0; i < numSubbands; i++ {
		data.WriteByte(uint8(bitDepth << 3))
	}
	return b.Segment(markerQCD, data.Bytes())
}

// COM writes a comment segment
func (b *Builder) COM(rcom uint16, text []byte) *Builder {
	data := make([]byte, 2, 2+len(text))
	binary.BigEndian.PutUint16(data, rcom)
	data = append(data, text...)
	return b.Segment(markerCOM, data)
}

// SOT writes a start of tile-part segment with explicit fields
func (b *Builder) SOT(isot uint16, psot uint32, tpsot, tnsot uint8) *Builder {
	b.Marker(markerSOT)
	_ = binary.Write(&b.buf, binary.BigEndian, uint16(10)) // Lsot
	_ = binary.Write(&b.buf, binary.BigEndian, isot)
	_ = binary.Write(&b.buf, binary.BigEndian, psot)
	b.buf.WriteByte(tpsot)
	b.buf.WriteByte(tnsot)
	return b
}

// SOD writes the start of data marker
func (b *Builder) SOD() *Builder {
	return b.Marker(markerSOD)
}

// TilePart writes SOT, the tile-part header segments, SOD and the packet data
func (b *Builder) TilePart(tp TilePart) *Builder {
	psot := tp.Length
	if psot == 0 {
		psot = TilePartLength(len(tp.Header), len(tp.Data))
	}
	b.SOT(tp.Tile, psot, tp.Part, tp.NumParts)
	b.Raw(tp.Header)
	b.SOD()
	return b.Raw(tp.Data)
}

// TilePartLength returns the Psot of a tile-part with the given header and data sizes
func TilePartLength(headerLen, dataLen int) uint32 {
	return uint32(12 + headerLen + 2 + dataLen)
}

// Segment encodes a marker segment (marker, length, payload) as bytes
func Segment(code uint16, payload []byte) []byte {
	out := make([]byte, 4, 4+len(payload))
	binary.BigEndian.PutUint16(out, code)
	binary.BigEndian.PutUint16(out[2:], uint16(len(payload)+2))
	return append(out, payload...)
}

// PacketData returns n bytes of placeholder packet data. Every 0xFF byte is
// followed by a byte below 0x90 so no SOT, SOD or EOC pattern appears, but
// marker-like pairs such as 0xFF4F and 0xFF51 do, which catches scanners
// that pattern-match inside packet data.
func PacketData(n int) []byte {
	pattern := []byte{0xFF, 0x4F, 0x12, 0xFF, 0x51, 0x00, 0x34, 0xFF, 0x00, 0x7A}
	out := make([]byte, n)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	if n > 0 && out[n-1] == 0xFF {
		out[n-1] = 0x00
	}
	return out
}
