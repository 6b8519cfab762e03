// Package index builds a structural index of a JPEG 2000 codestream: the
// marker segments of the main header and the tile-parts of the whole
// stream. No packet data is decoded.
package index

import "github.com/cocosip/go-j2kdump/jpeg2000/codestream"

// MarkerEntry is one main-header marker segment
type MarkerEntry struct {
	Code   uint16 // Marker code
	Offset int64  // Absolute offset of the marker code
	Length uint16 // Length field value (covers itself and the payload); 2 for SOC
}

// End returns Offset + Length, the value used as the main header end position
func (m MarkerEntry) End() int64 {
	return m.Offset + int64(m.Length)
}

// SegmentEnd returns the offset just past the segment bytes. SOC has no
// length field, every other segment spans code + Length.
func (m MarkerEntry) SegmentEnd() int64 {
	if m.Code == codestream.MarkerSOC {
		return m.Offset + 2
	}
	return m.Offset + 2 + int64(m.Length)
}

// TilePartEntry is one tile-part located through its SOT segment
type TilePartEntry struct {
	TileIndex     uint16 // Isot
	TilePartIndex uint8  // TPsot, zero-based
	NumTileParts  uint8  // TNsot, 0 when unknown
	SOTOffset     int64  // Absolute offset of the SOT marker
	SODOffset     int64  // Absolute offset of the SOD marker, valid when SODFound
	SODFound      bool
	Length        uint32 // Psot, counted from SOTOffset
}

// End returns the offset just past the tile-part according to Psot
func (t TilePartEntry) End() int64 {
	return t.SOTOffset + int64(t.Length)
}

// Index holds the result of one scan of a codestream
type Index struct {
	Markers   []MarkerEntry
	TileParts []TilePartEntry
}

// HeaderStart returns the offset of the first recorded marker, or -1 when none was found
func (idx *Index) HeaderStart() int64 {
	if len(idx.Markers) == 0 {
		return -1
	}
	return idx.Markers[0].Offset
}

// HeaderEnd returns the end of the last recorded marker segment, or -1 when none was found
func (idx *Index) HeaderEnd() int64 {
	if len(idx.Markers) == 0 {
		return -1
	}
	return idx.Markers[len(idx.Markers)-1].End()
}

// SegmentsEnd returns the offset just past the last recorded segment, or -1
// when none was found. For a well-formed main header this is the first SOT.
func (idx *Index) SegmentsEnd() int64 {
	if len(idx.Markers) == 0 {
		return -1
	}
	return idx.Markers[len(idx.Markers)-1].SegmentEnd()
}
