package index

import (
	"io"

	"github.com/cocosip/go-j2kdump/jpeg2000/codestream"
)

// sotSegmentLength is the fixed Lsot value: Lsot(2) + Isot(2) + Psot(4) + TPsot(1) + TNsot(1)
const sotSegmentLength = 10

// ScanTileParts walks the whole codestream and records every tile-part.
//
// Tile-parts are chained through their Psot field: after a tile-part the scan
// resumes at SOTOffset + Psot, so packet data is never interpreted as markers.
// A SOT segment whose length is not 10 stops the scan. Truncation stops it
// softly. In both cases the entries collected so far are returned with a nil
// error.
func ScanTileParts(r io.ReaderAt, size int64) ([]TilePartEntry, error) {
	s := &tilePartScanner{c: NewCursor(r, size)}
	if err := s.scan(); err != nil {
		return s.entries, err
	}
	return s.entries, nil
}

type tilePartScanner struct {
	c       *Cursor
	entries []TilePartEntry
}

func (s *tilePartScanner) scan() error {
	c := s.c
	for c.Remaining() >= 2 {
		pos := c.Position()
		code, err := c.ReadU16()
		if err != nil {
			return softStop(err)
		}

		switch code {
		case codestream.MarkerSOC, codestream.MarkerSOD:
			// no length field; the cursor already moved past the code

		case codestream.MarkerEOC:
			return nil

		case codestream.MarkerSOT:
			entry, ok, err := s.readTilePart(pos)
			if err != nil || !ok {
				return err
			}
			s.entries = append(s.entries, entry)
			if entry.Length == 0 {
				// Psot=0: the last tile-part runs to EOC, nothing to resume from
				return nil
			}
			if err := c.SeekAbsolute(entry.End()); err != nil {
				return nil
			}

		default:
			length, err := c.ReadU16()
			if err != nil {
				return softStop(err)
			}
			if length < 2 {
				return nil
			}
			if err := c.SeekAbsolute(pos + 2 + int64(length)); err != nil {
				return nil
			}
		}
	}
	return nil
}

// readTilePart decodes the SOT segment at pos and locates its SOD.
// ok is false when the segment is truncated or its length is not 10.
func (s *tilePartScanner) readTilePart(pos int64) (TilePartEntry, bool, error) {
	c := s.c
	if c.Remaining() < sotSegmentLength {
		return TilePartEntry{}, false, nil
	}

	lsot, err := c.ReadU16()
	if err != nil {
		return TilePartEntry{}, false, softStop(err)
	}
	if lsot != sotSegmentLength {
		return TilePartEntry{}, false, nil
	}

	isot, err := c.ReadU16()
	if err != nil {
		return TilePartEntry{}, false, softStop(err)
	}
	psot, err := c.ReadU32()
	if err != nil {
		return TilePartEntry{}, false, softStop(err)
	}
	tpsot, err := c.ReadU8()
	if err != nil {
		return TilePartEntry{}, false, softStop(err)
	}
	tnsot, err := c.ReadU8()
	if err != nil {
		return TilePartEntry{}, false, softStop(err)
	}

	// Psot bounds the tile-part header region
	limit := c.Size()
	if psot > 0 && pos+int64(psot) < limit {
		limit = pos + int64(psot)
	}
	sod, found, err := s.findSOD(c.Position(), limit)
	if err != nil {
		return TilePartEntry{}, false, err
	}

	return TilePartEntry{
		TileIndex:     isot,
		TilePartIndex: tpsot,
		NumTileParts:  tnsot,
		SOTOffset:     pos,
		SODOffset:     sod,
		SODFound:      found,
		Length:        psot,
	}, true, nil
}

// findSOD searches [from, limit) for the SOD closing a tile-part header.
// Stuffing pairs are stepped over and marker segments are skipped by their
// length; a SOT or EOC ends the search without a result.
func (s *tilePartScanner) findSOD(from, limit int64) (int64, bool, error) {
	c := s.c
	p := from
	for p+2 <= limit {
		if err := c.SeekAbsolute(p); err != nil {
			return 0, false, nil
		}
		b, err := c.ReadU8()
		if err != nil {
			return 0, false, softStop(err)
		}
		if b != 0xFF {
			p++
			continue
		}

		if err := c.SeekAbsolute(p); err != nil {
			return 0, false, nil
		}
		code, err := c.ReadU16()
		if err != nil {
			return 0, false, softStop(err)
		}

		switch code {
		case codestream.MarkerStuffing:
			p += 2
		case codestream.MarkerSOD:
			return p, true, nil
		case codestream.MarkerSOT, codestream.MarkerEOC:
			return 0, false, nil
		default:
			if p+4 > limit {
				return 0, false, nil
			}
			length, err := c.ReadU16()
			if err != nil {
				return 0, false, softStop(err)
			}
			if length < 2 {
				return 0, false, nil
			}
			p += 2 + int64(length)
		}
	}
	return 0, false, nil
}
