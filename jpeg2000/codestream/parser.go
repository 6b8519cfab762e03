package codestream

import (
	"encoding/binary"
	"fmt"
)

// Parser parses the main header of a JPEG 2000 codestream
type Parser struct {
	data   []byte
	offset int
}

// NewParser creates a new codestream parser
func NewParser(data []byte) *Parser {
	return &Parser{
		data:   data,
		offset: 0,
	}
}

// ParseMainHeader parses the segments between SOC and the first SOT.
// Parsing stops at the first SOT or EOC without consuming it; its offset is
// recorded in MainHeader.End.
func (p *Parser) ParseMainHeader() (*MainHeader, error) {
	marker, err := p.readMarker()
	if err != nil {
		return nil, fmt.Errorf("read SOC: %w", err)
	}
	if marker != MarkerSOC {
		return nil, fmt.Errorf("%w: expected SOC (0x%04X), got 0x%04X", ErrNotCodestream, MarkerSOC, marker)
	}

	h := &MainHeader{}
	for {
		marker, err := p.peekMarker()
		if err != nil {
			return nil, err
		}

		// Main header ends when we hit SOT or EOC
		if marker == MarkerSOT || marker == MarkerEOC {
			h.End = p.offset
			break
		}

		start := p.offset
		_, _ = p.readMarker()
		if err := p.parseSegment(h, marker); err != nil {
			return nil, fmt.Errorf("%s segment at %d: %w", MarkerName(marker), start, err)
		}
	}

	// Verify required segments
	if h.SIZ == nil {
		return nil, fmt.Errorf("%w: SIZ", ErrMissingSegment)
	}
	if h.COD == nil {
		return nil, fmt.Errorf("%w: COD", ErrMissingSegment)
	}
	if h.QCD == nil {
		return nil, fmt.Errorf("%w: QCD", ErrMissingSegment)
	}
	return h, nil
}

func (p *Parser) parseSegment(h *MainHeader, marker uint16) error {
	if h.SIZ == nil && marker != MarkerSIZ {
		return fmt.Errorf("%w: SIZ must be the first segment", ErrInvalidSegment)
	}

	switch marker {
	case MarkerSIZ:
		if h.SIZ != nil {
			return fmt.Errorf("%w: duplicate SIZ", ErrInvalidSegment)
		}
		siz, err := p.parseSIZ()
		if err != nil {
			return err
		}
		h.SIZ = siz

	case MarkerCOD:
		if h.COD != nil {
			return fmt.Errorf("%w: duplicate COD", ErrInvalidSegment)
		}
		cod, err := p.parseCOD()
		if err != nil {
			return err
		}
		h.COD = cod

	case MarkerQCD:
		if h.QCD != nil {
			return fmt.Errorf("%w: duplicate QCD", ErrInvalidSegment)
		}
		qcd, err := p.parseQCD()
		if err != nil {
			return err
		}
		h.QCD = qcd

	case MarkerCOM:
		com, err := p.parseCOM()
		if err != nil {
			return err
		}
		h.COM = append(h.COM, *com)

	default:
		if !HasLength(marker) {
			return fmt.Errorf("%w: unexpected delimiter 0x%04X", ErrInvalidSegment, marker)
		}
		// COC, QCC, POC, RGN, TLM, PLM and friends do not contribute to the metadata
		return p.skipSegment()
	}
	return nil
}

// parseSIZ parses the SIZ marker segment
func (p *Parser) parseSIZ() (*SIZSegment, error) {
	length, err := p.readUint16()
	if err != nil {
		return nil, err
	}

	siz := &SIZSegment{}

	if siz.Rsiz, err = p.readUint16(); err != nil {
		return nil, err
	}
	if siz.Xsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.Ysiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.XOsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.YOsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.XTsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.YTsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.XTOsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.YTOsiz, err = p.readUint32(); err != nil {
		return nil, err
	}
	if siz.Csiz, err = p.readUint16(); err != nil {
		return nil, err
	}

	// Verify length before reading the component table
	expectedLength := 38 + 3*int(siz.Csiz)
	if int(length) != expectedLength {
		return nil, fmt.Errorf("%w: SIZ length %d, expected %d", ErrInvalidSegment, length, expectedLength)
	}

	// Read component sizing information
	siz.Components = make([]ComponentSize, siz.Csiz)
	for i := range siz.Components {
		if siz.Components[i].Ssiz, err = p.readUint8(); err != nil {
			return nil, err
		}
		if siz.Components[i].XRsiz, err = p.readUint8(); err != nil {
			return nil, err
		}
		if siz.Components[i].YRsiz, err = p.readUint8(); err != nil {
			return nil, err
		}
	}

	if err := validateSIZ(siz); err != nil {
		return nil, err
	}
	return siz, nil
}

func validateSIZ(siz *SIZSegment) error {
	switch {
	case siz.Csiz == 0:
		return fmt.Errorf("%w: no components", ErrInvalidSegment)
	case siz.Xsiz <= siz.XOsiz || siz.Ysiz <= siz.YOsiz:
		return fmt.Errorf("%w: empty image area (%d,%d)-(%d,%d)",
			ErrInvalidSegment, siz.XOsiz, siz.YOsiz, siz.Xsiz, siz.Ysiz)
	case siz.XTsiz == 0 || siz.YTsiz == 0:
		return fmt.Errorf("%w: zero tile size %dx%d", ErrInvalidSegment, siz.XTsiz, siz.YTsiz)
	}
	for i, c := range siz.Components {
		if c.XRsiz == 0 || c.YRsiz == 0 {
			return fmt.Errorf("%w: component %d has zero sub-sampling", ErrInvalidSegment, i)
		}
	}
	return nil
}

// parseCOD parses the COD marker segment
func (p *Parser) parseCOD() (*CODSegment, error) {
	length, err := p.readUint16()
	if err != nil {
		return nil, err
	}

	cod := &CODSegment{}
	start := p.offset

	if cod.Scod, err = p.readUint8(); err != nil {
		return nil, err
	}
	if cod.ProgressionOrder, err = p.readUint8(); err != nil {
		return nil, err
	}
	if cod.NumberOfLayers, err = p.readUint16(); err != nil {
		return nil, err
	}
	if cod.MultipleComponentTransform, err = p.readUint8(); err != nil {
		return nil, err
	}
	if err := p.parseCodingStyleParams(cod); err != nil {
		return nil, err
	}

	consumed := p.offset - start
	expected := int(length) - 2
	if consumed > expected {
		return nil, fmt.Errorf("%w: COD length %d, consumed %d", ErrInvalidSegment, length, consumed+2)
	}
	if consumed < expected {
		if err := p.skip(expected - consumed); err != nil {
			return nil, err
		}
	}

	return cod, nil
}

func (p *Parser) parseCodingStyleParams(cod *CODSegment) error {
	var err error
	if cod.NumberOfDecompositionLevels, err = p.readUint8(); err != nil {
		return err
	}
	if cod.NumberOfDecompositionLevels > 32 {
		return fmt.Errorf("%w: %d decomposition levels", ErrInvalidSegment, cod.NumberOfDecompositionLevels)
	}
	if cod.CodeBlockWidth, err = p.readUint8(); err != nil {
		return err
	}
	if cod.CodeBlockHeight, err = p.readUint8(); err != nil {
		return err
	}
	if cod.CodeBlockStyle, err = p.readUint8(); err != nil {
		return err
	}
	if cod.Transformation, err = p.readUint8(); err != nil {
		return err
	}

	if cod.HasPrecincts() {
		count := int(cod.NumberOfDecompositionLevels) + 1
		cod.PrecinctSizes = make([]PrecinctSize, count)
		for i := 0; i < count; i++ {
			ppxppy, err := p.readUint8()
			if err != nil {
				return err
			}
			cod.PrecinctSizes[i].PPx = ppxppy & 0x0F
			cod.PrecinctSizes[i].PPy = ppxppy >> 4
		}
	}
	return nil
}

// parseQCD parses the QCD marker segment
func (p *Parser) parseQCD() (*QCDSegment, error) {
	length, err := p.readUint16()
	if err != nil {
		return nil, err
	}
	if length < 3 {
		return nil, fmt.Errorf("%w: QCD length %d", ErrInvalidSegment, length)
	}

	qcd := &QCDSegment{}

	if qcd.Sqcd, err = p.readUint8(); err != nil {
		return nil, err
	}

	// Read quantization step size values
	dataLength := int(length) - 3 // length includes itself (2) and Sqcd (1)
	qcd.SPqcd = make([]byte, dataLength)
	if err := p.read(qcd.SPqcd); err != nil {
		return nil, err
	}

	return qcd, nil
}

// parseCOM parses the COM marker segment
func (p *Parser) parseCOM() (*COMSegment, error) {
	length, err := p.readUint16()
	if err != nil {
		return nil, err
	}
	if length < 4 {
		return nil, fmt.Errorf("%w: COM length %d", ErrInvalidSegment, length)
	}

	com := &COMSegment{}

	if com.Rcom, err = p.readUint16(); err != nil {
		return nil, err
	}

	dataLength := int(length) - 4 // length includes itself (2) and Rcom (2)
	com.Data = make([]byte, dataLength)
	if err := p.read(com.Data); err != nil {
		return nil, err
	}

	return com, nil
}

// Helper methods for reading data

func (p *Parser) readMarker() (uint16, error) {
	return p.readUint16()
}

func (p *Parser) peekMarker() (uint16, error) {
	if p.offset+2 > len(p.data) {
		return 0, p.truncated()
	}
	marker := binary.BigEndian.Uint16(p.data[p.offset : p.offset+2])
	return marker, nil
}

func (p *Parser) readUint8() (uint8, error) {
	if p.offset+1 > len(p.data) {
		return 0, p.truncated()
	}
	val := p.data[p.offset]
	p.offset++
	return val, nil
}

func (p *Parser) readUint16() (uint16, error) {
	if p.offset+2 > len(p.data) {
		return 0, p.truncated()
	}
	val := binary.BigEndian.Uint16(p.data[p.offset : p.offset+2])
	p.offset += 2
	return val, nil
}

func (p *Parser) readUint32() (uint32, error) {
	if p.offset+4 > len(p.data) {
		return 0, p.truncated()
	}
	val := binary.BigEndian.Uint32(p.data[p.offset : p.offset+4])
	p.offset += 4
	return val, nil
}

func (p *Parser) read(buf []byte) error {
	if p.offset+len(buf) > len(p.data) {
		return p.truncated()
	}
	copy(buf, p.data[p.offset:p.offset+len(buf)])
	p.offset += len(buf)
	return nil
}

func (p *Parser) skip(n int) error {
	if p.offset+n > len(p.data) {
		return p.truncated()
	}
	p.offset += n
	return nil
}

func (p *Parser) skipSegment() error {
	length, err := p.readUint16()
	if err != nil {
		return err
	}
	if length < 2 {
		return fmt.Errorf("%w: segment length %d", ErrInvalidSegment, length)
	}
	// length includes the 2 bytes for length itself
	return p.skip(int(length) - 2)
}

func (p *Parser) truncated() error {
	return fmt.Errorf("%w at offset %d of %d", ErrTruncated, p.offset, len(p.data))
}
