package codestream

// MainHeader holds the segments of a codestream main header
type MainHeader struct {
	SIZ *SIZSegment  // Image and tile size
	COD *CODSegment  // Coding style default
	QCD *QCDSegment  // Quantization default
	COM []COMSegment // Comments (optional)

	// Offset of the marker that ended the header (first SOT, or EOC)
	End int
}

// SIZSegment - Image and tile size marker segment
// ISO/IEC 15444-1 A.5.1
type SIZSegment struct {
	Rsiz   uint16 // Capabilities (0 = baseline)
	Xsiz   uint32 // Width of reference grid
	Ysiz   uint32 // Height of reference grid
	XOsiz  uint32 // Horizontal offset
	YOsiz  uint32 // Vertical offset
	XTsiz  uint32 // Width of one reference tile
	YTsiz  uint32 // Height of one reference tile
	XTOsiz uint32 // Horizontal offset of first tile
	YTOsiz uint32 // Vertical offset of first tile
	Csiz   uint16 // Number of components

	// Per-component parameters
	Components []ComponentSize
}

// ComponentSize holds per-component sizing information
type ComponentSize struct {
	Ssiz  uint8 // Precision and sign (bit 7 = sign, bits 0-6 = depth-1)
	XRsiz uint8 // Horizontal separation
	YRsiz uint8 // Vertical separation
}

// BitDepth returns the bit depth of the component
func (c *ComponentSize) BitDepth() int {
	return int(c.Ssiz&0x7F) + 1
}

// IsSigned returns true if the component is signed
func (c *ComponentSize) IsSigned() bool {
	return (c.Ssiz & 0x80) != 0
}

// CODSegment - Coding style default marker segment
// ISO/IEC 15444-1 A.6.1
type CODSegment struct {
	Scod uint8 // Coding style for all components
	// Scod bit interpretation:
	//   0: User-defined precinct sizes follow
	//   1: SOP marker segments
	//   2: EPH marker segments

	// SGcod - General coding style parameters
	ProgressionOrder           uint8  // 0=LRCP, 1=RLCP, 2=RPCL, 3=PCRL, 4=CPRL
	NumberOfLayers             uint16 // Number of layers
	MultipleComponentTransform uint8  // 0=none, 1=RCT or ICT

	// SPcod - Coding style parameters
	NumberOfDecompositionLevels uint8 // Number of decomposition levels
	CodeBlockWidth              uint8 // Code-block width exponent (2^(n+2))
	CodeBlockHeight             uint8 // Code-block height exponent (2^(n+2))
	CodeBlockStyle              uint8 // Code-block style
	Transformation              uint8 // Wavelet transformation: 0=9-7 irreversible, 1=5-3 reversible

	// Precinct sizes (if Scod bit 0 is set)
	PrecinctSizes []PrecinctSize // One per resolution level
}

// PrecinctSize holds precinct dimensions for a resolution level
type PrecinctSize struct {
	PPx uint8 // Precinct width exponent
	PPy uint8 // Precinct height exponent
}

// CodeBlockSize returns the actual code-block dimensions
func (c *CODSegment) CodeBlockSize() (width, height int) {
	width = 1 << (c.CodeBlockWidth + 2)
	height = 1 << (c.CodeBlockHeight + 2)
	return
}

// HasPrecincts reports whether user-defined precinct sizes are present
func (c *CODSegment) HasPrecincts() bool {
	return c.Scod&0x01 != 0
}

// QCDSegment - Quantization default marker segment
// ISO/IEC 15444-1 A.6.4
type QCDSegment struct {
	Sqcd uint8 // Quantization style
	// Sqcd interpretation:
	//   bits 0-4: Quantization type (0=none, 1=scalar derived, 2=scalar expounded)
	//   bits 5-7: Number of guard bits

	SPqcd []byte // Quantization step size values
}

// QuantizationType returns the quantization type
func (q *QCDSegment) QuantizationType() int {
	return int(q.Sqcd & 0x1F)
}

// GuardBits returns the number of guard bits
func (q *QCDSegment) GuardBits() int {
	return int(q.Sqcd >> 5)
}

// COMSegment - Comment marker segment
type COMSegment struct {
	Rcom uint16 // Registration value (0=binary, 1=ISO/IEC 8859-15)
	Data []byte // Comment data
}
