package codestream

// JPEG 2000 Marker Codes
// Reference: ISO/IEC 15444-1:2019 Table A.1, ISO/IEC 15444-15 (CAP, CPF)

// Delimiting markers and marker segments
const (
	// MarkerSOC - Start of codestream
	MarkerSOC uint16 = 0xFF4F

	// MarkerSOT - Start of tile-part
	MarkerSOT uint16 = 0xFF90

	// MarkerSOD - Start of data
	MarkerSOD uint16 = 0xFF93

	// MarkerEOC - End of codestream
	MarkerEOC uint16 = 0xFFD9
)

// Fixed information marker segments
const (
	// MarkerSIZ - Image and tile size
	MarkerSIZ uint16 = 0xFF51

	// MarkerCAP - Extended capabilities
	MarkerCAP uint16 = 0xFF50

	// MarkerPRF - Profile
	MarkerPRF uint16 = 0xFF56

	// MarkerCPF - Corresponding profile
	MarkerCPF uint16 = 0xFF59
)

// Functional marker segments
const (
	MarkerCOD uint16 = 0xFF52 // Coding style default
	MarkerCOC uint16 = 0xFF53 // Coding style component
	MarkerRGN uint16 = 0xFF5E // Region of interest
	MarkerQCD uint16 = 0xFF5C // Quantization default
	MarkerQCC uint16 = 0xFF5D // Quantization component
	MarkerPOC uint16 = 0xFF5F // Progression order change
)

// Pointer marker segments
const (
	MarkerTLM uint16 = 0xFF55 // Tile-part lengths
	MarkerPLM uint16 = 0xFF57 // Packet length, main header
	MarkerPLT uint16 = 0xFF58 // Packet length, tile-part header
	MarkerPPM uint16 = 0xFF60 // Packed packet headers, main header
	MarkerPPT uint16 = 0xFF61 // Packed packet headers, tile-part header
)

// In-bitstream markers
const (
	MarkerSOP uint16 = 0xFF91 // Start of packet
	MarkerEPH uint16 = 0xFF92 // End of packet header
)

// Informational marker segments
const (
	MarkerCRG uint16 = 0xFF63 // Component registration
	MarkerCOM uint16 = 0xFF64 // Comment

	// Part 2 multi-component transform markers (ISO/IEC 15444-2)
	MarkerMCT uint16 = 0xFF74
	MarkerMCC uint16 = 0xFF75
	MarkerMCO uint16 = 0xFF77
	MarkerCBD uint16 = 0xFF78
)

// MarkerStuffing is the 0xFF00 pair found inside packet data; it is not a marker
const MarkerStuffing uint16 = 0xFF00

var markerNames = map[uint16]string{
	MarkerSOC: "SOC",
	MarkerSOT: "SOT",
	MarkerSOD: "SOD",
	MarkerEOC: "EOC",
	MarkerSIZ: "SIZ",
	MarkerCAP: "CAP",
	MarkerPRF: "PRF",
	MarkerCPF: "CPF",
	MarkerCOD: "COD",
	MarkerCOC: "COC",
	MarkerRGN: "RGN",
	MarkerQCD: "QCD",
	MarkerQCC: "QCC",
	MarkerPOC: "POC",
	MarkerTLM: "TLM",
	MarkerPLM: "PLM",
	MarkerPLT: "PLT",
	MarkerPPM: "PPM",
	MarkerPPT: "PPT",
	MarkerSOP: "SOP",
	MarkerEPH: "EPH",
	MarkerCRG: "CRG",
	MarkerCOM: "COM",
	MarkerMCT: "MCT",
	MarkerMCC: "MCC",
	MarkerMCO: "MCO",
	MarkerCBD: "CBD",
}

// MarkerName returns the name of a marker code
func MarkerName(marker uint16) string {
	if name, ok := markerNames[marker]; ok {
		return name
	}
	return "UNKNOWN"
}

// HasLength returns true if the marker has a length field
func HasLength(marker uint16) bool {
	switch marker {
	case MarkerSOC, MarkerSOD, MarkerEOC, MarkerEPH:
		return false
	default:
		return true
	}
}
