package index

import "fmt"

// FindingKind classifies a structural inconsistency between tile-parts
type FindingKind int

const (
	// FindingChainBreak - a tile-part does not start where the previous Psot ends
	FindingChainBreak FindingKind = iota
	// FindingTooManyParts - more tile-parts than TNsot announced for a tile
	FindingTooManyParts
	// FindingDuplicatePart - the same (tile, tile-part) pair occurs twice
	FindingDuplicatePart
	// FindingMissingSOD - the tile-part header was never closed by SOD
	FindingMissingSOD
)

// String returns the finding kind name
func (k FindingKind) String() string {
	switch k {
	case FindingChainBreak:
		return "chain-break"
	case FindingTooManyParts:
		return "too-many-parts"
	case FindingDuplicatePart:
		return "duplicate-part"
	case FindingMissingSOD:
		return "missing-sod"
	default:
		return "unknown"
	}
}

// Finding describes one inconsistency found by Check
type Finding struct {
	Kind      FindingKind
	TileIndex uint16
	Offset    int64 // SOT offset of the tile-part the finding refers to
	Message   string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

type partKey struct {
	tile uint16
	part uint8
}

// Check inspects a tile-part table for inconsistencies. It never fails;
// an empty result means the table is self-consistent.
func Check(parts []TilePartEntry) []Finding {
	var findings []Finding
	seen := make(map[partKey]bool)
	counts := make(map[uint16]int)
	declared := make(map[uint16]uint8)

	for i, tp := range parts {
		if i > 0 && parts[i-1].Length != 0 && tp.SOTOffset != parts[i-1].End() {
			findings = append(findings, Finding{
				Kind:      FindingChainBreak,
				TileIndex: tp.TileIndex,
				Offset:    tp.SOTOffset,
				Message: fmt.Sprintf("tile-part at %d does not follow previous end %d",
					tp.SOTOffset, parts[i-1].End()),
			})
		}

		key := partKey{tile: tp.TileIndex, part: tp.TilePartIndex}
		if seen[key] {
			findings = append(findings, Finding{
				Kind:      FindingDuplicatePart,
				TileIndex: tp.TileIndex,
				Offset:    tp.SOTOffset,
				Message:   fmt.Sprintf("tile %d tile-part %d repeated", tp.TileIndex, tp.TilePartIndex),
			})
		}
		seen[key] = true

		if tp.NumTileParts != 0 {
			declared[tp.TileIndex] = tp.NumTileParts
		}
		counts[tp.TileIndex]++
		if n := declared[tp.TileIndex]; n != 0 && counts[tp.TileIndex] > int(n) {
			findings = append(findings, Finding{
				Kind:      FindingTooManyParts,
				TileIndex: tp.TileIndex,
				Offset:    tp.SOTOffset,
				Message: fmt.Sprintf("tile %d has %d tile-parts, TNsot=%d",
					tp.TileIndex, counts[tp.TileIndex], n),
			})
		}

		if !tp.SODFound {
			findings = append(findings, Finding{
				Kind:      FindingMissingSOD,
				TileIndex: tp.TileIndex,
				Offset:    tp.SOTOffset,
				Message:   fmt.Sprintf("no SOD within tile-part at %d", tp.SOTOffset),
			})
		}
	}
	return findings
}
