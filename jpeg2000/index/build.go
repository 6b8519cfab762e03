package index

import (
	"fmt"
	"io"
)

// Build scans the main header and, when tileParts is set, the tile-part
// table of the codestream held by r. Each scan uses its own cursor.
func Build(r io.ReaderAt, size int64, tileParts bool) (*Index, error) {
	markers, err := ScanMainHeader(r, size)
	if err != nil {
		return nil, fmt.Errorf("scan main header: %w", err)
	}
	idx := &Index{Markers: markers}

	if tileParts {
		parts, err := ScanTileParts(r, size)
		if err != nil {
			return nil, fmt.Errorf("scan tile-parts: %w", err)
		}
		idx.TileParts = parts
	}
	return idx, nil
}
