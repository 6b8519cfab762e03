package testdata

// GenerateSimpleJ2K generates a single-tile grayscale codestream:
// SOC, SIZ, COD, QCD, one tile-part and EOC.
func GenerateSimpleJ2K(width, height, bitDepth int) []byte {
	return GenerateMultiTileJ2K(width, height, width, height, bitDepth, 0, 1)
}

// GenerateMultiTileJ2K generates a codestream with one tile-part per tile
//
// Parameters:
//   - width, height: Image dimensions
//   - tileWidth, tileHeight: Tile dimensions
//   - bitDepth: Bits per sample (8, 12, or 16)
//   - numLevels: Number of wavelet decomposition levels (0-6)
//   - components: Number of components (1=grayscale, 3=RGB)
func GenerateMultiTileJ2K(width, height, tileWidth, tileHeight, bitDepth, numLevels, components int) []byte {
	b := NewBuilder().SOC()
	writeMainHeader(b, width, height, tileWidth, tileHeight, bitDepth, numLevels, components)

	numTiles := NumTiles(width, height, tileWidth, tileHeight)
	for tileIdx := 0; tileIdx < numTiles; tileIdx++ {
		b.TilePart(TilePart{
			Tile:     uint16(tileIdx),
			Part:     0,
			NumParts: 1,
			Data:     PacketData(components + 50),
		})
	}
	return b.EOC().Bytes()
}

// GenerateMultiPartJ2K generates a multi-tile codestream where every tile is
// split into partsPerTile tile-parts. Tile-parts are written tile by tile.
func GenerateMultiPartJ2K(width, height, tileWidth, tileHeight, partsPerTile int) []byte {
	b := NewBuilder().SOC()
	writeMainHeader(b, width, height, tileWidth, tileHeight, 8, 2, 1)

	numTiles := NumTiles(width, height, tileWidth, tileHeight)
	for tileIdx := 0; tileIdx < numTiles; tileIdx++ {
		for part := 0; part < partsPerTile; part++ {
			b.TilePart(TilePart{
				Tile:     uint16(tileIdx),
				Part:     uint8(part),
				NumParts: uint8(partsPerTile),
				Data:     PacketData(32 + 8*part),
			})
		}
	}
	return b.EOC().Bytes()
}

// NumTiles returns the tile count of a grid anchored at the origin
func NumTiles(width, height, tileWidth, tileHeight int) int {
	numTilesX := (width + tileWidth - 1) / tileWidth
	numTilesY := (height + tileHeight - 1) / tileHeight
	return numTilesX * numTilesY
}

func writeMainHeader(b *Builder, width, height, tileWidth, tileHeight, bitDepth, numLevels, components int) {
	comps := make([]Component, components)
	for i := range comps {
		comps[i] = Component{BitDepth: bitDepth, DX: 1, DY: 1}
	}
	b.SIZ(SIZParams{
		Xsiz:       uint32(width),
		Ysiz:       uint32(height),
		XTsiz:      uint32(tileWidth),
		YTsiz:      uint32(tileHeight),
		Components: comps,
	})

	// MCT: 1 for RGB (3 components), 0 for grayscale
	mct := uint8(0)
	if components == 3 {
		mct = 1
	}
	b.COD(CODParams{
		Progression: 0, // LRCP
		Layers:      1,
		MCT:         mct,
		Levels:      uint8(numLevels),
		CBWidthExp:  4,
		CBHeightExp: 4,
		Transform:   1, // 5-3 reversible
	})
	b.QCD(uint8(numLevels), bitDepth)
}
