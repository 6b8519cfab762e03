package index

import (
	"bytes"

	"github.com/cocosip/go-j2kdump/jpeg2000/testdata"
)

// grayscaleSIZ describes a 64x64 single-tile 8-bit grayscale image
var grayscaleSIZ = testdata.SIZParams{
	Xsiz:       64,
	Ysiz:       64,
	XTsiz:      64,
	YTsiz:      64,
	Components: []testdata.Component{{BitDepth: 8}},
}

// twoPartStream returns a codestream with SOC, a one-component SIZ and a COM
// segment (first SOT at offset 58), followed by one tile split into two
// tile-parts of 120 and 340 bytes and EOC.
func twoPartStream() []byte {
	return testdata.NewBuilder().
		SOC().
		SIZ(grayscaleSIZ).
		COM(1, []byte("j2kdump")).
		TilePart(testdata.TilePart{Tile: 0, Part: 0, NumParts: 2, Data: testdata.PacketData(106)}).
		TilePart(testdata.TilePart{Tile: 0, Part: 1, NumParts: 2, Data: testdata.PacketData(326)}).
		EOC().
		Bytes()
}

// mainHeader returns SOC and SIZ, the shortest header the builders use
func mainHeader() *testdata.Builder {
	return testdata.NewBuilder().SOC().SIZ(grayscaleSIZ)
}

func reader(data []byte) (*bytes.Reader, int64) {
	return bytes.NewReader(data), int64(len(data))
}
