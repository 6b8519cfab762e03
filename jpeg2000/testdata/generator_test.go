package testdata

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestGenerateSimpleJ2K(t *testing.T) {
	data := GenerateSimpleJ2K(64, 64, 8)

	if len(data) < 4 {
		t.Fatalf("codestream too short: %d bytes", len(data))
	}
	if got := binary.BigEndian.Uint16(data); got != markerSOC {
		t.Errorf("first marker = 0x%04X, want SOC", got)
	}
	if got := binary.BigEndian.Uint16(data[len(data)-2:]); got != markerEOC {
		t.Errorf("last marker = 0x%04X, want EOC", got)
	}
}

func TestTilePartLengthMatchesWrittenBytes(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		data   []byte
	}{
		{"empty", nil, nil},
		{"data only", nil, PacketData(40)},
		{"header and data", Segment(0xFF58, []byte{0, 1, 2}), PacketData(17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder().TilePart(TilePart{Header: tt.header, Data: tt.data, NumParts: 1})
			if want := TilePartLength(len(tt.header), len(tt.data)); uint32(b.Len()) != want {
				t.Errorf("wrote %d bytes, Psot %d", b.Len(), want)
			}
			psot := binary.BigEndian.Uint32(b.Bytes()[6:10])
			if int(psot) != b.Len() {
				t.Errorf("Psot field = %d, want %d", psot, b.Len())
			}
		})
	}
}

func TestPacketDataAvoidsDelimiters(t *testing.T) {
	for _, n := range []int{1, 3, 4, 8, 10, 11, 64, 333} {
		data := PacketData(n)
		if len(data) != n {
			t.Fatalf("PacketData(%d) length = %d", n, len(data))
		}
		for _, code := range [][]byte{{0xFF, 0x90}, {0xFF, 0x93}, {0xFF, 0xD9}} {
			if bytes.Contains(data, code) {
				t.Errorf("PacketData(%d) contains % X", n, code)
			}
		}
		if data[n-1] == 0xFF {
			t.Errorf("PacketData(%d) ends with 0xFF", n)
		}
	}
}

func TestNumTiles(t *testing.T) {
	tests := []struct {
		w, h, tw, th int
		want         int
	}{
		{512, 512, 256, 256, 4},
		{600, 400, 256, 256, 6},
		{64, 64, 64, 64, 1},
	}
	for _, tt := range tests {
		if got := NumTiles(tt.w, tt.h, tt.tw, tt.th); got != tt.want {
			t.Errorf("NumTiles(%d, %d, %d, %d) = %d, want %d", tt.w, tt.h, tt.tw, tt.th, got, tt.want)
		}
	}
}
