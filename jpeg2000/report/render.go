// Package report renders the diagnostic dump of a JPEG 2000 codestream:
// image and coding parameters from the main header, the marker index and,
// on request, the tile-part table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cocosip/go-j2kdump/jpeg2000/codestream"
	"github.com/cocosip/go-j2kdump/jpeg2000/index"
)

// Options controls which optional sections are written
type Options struct {
	ShowTileParts bool // Tile-parts section, when the index holds any
	Verbose       bool // Comments section, when the header holds any
}

// Render writes the report for md and idx to w. idx may be nil, in which
// case the index sections are left out.
func Render(w io.Writer, md *codestream.Metadata, idx *index.Index, opts Options) error {
	p := &printer{w: w}

	writeImageInfo(p, md)
	writeCodingInfo(p, md)
	if idx != nil {
		writeMarkerIndex(p, idx)
		if opts.ShowTileParts {
			writeTileParts(p, idx.TileParts)
		}
	}
	if opts.Verbose {
		writeComments(p, md.Comments())
	}
	return p.err
}

func writeImageInfo(p *printer, md *codestream.Metadata) {
	off := md.ImageOffset()
	ext := md.ImageExtent()

	p.line("Image info {")
	p.line("\t x0=%d, y0=%d", off.X, off.Y)
	p.line("\t x1=%d, y1=%d", ext.X, ext.Y)
	p.line("\t numcomps=%d", md.NumComponents())
	for c := 0; c < md.NumComponents(); c++ {
		ds := md.Downsampling(c)
		p.line("\t\t component %d {", c)
		p.line("\t\t dx=%d, dy=%d", ds.X, ds.Y)
		p.line("\t\t prec=%d", md.BitDepth(c))
		p.line("\t\t sgnd=%d", boolInt(md.IsSigned(c)))
		p.line("\t}")
	}
	p.line("}")
}

func writeCodingInfo(p *printer, md *codestream.Metadata) {
	tileOff := md.TileOffset()
	tile := md.TileSize()
	tiles := md.TileCount()
	blocks := md.LogBlockDims()

	p.line("Codestream info from main header: {")
	p.line("\t tx0=%d, ty0=%d", tileOff.X, tileOff.Y)
	p.line("\t tdx=%d, tdy=%d", tile.W, tile.H)
	p.line("\t tw=%d, th=%d", tiles.W, tiles.H)
	p.line("\t default tile {")
	p.line("\t\t csty=0")
	p.line("\t\t prg=0x%x", md.ProgressionOrder())
	p.line("\t\t numlayers=%d", md.NumLayers())
	p.line("\t\t mct=%d", boolInt(md.UsesColorTransform()))

	precincts := precinctList(md)
	for c := 0; c < md.NumComponents(); c++ {
		p.line("\t\t comp %d {", c)
		p.line("\t\t\t csty=0")
		p.line("\t\t\t numresolutions=%d", md.NumDecompositions()+1)
		p.line("\t\t\t cblkw=2^%d, cblkh=2^%d", blocks.W, blocks.H)
		p.line("\t\t\t cblksty=0x0")
		p.line("\t\t\t qmfbid=1")
		p.line("\t\t\t preccintsize (w,h)=%s", precincts)
		p.line("\t\t\t qntsty=0")
		p.line("\t\t\t numgbits=0")
		p.line("\t\t\t roishift=0")
		p.line("\t\t }")
	}
	p.line("\t }")
	p.line("}")
}

// precinctList formats one (w,h) pair per resolution level
func precinctList(md *codestream.Metadata) string {
	sizes := make([]string, 0, md.NumDecompositions()+1)
	for level := 0; level <= md.NumDecompositions(); level++ {
		s := md.PrecinctSize(level)
		sizes = append(sizes, fmt.Sprintf("(%d,%d)", s.W, s.H))
	}
	return strings.Join(sizes, " ")
}

func writeMarkerIndex(p *printer, idx *index.Index) {
	if len(idx.Markers) == 0 {
		return
	}
	p.line("Codestream index from main header: {")
	p.line("\t Main header start position=%d", idx.HeaderStart())
	p.line("\t Main header end position=%d", idx.HeaderEnd())
	p.line("\t Marker list: {")
	for _, m := range idx.Markers {
		p.line("\t\t type=0x%04x, pos=%d, len=%d", m.Code, m.Offset, m.Length)
	}
	p.line("\t }")
	p.line("}")
}

func writeTileParts(p *printer, parts []index.TilePartEntry) {
	if len(parts) == 0 {
		return
	}
	p.line("Tile-parts {")
	for _, tp := range parts {
		p.line("\t tile=%d tilepart=%d/%d sot_pos=%d sod_pos=%s length=%d",
			tp.TileIndex, int(tp.TilePartIndex)+1, tp.NumTileParts,
			tp.SOTOffset, sodPosition(tp), tp.Length)
	}
	p.line("}")
}

// sodPosition renders the SOD offset, or None when no SOD was located
func sodPosition(tp index.TilePartEntry) string {
	if !tp.SODFound {
		return "None"
	}
	return fmt.Sprintf("%d", tp.SODOffset)
}

func writeComments(p *printer, comments []codestream.Comment) {
	if len(comments) == 0 {
		return
	}
	p.line("Comments {")
	for _, c := range comments {
		text, err := c.Text()
		if err != nil {
			p.fail(err)
			return
		}
		p.line("\t %s", text)
	}
	p.line("}")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// printer writes lines until the first error and keeps that error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format+"\n", args...); err != nil {
		p.err = fmt.Errorf("write report: %w", err)
	}
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
