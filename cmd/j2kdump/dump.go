package main

import (
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/cocosip/go-j2kdump/jpeg2000/codestream"
	"github.com/cocosip/go-j2kdump/jpeg2000/index"
	"github.com/cocosip/go-j2kdump/jpeg2000/report"
	"github.com/cocosip/go-j2kdump/source"
)

type dumpFlags struct {
	showPackets bool
	verbose     bool
	format      string
	offset      int64
	frame       int
}

func parseDumpFlags(args []string, output io.Writer) (dumpFlags, string, error) {
	var f dumpFlags
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&f.showPackets, "show-packets", false, "Show tile-part offsets")
	fs.BoolVar(&f.verbose, "v", false, "Verbose output")
	fs.StringVar(&f.format, "format", string(source.FormatAuto), "Input format: auto, j2c, jp2 or dicom")
	fs.Int64Var(&f.offset, "offset", 0, "Byte offset of the data inside the input file")
	fs.IntVar(&f.frame, "frame", 0, "Frame index for multi-frame DICOM input")

	// flags may follow the path
	var paths []string
	for {
		if err := fs.Parse(args); err != nil {
			return f, "", err
		}
		if fs.NArg() == 0 {
			break
		}
		paths = append(paths, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(paths) != 1 {
		return f, "", fmt.Errorf("expected one input path, got %d; %w", len(paths), errUsage)
	}
	return f, paths[0], nil
}

func runDump(args []string, stdout io.Writer, logger *log.Logger) error {
	f, path, err := parseDumpFlags(args, logger.Writer())
	if err != nil {
		return err
	}
	debugf := func(format string, v ...any) {
		if f.verbose {
			logger.Printf(format, v...)
		}
	}

	format, err := source.ParseFormat(f.format)
	if err != nil {
		return err
	}
	src, err := source.Open(path, source.Options{Format: format, Offset: f.offset, Frame: f.frame})
	if err != nil {
		return err
	}
	defer src.Close()
	logContainer(debugf, src)

	md, err := codestream.ReadMetadata(src, src.Size())
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	idx, err := index.Build(src, src.Size(), f.showPackets)
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}

	for _, m := range idx.Markers {
		debugf("marker %s (0x%04x) at %d, length %d", codestream.MarkerName(m.Code), m.Code, m.Offset, m.Length)
	}
	if h := md.Header(); h != nil {
		cbw, cbh := h.COD.CodeBlockSize()
		debugf("code-blocks %dx%d, quantization type %d, %d guard bits",
			cbw, cbh, h.QCD.QuantizationType(), h.QCD.GuardBits())
	}
	if end := idx.SegmentsEnd(); end != md.HeaderEnd() {
		debugf("main header extent mismatch: marker scan ends at %d, parser stopped at %d", end, md.HeaderEnd())
	}
	if f.showPackets {
		for _, finding := range index.Check(idx.TileParts) {
			debugf("tile-part check: %s", finding)
		}
	}

	return report.Render(stdout, md, idx, report.Options{
		ShowTileParts: f.showPackets,
		Verbose:       f.verbose,
	})
}

func logContainer(debugf func(string, ...any), src *source.Source) {
	c := src.Container()
	switch c.Format {
	case source.FormatJP2:
		for _, b := range c.Boxes {
			debugf("jp2 box %q at %d, length %d", b.Type, b.Offset, b.Length)
		}
		for _, id := range c.UUIDs {
			debugf("jp2 uuid box %s", id)
		}
	case source.FormatDICOM:
		debugf("dicom transfer syntax %s, frame %d of %d", c.TransferSyntax, c.Frame+1, c.NumFrames)
	}
	if c.Offset >= 0 {
		debugf("%s codestream at offset %d, %d bytes", c.Format, c.Offset, src.Size())
	} else {
		debugf("%s codestream, %d bytes", c.Format, src.Size())
	}
}
