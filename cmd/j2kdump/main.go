// Command j2kdump prints the structure of a JPEG 2000 codestream: main
// header parameters, the marker index and the tile-part table.
//
// Usage:
//
//	j2kdump dump [-show-packets] [-v] [-format auto|j2c|jp2|dicom] [-offset N] [-frame N] <path>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

var errUsage = errors.New("usage: j2kdump dump [flags] <path>")

func main() {
	logger := log.New(os.Stderr, "j2kdump: ", 0)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Fatalf("%v", err)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "dump":
		return runDump(args[1:], stdout, logger)
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(logger.Writer(), errUsage)
		return flag.ErrHelp
	default:
		return fmt.Errorf("unknown command %q; %w", args[0], errUsage)
	}
}
