package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cs-au-dk/attmap/utils"
	"github.com/fatih/color"
)

var opts = utils.Opts()

func main() {
	utils.ParseArgs()
	if opts.NoColorize() {
		color.NoColor = true
	}

	files := flag.Args()
	if len(files) == 0 {
		log.Fatalln("No input files. Usage: attmap [flags] file...")
	}

	logger := utils.Logger("attmap")
	pl := newPipeline(logger)

	m, err := pl.load(files)
	if err != nil {
		// Files that did load are still merged and printed.
		fmt.Fprintln(os.Stderr, utils.ErrString(err))
		if m.Len() == 0 {
			os.Exit(1)
		}
	}

	opts.OnVerbose(func() {
		logger.Debug("merged input", "files", len(files), "variant", m.Variant(), "keys", m.Len())
	})
	gatherMetrics(m)

	if len(opts.Get()) > 0 {
		if err := pl.secondaryTask(m); err != nil {
			fmt.Fprintln(os.Stderr, utils.ErrString(err))
			os.Exit(1)
		}
		return
	}

	if err := pl.output(m); err != nil {
		fmt.Fprintln(os.Stderr, utils.ErrString(err))
		os.Exit(1)
	}
}
