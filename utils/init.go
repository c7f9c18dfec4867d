package utils

import (
	"flag"
	"fmt"
	"log"
	"strings"
)

type options struct {
	variant    string
	format     string
	outFile    string
	get        string
	logLevel   string
	expand     bool
	metrics    bool
	noColorize bool
	verbose    bool
}

const (
	_VARIANT_PLAIN = iota
	_VARIANT_ORDERED
	_VARIANT_ECHO
	_VARIANT_PATHEX
	_VARIANT_ORDPATHEX
)

const (
	_FORMAT_RENDER = iota
	_FORMAT_YAML
	_FORMAT_JSON
	_FORMAT_DOT
	_FORMAT_SVG
	_FORMAT_PNG
)

// CanColorize wraps a colorizing function such that colors are dropped when
// the user asked for plain output.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var variant = []struct{ flag, explanation string }{{
	"attmap",
	"Unordered map, strict field access",
}, {
	"ordattmap",
	"Insertion-ordered map, strict field access",
}, {
	"echo",
	"Unordered map, field access of an unset name returns the name itself",
}, {
	"pathex",
	"Unordered map, text values have environment variables and ~ expanded on retrieval",
}, {
	"ordpathex",
	"Insertion-ordered map with path expansion",
}}

var format = []struct{ flag, explanation string }{{
	"render",
	"Human readable rendering headed by the map type",
}, {
	"yaml",
	"YAML document",
}, {
	"json",
	"JSON document, keys in iteration order",
}, {
	"dot",
	"Graphviz DOT description of the nesting structure",
}, {
	"svg",
	"Graphviz rendering of the nesting structure as SVG (requires -out)",
}, {
	"png",
	"Graphviz rendering of the nesting structure as PNG (requires -out)",
}}

var opts = &options{}

type optInterface struct{}

type variantInterface struct{}

type formatInterface struct{}

// Opts exposes the command line configuration.
func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Verbose() bool {
	return opts.verbose
}

func (optInterface) OutFile() string {
	return opts.outFile
}

// Get returns the dot separated key path to look up, if any.
func (optInterface) Get() []string {
	if opts.get == "" {
		return nil
	}
	return strings.Split(opts.get, ".")
}

func (optInterface) Expand() bool {
	return opts.expand
}

func (optInterface) Metrics() bool {
	return opts.metrics
}

func (optInterface) LogLevel() string {
	return opts.logLevel
}

func (optInterface) Variant() variantInterface {
	return variantInterface{}
}

func (variantInterface) String() string {
	return opts.variant
}

func (variantInterface) IsOrdered() bool {
	return opts.variant == variant[_VARIANT_ORDERED].flag ||
		opts.variant == variant[_VARIANT_ORDPATHEX].flag
}

func (variantInterface) IsEcho() bool {
	return opts.variant == variant[_VARIANT_ECHO].flag
}

func (variantInterface) IsPathExpanding() bool {
	return opts.variant == variant[_VARIANT_PATHEX].flag ||
		opts.variant == variant[_VARIANT_ORDPATHEX].flag
}

func (optInterface) Format() formatInterface {
	return formatInterface{}
}

func (formatInterface) String() string {
	return opts.format
}

func (formatInterface) IsRender() bool {
	return opts.format == format[_FORMAT_RENDER].flag
}

func (formatInterface) IsYAML() bool {
	return opts.format == format[_FORMAT_YAML].flag
}

func (formatInterface) IsJSON() bool {
	return opts.format == format[_FORMAT_JSON].flag
}

func (formatInterface) IsDot() bool {
	return opts.format == format[_FORMAT_DOT].flag
}

// IsImage holds for formats rendered through graphviz.
func (formatInterface) IsImage() bool {
	return opts.format == format[_FORMAT_SVG].flag ||
		opts.format == format[_FORMAT_PNG].flag
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}

func describe(choices []struct{ flag, explanation string }) string {
	str := "\n"
	for _, c := range choices {
		str += c.flag + " -- " + c.explanation + "\n"
	}
	return str + "\n"
}

// registerFlags is deferred to ParseArgs, so packages that only import
// utils for its helpers do not see these flags on flag.CommandLine.
func registerFlags() {
	flag.StringVar(&(opts.variant), "variant", variant[_VARIANT_ORDERED].flag, "Map type to load the input into. Options:"+describe(variant))
	flag.StringVar(&(opts.format), "format", format[_FORMAT_RENDER].flag, "Output format. Options:"+describe(format))
	flag.StringVar(&(opts.outFile), "out", "", "Write output to the given file instead of stdout")
	flag.StringVar(&(opts.get), "get", "", "Print only the value at a dot separated key path, e. g. 'a.b.c'")
	flag.StringVar(&(opts.logLevel), "log-level", "warn", "Log level [trace | debug | info | warn | error | off]")
	flag.BoolVar(&(opts.expand), "expand", false, "Expand environment variables and ~ in text values of the output. Keys are listed sorted")
	flag.BoolVar(&(opts.metrics), "metrics", false, "Print a summary of the merged structure to stderr")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
}

func init() {
	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

// ParseArgs parses and validates the command line.
func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	// See https://stackoverflow.com/questions/60235896/flag-provided-but-not-defined-test-v
	registerFlags()
	flag.Parse()

	if !valid(variant, opts.variant) {
		log.Fatalf("Value \"%s\" is not valid for -variant", opts.variant)
	}
	if !valid(format, opts.format) {
		log.Fatalf("Value \"%s\" is not valid for -format", opts.format)
	}
	if Opts().Format().IsImage() && opts.outFile == "" {
		log.Fatalf("-format=%s requires -out", opts.format)
	}

	// Escape codes would end up in the file.
	if opts.outFile != "" || !Opts().Format().IsRender() {
		opts.noColorize = true
	}
}

func valid(choices []struct{ flag, explanation string }, v string) bool {
	for _, c := range choices {
		if c.flag == v {
			return true
		}
	}
	return false
}
