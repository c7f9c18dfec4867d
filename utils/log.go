package utils

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger builds the logger shared by the command and every map it loads.
// Output goes to stderr so it never mixes with rendered documents.
func Logger(name string) hclog.Logger {
	level := hclog.LevelFromString(opts.logLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	if opts.verbose && level > hclog.Debug {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: os.Stderr,
		Level:  level,
		Color:  colorOption(),
	})
}

func colorOption() hclog.ColorOption {
	if opts.noColorize {
		return hclog.ColorOff
	}
	return hclog.AutoColor
}
