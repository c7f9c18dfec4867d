package utils

import (
	"strings"

	"github.com/fatih/color"
)

var pathColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgBlue).SprintFunc())(is...)
}
var keyColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
}
var errColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
}

// FileString decorates an input file name for terminal output.
func FileString(path string) string {
	return pathColor(path)
}

// KeyPathString joins a key path with dots, decorated for terminal output.
func KeyPathString(keys []string) string {
	return keyColor(strings.Join(keys, "."))
}

// ErrString decorates an error message for terminal output.
func ErrString(err error) string {
	return errColor(err.Error())
}
