// Package constants contains names and defaults shared across scour.
package constants

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "scour"

	// LogFilename is the default log file name.
	LogFilename = "scour.log"

	// PatternsFilename is the default rule file name.
	PatternsFilename = "patterns.yaml"

	// DefaultLanguages are the language suffixes processed when none are given.
	DefaultLanguages = "en,de,fr,es,it,pt"
)
