package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	fieldIndent = "\n         \033[30m- "
	fieldReset  = ": \033[0m"
	cyan        = "\033[36m"
	red         = "\033[31m"
)

// Level maps the -debug switch onto a zerolog level.
func Level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// New returns a console logger on stderr tagged with module.
func New(module string, level zerolog.Level) zerolog.Logger {
	return NewWriter(os.Stderr, module, level)
}

// NewWriter is New with the output chosen by the caller. Tests pass io.Discard
// or a buffer.
func NewWriter(w io.Writer, module string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(consoleWriter(w)).
		Level(level).
		With().
		Timestamp().
		Str("module", module).
		Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:                   w,
		TimeFormat:            "15:04",
		PartsOrder:            []string{"time", "level", "module", "message"},
		FieldsExclude:         []string{"module"},
		FormatPartValueByName: moduleTag,
		FormatFieldName:       fieldName(cyan),
		FormatErrFieldName:    fieldName(red),
	}
}

func moduleTag(i any, part string) string {
	if part != "module" || i == nil {
		return ""
	}
	return strings.ToUpper(fmt.Sprint(i))
}

func fieldName(color string) zerolog.Formatter {
	return func(i any) string {
		return fieldIndent + color + fmt.Sprint(i) + fieldReset
	}
}
