package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	SetLoggerConsole(false)
}

var ColourDisabled bool

// ANSI colour codes used by the console writer.
const (
	colorBlack   = 30
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorMagenta = 35
	colorBold    = 1
)

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Default "verb" behaviour.
func V[T any](copyThatEscapes T) string {
	return fmt.Sprintf("%v", copyThatEscapes)
}

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Uses the given format string.
func F[T any](f string, copyThatEscapes T) string {
	return fmt.Sprintf(f, copyThatEscapes)
}

func colorize(s string, c int) string {
	if ColourDisabled {
		return s
	}
	return "\x1b[" + strconv.Itoa(c) + "m" + s + "\x1b[0m"
}

// Verbosity: negative is warnings only, 0 info, 1 debug, 2+ trace.
func SetLevel(level int) {
	switch {
	case level < 0:
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	case level == 0:
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	case level == 1:
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	default:
		log.Logger = log.Logger.Level(zerolog.TraceLevel)
	}
}

func SetLoggerConsole(noColour bool) {
	SetLoggerConsoleTo(os.Stdout, noColour)
}

// Plain JSON lines, for when output is collected by a machine.
func SetLoggerJSON(out io.Writer) {
	ColourDisabled = true
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
}

func SetLoggerConsoleTo(out io.Writer, noColour bool) {
	ColourDisabled = noColour
	zerolog.CallerMarshalFunc = callerMarshal

	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: noColour}
	cw.FormatCaller = consoleFormatCaller
	cw.FormatLevel = consoleFormatLevel
	cw.PartsOrder = []string{
		zerolog.TimestampFieldName,
		zerolog.CallerFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}
	log.Logger = log.With().Caller().Logger().Output(cw)
}

// "file.go.123 " padded to a fixed width, trimmed from the left when too long.
func callerMarshal(_ uintptr, file string, line int) string {
	short := fmt.Sprintf("%15s.%-4s", filepath.Base(file), strconv.Itoa(line))
	if len(short) > 20 {
		short = ".." + short[len(short)-18:]
	}
	return colorize(short, colorBlack)
}

func consoleFormatCaller(i any) string {
	c, _ := i.(string)
	if c == "" {
		return ""
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, c); err == nil {
			c = rel
		}
	}
	return colorize(c, colorBold)
}

type levelStyle struct {
	label  string
	colour int
	bold   bool
}

var levelStyles = map[string]levelStyle{
	zerolog.LevelTraceValue: {"| TRACE |", colorMagenta, false},
	zerolog.LevelDebugValue: {"| DEBUG |", colorYellow, false},
	zerolog.LevelInfoValue:  {"| INFO  |", colorGreen, false},
	zerolog.LevelWarnValue:  {"| WARN  |", colorRed, false},
	zerolog.LevelErrorValue: {"| ERROR |", colorRed, true},
	zerolog.LevelFatalValue: {"| FATAL |", colorRed, true},
	zerolog.LevelPanicValue: {"| PANIC |", colorRed, true},
}

func consoleFormatLevel(i any) string {
	if i == nil {
		return colorize("| ??? |", colorBold)
	}
	l, ok := i.(string)
	if !ok {
		return strings.ToUpper(fmt.Sprintf("| %5v |", i))
	}
	style, ok := levelStyles[l]
	if !ok {
		return colorize(l, colorBold)
	}
	out := colorize(style.label, style.colour)
	if style.bold {
		out = colorize(out, colorBold)
	}
	return out
}

// Logs current heap usage at debug level, returns the heap in use (bytes).
func MemoryStats() (heapInUse uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Debug().Msg("(MiB): Alloc: " + V(m.Alloc/1024/1024) + " Sys: " + V(m.Sys/1024/1024) +
		" TotalAlloc: " + V(m.TotalAlloc/1024/1024) +
		" HeapInuse: " + V(m.HeapInuse/1024/1024) +
		". (#): NumGC: " + V(m.NumGC))
	return m.HeapInuse
}
