package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/crytic/selectors/logging/colors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger describes a custom logging object that can log events to any arbitrary channel in structured or unstructured
// format, with specialized colorized output for console channels.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// context describes the key-value pairs attached to every event emitted by this logger, in insertion order.
	context [][2]string

	// structuredLogger outputs JSON events to structuredWriters.
	structuredLogger zerolog.Logger

	// unstructuredLogger outputs human-readable, non-colorized events to unstructuredWriters.
	unstructuredLogger zerolog.Logger

	// unstructuredColorLogger outputs human-readable, colorized events to unstructuredColorWriters.
	unstructuredColorLogger zerolog.Logger

	// structuredWriters describes the writers that receive structured (JSON) output.
	structuredWriters []io.Writer

	// unstructuredWriters describes the writers that receive unstructured output with no ANSI coloring.
	unstructuredWriters []io.Writer

	// unstructuredColorWriters describes the writers that receive unstructured output with ANSI coloring.
	unstructuredColorWriters []io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger has no writers until AddWriter is
// called, so it discards everything by default.
func NewLogger(level zerolog.Level) *Logger {
	l := &Logger{level: level}
	l.rebuild()
	return l
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:                    l.level,
		context:                  append(append([][2]string{}, l.context...), [2]string{key, value}),
		structuredWriters:        append([]io.Writer{}, l.structuredWriters...),
		unstructuredWriters:      append([]io.Writer{}, l.unstructuredWriters...),
		unstructuredColorWriters: append([]io.Writer{}, l.unstructuredColorWriters...),
	}
	sub.rebuild()
	return sub
}

// AddWriter will add a writer to the list of channels where log output will be sent. Adding a writer that is already
// registered for the same format and coloring is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writerList(format, colored)
	for _, w := range *writers {
		if w == writer {
			return
		}
	}
	*writers = append(*writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist, this
// function is a no-op
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writerList(format, colored)
	for i, w := range *writers {
		if w == writer {
			*writers = append((*writers)[:i], (*writers)[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// AddFileWriter adds a size-rotated structured log file named DefaultLogFileName in the provided directory. The
// returned closer should be closed once logging is complete.
func (l *Logger) AddFileWriter(directory string) io.Closer {
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(directory, DefaultLogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	l.AddWriter(fileWriter, STRUCTURED, false)
	return fileWriter
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// writerList returns the writer list associated with a format and coloring choice.
func (l *Logger) writerList(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog loggers from the current level, context and writers.
func (l *Logger) rebuild() {
	l.structuredLogger = zerolog.Nop()
	l.unstructuredLogger = zerolog.Nop()
	l.unstructuredColorLogger = zerolog.Nop()

	if len(l.structuredWriters) > 0 {
		ctx := zerolog.New(zerolog.MultiLevelWriter(l.structuredWriters...)).Level(l.level).With().Timestamp()
		l.structuredLogger = withContext(ctx, l.context).Logger()
	}

	if len(l.unstructuredWriters) > 0 {
		consoleWriters := make([]io.Writer, 0, len(l.unstructuredWriters))
		for _, w := range l.unstructuredWriters {
			consoleWriters = append(consoleWriters, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level))
		}
		ctx := zerolog.New(zerolog.MultiLevelWriter(consoleWriters...)).Level(l.level).With()
		l.unstructuredLogger = withContext(ctx, l.context).Logger()
	}

	if len(l.unstructuredColorWriters) > 0 {
		consoleWriters := make([]io.Writer, 0, len(l.unstructuredColorWriters))
		for _, w := range l.unstructuredColorWriters {
			consoleWriters = append(consoleWriters, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w}, l.level))
		}
		ctx := zerolog.New(zerolog.MultiLevelWriter(consoleWriters...)).Level(l.level).With()
		l.unstructuredColorLogger = withContext(ctx, l.context).Logger()
	}
}

// withContext attaches key-value pairs to a zerolog context.
func withContext(ctx zerolog.Context, fields [][2]string) zerolog.Context {
	for _, field := range fields {
		ctx = ctx.Str(field[0], field[1])
	}
	return ctx
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// Panic is a wrapper function that will log a panic event
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.PanicLevel, args...)
}

// log builds the messages for every channel and emits an event at the provided level on each of them.
func (l *Logger) log(level zerolog.Level, args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Stack traces are only attached at debug verbosity or for panics
	withStack := l.level <= zerolog.DebugLevel || level == zerolog.PanicLevel

	// Every channel receives the event before a panic unwinds
	emit(l.structuredLogger.WithLevel(level), err, info, plainMsg, withStack)
	emit(l.unstructuredLogger.WithLevel(level), err, info, plainMsg, withStack)
	emit(l.unstructuredColorLogger.WithLevel(level), err, info, colorMsg, withStack)
	if level == zerolog.PanicLevel {
		panic(plainMsg)
	}
}

// emit chains the error and structured info to an event and sends it. A nil event (disabled level) is a no-op.
func emit(event *zerolog.Event, err error, info StructuredLogInfo, msg string, withStack bool) {
	if event == nil {
		return
	}
	if err != nil {
		event = event.Err(err)
		if withStack {
			event = event.Stack()
		}
	}
	if info != nil {
		event = event.Any("info", info)
	}
	event.Msg(msg)
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
// The error and the StructuredLogInfo can be used to add additional context to log messages
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	consoleOutput := make([]string, 0)
	fileOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		default:
			// In the base case, append the object to the two string buffers. The console string buffer will have the
			// current color context applied to it.
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// setupDefaultFormatting will update the console logger's formatting to the project standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	cyan := func(s any) string {
		return colors.Colorize(s, colors.CYAN)
	}

	// paint applies a color function unless the writer was configured without colors
	paint := func(colorFunc colors.ColorFunc, s any) string {
		if writer.NoColor {
			return fmt.Sprintf("%v", s)
		}
		return colorFunc(s)
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		levelStr, ok := i.(string)
		if !ok {
			return ""
		}
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsed {
		case zerolog.TraceLevel:
			return paint(colors.CyanBold, zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return paint(colors.BlueBold, zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return paint(colors.GreenBold, colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return paint(colors.YellowBold, zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return paint(colors.RedBold, zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return paint(colors.RedBold, zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return paint(colors.RedBold, zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// Messages, field names and errors go through the colors package too, so disabling colors strips every ANSI code
	writer.FormatMessage = func(i any) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("%v", i)
	}
	writer.FormatFieldName = func(i any) string {
		return paint(cyan, fmt.Sprintf("%s=", i))
	}
	writer.FormatFieldValue = func(i any) string {
		return fmt.Sprintf("%s", i)
	}
	writer.FormatErrFieldName = func(i any) string {
		return paint(cyan, fmt.Sprintf("%s=", i))
	}
	writer.FormatErrFieldValue = func(i any) string {
		return paint(colors.RedBold, fmt.Sprintf("%s", i))
	}

	// If we are above debug level, we want to get rid of the `module` component when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
