package log

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// NewSubLogger registers a new sub logger with default levels writing to
// stdout. Registering the same name twice returns an error
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptyLoggerName
	}
	name = strings.ToUpper(name)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := subLoggers[name]; ok {
		return nil, fmt.Errorf("'%v' %w", name, ErrSubLoggerAlreadyRegistered)
	}
	sl := &SubLogger{
		name:   name,
		levels: splitLevel(defaultLevels),
		output: defaultWriter,
	}
	subLoggers[name] = sl
	return sl, nil
}

// SetGlobalLogOutput directs every registered sub logger to w
func SetGlobalLogOutput(w io.Writer) {
	if w == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	defaultWriter = w
	for x := range subLoggers {
		subLoggers[x].output = w
	}
}

// SetGlobalLogLevel applies a pipe delimited level string, eg
// "INFO|WARN|ERROR", to every registered sub logger
func SetGlobalLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	l := splitLevel(level)
	for x := range subLoggers {
		subLoggers[x].levels = l
	}
}

// SetLevels applies a pipe delimited level string to a single sub logger
func (sl *SubLogger) SetLevels(level string) {
	mu.Lock()
	defer mu.Unlock()
	sl.levels = splitLevel(level)
}

// SetOutput directs a single sub logger to w
func (sl *SubLogger) SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	sl.output = w
}

const defaultLevels = "INFO|WARN|ERROR"

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch enabledLevels[x] {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func (sl *SubLogger) stage(h header, msg string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || sl.output == nil {
		return
	}
	fmt.Fprintf(sl.output, "%s%s%s%s%s%s%s\n",
		time.Now().Format(timestampFormat),
		spacer,
		sl.name,
		spacer,
		h,
		spacer,
		msg)
}

func (sl *SubLogger) enabled(h header) bool {
	if sl == nil {
		return false
	}
	mu.RLock()
	defer mu.RUnlock()
	switch h {
	case infoHeader:
		return sl.levels.Info
	case debugHeader:
		return sl.levels.Debug
	case warnHeader:
		return sl.levels.Warn
	case errorHeader:
		return sl.levels.Error
	}
	return false
}

// Info takes a pointer sub logger struct and logs the data at info level
func Info(sl *SubLogger, data string) {
	if !sl.enabled(infoHeader) {
		return
	}
	sl.stage(infoHeader, data)
}

// Infoln takes a pointer sub logger struct and logs the joined values at info level
func Infoln(sl *SubLogger, v ...interface{}) {
	if !sl.enabled(infoHeader) {
		return
	}
	sl.stage(infoHeader, fmt.Sprintln(v...))
}

// Infof takes a pointer sub logger struct and logs the formatted data at info level
func Infof(sl *SubLogger, data string, v ...interface{}) {
	if !sl.enabled(infoHeader) {
		return
	}
	sl.stage(infoHeader, fmt.Sprintf(data, v...))
}

// Debug takes a pointer sub logger struct and logs the data at debug level
func Debug(sl *SubLogger, data string) {
	if !sl.enabled(debugHeader) {
		return
	}
	sl.stage(debugHeader, data)
}

// Debugf takes a pointer sub logger struct and logs the formatted data at debug level
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	if !sl.enabled(debugHeader) {
		return
	}
	sl.stage(debugHeader, fmt.Sprintf(data, v...))
}

// Warn takes a pointer sub logger struct and logs the data at warn level
func Warn(sl *SubLogger, data string) {
	if !sl.enabled(warnHeader) {
		return
	}
	sl.stage(warnHeader, data)
}

// Warnf takes a pointer sub logger struct and logs the formatted data at warn level
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	if !sl.enabled(warnHeader) {
		return
	}
	sl.stage(warnHeader, fmt.Sprintf(data, v...))
}

// Error takes a pointer sub logger struct and logs the data at error level
func Error(sl *SubLogger, data string) {
	if !sl.enabled(errorHeader) {
		return
	}
	sl.stage(errorHeader, data)
}

// Errorf takes a pointer sub logger struct and logs the formatted data at error level
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	if !sl.enabled(errorHeader) {
		return
	}
	sl.stage(errorHeader, fmt.Sprintf(data, v...))
}

// register all loggers at package init()
func init() {
	Global, _ = NewSubLogger("LOG")
	EngineLog, _ = NewSubLogger("ENGINE")
	ExchangeLog, _ = NewSubLogger("EXCHANGE")
	TraderLog, _ = NewSubLogger("TRADER")
	StrategyLog, _ = NewSubLogger("STRATEGY")
	DataLog, _ = NewSubLogger("DATA")
}
