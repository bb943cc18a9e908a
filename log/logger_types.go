package log

import (
	"io"
	"os"
	"sync"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	spacer          = " | "
)

var (
	// Global is the fallback sub logger for anything without its own
	Global *SubLogger

	// EngineLog covers backtest engine setup and run loop events
	EngineLog *SubLogger
	// ExchangeLog covers simulated order execution events
	ExchangeLog *SubLogger
	// TraderLog covers strategy coordinator lifecycle events
	TraderLog *SubLogger
	// StrategyLog covers individual strategy events
	StrategyLog *SubLogger
	// DataLog covers historical data loading events
	DataLog *SubLogger

	subLoggers = make(map[string]*SubLogger)
	mu         sync.RWMutex
)

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// SubLogger defines a sub logger for a specific subsystem, can be
// configured with its own levels and output independently
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}

type header string

const (
	infoHeader  header = "[INFO]"
	warnHeader  header = "[WARN]"
	debugHeader header = "[DEBUG]"
	errorHeader header = "[ERROR]"
)

var defaultWriter io.Writer = os.Stdout
