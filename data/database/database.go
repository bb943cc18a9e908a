// Package database loads bid/ask bar series from a SQL store. Bars live in
// a single table keyed by symbol and side:
//
//	CREATE TABLE bars (
//	    symbol    TEXT    NOT NULL,
//	    side      TEXT    NOT NULL,
//	    timestamp INTEGER NOT NULL,
//	    open      TEXT    NOT NULL,
//	    high      TEXT    NOT NULL,
//	    low       TEXT    NOT NULL,
//	    close     TEXT    NOT NULL,
//	    volume    TEXT    NOT NULL
//	);
//
// Timestamps are unix seconds. Prices are stored as text to avoid float
// round-tripping
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	// import the supported sql drivers
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/data"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	sideBid = "bid"
	sideAsk = "ask"
)

var (
	// ErrUnsupportedDriver is returned for driver names other than sqlite3
	// and postgres
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	// ErrNoRecords is returned when a symbol has no bars stored
	ErrNoRecords = errors.New("no bar records for symbol")

	errEmptyDSN = errors.New("no data source name provided")
)

// Config identifies the store to connect to
type Config struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// Connect opens the configured database and verifies it is reachable
func Connect(cfg Config) (*sql.DB, error) {
	if cfg.Driver != DriverSQLite && cfg.Driver != DriverPostgres {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, errEmptyDSN
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// LoadBidAskBars reads both sides of a symbol's bar series in timestamp
// order
func LoadBidAskBars(db *sql.DB, symbol string) (data.BidAskBars, error) {
	bid, err := loadSide(db, symbol, sideBid)
	if err != nil {
		return data.BidAskBars{}, err
	}
	ask, err := loadSide(db, symbol, sideAsk)
	if err != nil {
		return data.BidAskBars{}, err
	}
	return data.BidAskBars{Bid: bid, Ask: ask}, nil
}

func loadSide(db *sql.DB, symbol, side string) ([]data.Bar, error) {
	rows, err := db.Query(
		`SELECT timestamp, open, high, low, close, volume FROM bars WHERE symbol = $1 AND side = $2 ORDER BY timestamp`,
		symbol, side)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []data.Bar
	for rows.Next() {
		var unix int64
		var open, high, low, closePrice, volume string
		if err := rows.Scan(&unix, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, err
		}
		bar := data.Bar{Time: time.Unix(unix, 0).UTC()}
		for _, field := range []struct {
			raw  string
			dest *decimal.Decimal
		}{
			{open, &bar.Open},
			{high, &bar.High},
			{low, &bar.Low},
			{closePrice, &bar.Close},
			{volume, &bar.Volume},
		} {
			*field.dest, err = decimal.NewFromString(field.raw)
			if err != nil {
				return nil, fmt.Errorf("symbol %v at %v: %w", symbol, bar.Time, err)
			}
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w %v side %v", ErrNoRecords, symbol, side)
	}
	return bars, nil
}
