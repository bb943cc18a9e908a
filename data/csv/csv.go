// Package csv loads bid/ask bar series from candle CSV files with the
// column layout timestamp,open,high,low,close,volume. Timestamps may be
// unix seconds or formatted as 2006-01-02 15:04:05
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/common"
	"github.com/thrasher-corp/backsim/data"
)

const columnsPerRecord = 6

var (
	// ErrNoRecords is returned when a file contains no bar records
	ErrNoRecords = errors.New("no records in csv file")

	errBadRecord = errors.New("malformed csv record")
)

// LoadBidAskBars reads a bid side and an ask side candle file into an
// aligned series ready for the data client
func LoadBidAskBars(bidPath, askPath string) (data.BidAskBars, error) {
	bid, err := LoadBars(bidPath)
	if err != nil {
		return data.BidAskBars{}, err
	}
	ask, err := LoadBars(askPath)
	if err != nil {
		return data.BidAskBars{}, err
	}
	return data.BidAskBars{Bid: bid, Ask: ask}, nil
}

// LoadBars reads a single candle file into a bar series
func LoadBars(path string) ([]data.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = columnsPerRecord
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	if len(records) > 0 && records[0][0] == "timestamp" {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%v: %w", path, ErrNoRecords)
	}

	bars := make([]data.Bar, 0, len(records))
	for i := range records {
		bar, err := parseRecord(records[i])
		if err != nil {
			return nil, fmt.Errorf("%v line %v: %w", path, i+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRecord(record []string) (data.Bar, error) {
	at, err := parseTime(record[0])
	if err != nil {
		return data.Bar{}, err
	}
	fields := make([]decimal.Decimal, columnsPerRecord-1)
	for i := 1; i < columnsPerRecord; i++ {
		fields[i-1], err = decimal.NewFromString(record[i])
		if err != nil {
			return data.Bar{}, fmt.Errorf("%w: column %v %q", errBadRecord, i, record[i])
		}
	}
	return data.Bar{
		Time:   at,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}

func parseTime(value string) (time.Time, error) {
	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	at, err := time.Parse(common.SimpleTimeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", errBadRecord, value)
	}
	return at.UTC(), nil
}
