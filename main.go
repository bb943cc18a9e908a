package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/config"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/data/csv"
	"github.com/thrasher-corp/backsim/data/database"
	"github.com/thrasher-corp/backsim/engine"
	"github.com/thrasher-corp/backsim/strategies"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "backsim",
		Usage: "deterministic time-stepped backtesting of trading strategies",
		Commands: []*cli.Command{
			runCommand,
			strategiesCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var strategiesCommand = &cli.Command{
	Name:  "strategies",
	Usage: "list the strategies loadable by name",
	Action: func(_ *cli.Context) error {
		for _, s := range strategies.GetStrategies() {
			fmt.Printf("%s\n\t%s\n", s.Name(), s.Description())
		}
		return nil
	},
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "replay a strategy against historical bid/ask bars",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a settings json file",
		},
		&cli.StringFlag{
			Name:     "symbol",
			Usage:    "instrument symbol the data belongs to",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "tick-size",
			Usage: "instrument tick size",
			Value: "0.0001",
		},
		&cli.StringFlag{
			Name:  "bid-csv",
			Usage: "bid side candle csv file",
		},
		&cli.StringFlag{
			Name:  "ask-csv",
			Usage: "ask side candle csv file",
		},
		&cli.StringFlag{
			Name:  "db-driver",
			Usage: "database driver, sqlite3 or postgres, used instead of csv files",
		},
		&cli.StringFlag{
			Name:  "db-dsn",
			Usage: "database data source name",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "strategy to run",
			Value: "buyandhold",
		},
		&cli.Int64Flag{
			Name:  "step-minutes",
			Usage: "simulation step size in minutes",
			Value: 1,
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "replay start, defaults to the first data timestamp",
			Layout: "2006-01-02 15:04:05",
		},
		&cli.TimestampFlag{
			Name:   "stop",
			Usage:  "replay stop, defaults to the last data timestamp",
			Layout: "2006-01-02 15:04:05",
		},
	},
	Action: runBacktest,
}

func runBacktest(c *cli.Context) error {
	settings, err := loadSettings(c.String("config"))
	if err != nil {
		return err
	}

	symbol := c.String("symbol")
	tickSize, err := decimal.NewFromString(c.String("tick-size"))
	if err != nil {
		return fmt.Errorf("invalid tick size: %w", err)
	}

	series, err := loadSeries(c, symbol)
	if err != nil {
		return err
	}

	strategy, err := strategies.LoadStrategyByName(c.String("strategy"))
	if err != nil {
		return err
	}

	instruments := []data.Instrument{{Symbol: symbol, TickSize: tickSize}}
	bars := map[string]data.BidAskBars{symbol: series}

	bt, err := engine.New(settings, instruments, bars, nil, []strategies.Handler{strategy})
	if err != nil {
		return err
	}

	index := data.BuildMinuteIndex([]string{symbol}, bars)
	start := index[0]
	stop := index[len(index)-1]
	if t := c.Timestamp("start"); t != nil {
		start = t.UTC()
	}
	if t := c.Timestamp("stop"); t != nil {
		stop = t.UTC()
	}
	step := time.Duration(c.Int64("step-minutes")) * time.Minute

	if err := bt.Run(start, stop, step); err != nil {
		return err
	}

	stats, err := bt.PerformanceStats()
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

func loadSettings(path string) (*config.Settings, error) {
	if path != "" {
		return config.ReadSettingsFromFile(path)
	}
	return &config.Settings{
		StartingCapital:   decimal.NewFromInt(1000000),
		Currency:          "USD",
		CommissionRateBps: decimal.NewFromFloat(0.20),
		RandomSeed:        42,
	}, nil
}

func loadSeries(c *cli.Context, symbol string) (data.BidAskBars, error) {
	if driver := c.String("db-driver"); driver != "" {
		db, err := database.Connect(database.Config{Driver: driver, DSN: c.String("db-dsn")})
		if err != nil {
			return data.BidAskBars{}, err
		}
		defer db.Close()
		return database.LoadBidAskBars(db, symbol)
	}
	bidPath := c.String("bid-csv")
	askPath := c.String("ask-csv")
	if bidPath == "" || askPath == "" {
		return data.BidAskBars{}, fmt.Errorf("either --db-driver or both --bid-csv and --ask-csv are required")
	}
	return csv.LoadBidAskBars(bidPath, askPath)
}

func printStats(stats map[string]float64) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-16s %v\n", k, stats[k])
	}
}
