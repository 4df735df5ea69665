package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"PriceScan/internal/calculator"
	"PriceScan/internal/collector"
	"PriceScan/internal/config"
	"PriceScan/internal/dataset"
	"PriceScan/internal/notifier"
)

const usage = `usage: pricescan [-config path] <command> [flags]

commands:
  fetch    download daily and intraday bars to CSV
  reshape  reduce a bar CSV to a sorted timestamp,price CSV
  scan     summarize a timestamp,price CSV and flag large moves
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("pricescan", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	cfgPath := global.String("config", "", "config file path (default $CONFIG_PATH or "+config.DefaultPath+")")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("[FATAL] load config: %v", err)
		return 1
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "fetch":
		err = runFetch(ctx, cfg, rest, stdout, stderr)
	case "reshape":
		err = runReshape(cfg, rest, stdout, stderr)
	case "scan":
		err = runScan(ctx, cfg, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	if err != nil {
		log.Printf("[ERROR] %s: %v", cmd, err)
		return 1
	}
	return 0
}

// usageError marks flag parsing failures, already reported by the FlagSet.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err}
	}
	return nil
}

func runFetch(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.DataSource.Symbol, "symbol", cfg.DataSource.Symbol, "ticker symbol")
	fs.StringVar(&cfg.DataSource.Provider, "provider", cfg.DataSource.Provider, "data source: alphavantage, yahoo or mock")
	fs.StringVar(&cfg.DataSource.OutputDir, "out", cfg.DataSource.OutputDir, "output directory")
	fs.StringVar(&cfg.DataSource.Since, "since", cfg.DataSource.Since, "drop daily bars before this date")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := cfg.ValidateFetch(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewAlphaVantageFetcher(cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var jobs []collector.Job
	if *cfg.DataSource.IncludeDaily {
		jobs = append(jobs, collector.Job{Interval: collector.IntervalDaily, Since: cfg.DataSource.Since})
	}
	for _, iv := range cfg.DataSource.Intervals {
		jobs = append(jobs, collector.Job{Interval: iv})
	}

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.OutputDir)
	results, err := col.CollectAll(ctx, jobs)
	for _, res := range results {
		fmt.Fprintln(stdout, notifier.FormatFetchSummary(res))
	}
	if err != nil {
		return err
	}
	if cfg.DataSource.Provider == "alphavantage" {
		log.Println("[INFO] Alpha Vantage free tier allows 25 requests per day")
	}
	return nil
}

func runReshape(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("reshape", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Reshape.InputPath, "input", cfg.Reshape.InputPath, "bar CSV to read")
	fs.StringVar(&cfg.Reshape.OutputPath, "output", cfg.Reshape.OutputPath, "clean CSV to write")
	fs.StringVar(&cfg.Reshape.TimeColumn, "time-column", cfg.Reshape.TimeColumn, "column copied to timestamp")
	fs.StringVar(&cfg.Reshape.PriceColumn, "price-column", cfg.Reshape.PriceColumn, "column copied to price")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	n, err := dataset.ReshapeFile(cfg.Reshape.InputPath, cfg.Reshape.OutputPath, dataset.ReshapeOptions{
		TimeColumn:  cfg.Reshape.TimeColumn,
		PriceColumn: cfg.Reshape.PriceColumn,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Processed %d data points from %s\n", n, cfg.Reshape.InputPath)
	return nil
}

func runScan(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Scan.InputPath, "input", cfg.Scan.InputPath, "timestamp,price CSV to scan")
	threshold := fs.Float64("threshold", cfg.Threshold(), "flag moves whose absolute change exceeds this percentage")
	noColor := fs.Bool("no-color", false, "disable colored output")
	notify := fs.Bool("notify", false, "send the report to Telegram")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	cfg.Scan.ThresholdPct = threshold
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if *noColor {
		color.NoColor = true
	}

	fmt.Fprintf(stdout, "Reading data from %s...\n", cfg.Scan.InputPath)
	points, skipped, err := dataset.LoadPoints(cfg.Scan.InputPath)
	if err != nil {
		return err
	}
	for _, row := range skipped {
		log.Printf("[WARN] skipping invalid %v", row)
	}

	res, err := calculator.Scan(points, cfg.Threshold())
	if errors.Is(err, calculator.ErrNoData) {
		fmt.Fprint(stdout, notifier.FormatNoData())
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	for _, tr := range res.Undefined {
		log.Printf("[WARN] %s: previous price is zero, change undefined", tr.Timestamp)
	}

	fmt.Fprintln(stdout)
	if err := notifier.WriteScanReport(stdout, res); err != nil {
		return err
	}

	if *notify {
		if !cfg.TelegramEnabled() {
			log.Println("[WARN] -notify set but telegram.bot_token / telegram.chat_id are not configured")
			return nil
		}
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		title := fmt.Sprintf("PriceScan %s", cfg.Scan.InputPath)
		if err := tn.SendReport(ctx, title, notifier.FormatScanReport(res), 3); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		log.Println("[INFO] report sent to Telegram")
	}
	return nil
}
