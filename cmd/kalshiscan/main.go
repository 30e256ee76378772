package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rgoodman/kalshi-scan/internal/api"
	"github.com/rgoodman/kalshi-scan/internal/auth"
	"github.com/rgoodman/kalshi-scan/internal/config"
	"github.com/rgoodman/kalshi-scan/internal/depth"
	"github.com/rgoodman/kalshi-scan/internal/scan"
	"github.com/rgoodman/kalshi-scan/internal/surface"
	"github.com/rgoodman/kalshi-scan/internal/version"
)

const (
	envAPIKeyID      = "KALSHI_API_KEY_ID"
	envPrivateKey    = "KALSHI_PRIVATE_KEY_PATH"
	perDetectorPrint = 15
)

func usage() {
	fmt.Fprintf(os.Stderr, `kalshiscan %s

Usage:
  kalshiscan discover    [-config path] [-top-n N] [-output path]
  kalshiscan scan        [-config path] [-input path] [-output path]
  kalshiscan depth-check [-config path] [-input path] [-top N]

discover pulls the full open-market surface and writes the snapshot
artifact. scan runs the contradiction detectors over a snapshot and
writes the report artifact. depth-check re-derives the snapshot's
monotonicity inversions and re-prices them against live orderbooks.
`, version.String())
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Set up structured logging
	verbose := false
	for _, arg := range os.Args[2:] {
		if arg == "-v" || arg == "--v" {
			verbose = true
		}
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// A .env file is optional; real environments set the variables directly.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var err error
	switch os.Args[1] {
	case "discover":
		err = runDiscover(ctx, logger, os.Args[2:])
	case "scan":
		err = runScan(ctx, logger, os.Args[2:])
	case "depth-check":
		err = runDepthCheck(ctx, logger, os.Args[2:])
	case "version":
		fmt.Println(version.String())
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("run failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional config file, or falls back to defaults.
func loadConfig(path string) (*config.ScannerConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadAndValidate(path)
}

// newClient resolves credentials and builds the signed API client.
// Environment variables win over the config file. Missing credentials are
// the one fatal startup condition for commands that reach the venue.
func newClient(cfg *config.ScannerConfig, logger *slog.Logger) (*api.Client, error) {
	keyID := cfg.API.APIKey
	if v := os.Getenv(envAPIKeyID); v != "" {
		keyID = v
	}
	keyPath := cfg.API.PrivateKeyPath
	if v := os.Getenv(envPrivateKey); v != "" {
		keyPath = v
	}
	if keyID == "" || keyPath == "" {
		return nil, fmt.Errorf("missing credentials: set %s and %s", envAPIKeyID, envPrivateKey)
	}

	creds, err := auth.LoadCredentials(keyID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	return api.NewClient(
		cfg.API.RestURL,
		creds,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit),
		api.WithMaxInFlight(cfg.API.MaxInFlight),
	), nil
}

func runDiscover(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	topN := fs.Int("top-n", -1, "orderbooks to prefetch for the highest-volume markets (-1 = config value)")
	output := fs.String("output", "", "snapshot output path (default from config)")
	fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *topN >= 0 {
		cfg.Surface.TopBooks = *topN
	}
	if *output != "" {
		cfg.Output.SurfacePath = *output
	}

	logger.Info("starting discovery",
		"version", version.Version,
		"api_url", cfg.API.RestURL,
		"top_books", cfg.Surface.TopBooks,
	)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	// The status call is informational; the sweep still runs without it.
	if status, err := client.GetExchangeStatus(ctx); err != nil {
		logger.Warn("exchange status unavailable", "error", err)
	} else {
		logger.Info("exchange status",
			"exchange_active", status.ExchangeActive,
			"trading_active", status.TradingActive,
		)
		if !status.TradingActive {
			logger.Warn("trading is halted; quotes may be stale")
		}
	}

	surf, err := surface.NewBuilder(client, logger).Build(ctx, cfg.Surface.TopBooks)
	if err != nil {
		return err
	}
	if err := surface.WriteSnapshot(cfg.Output.SurfacePath, surf); err != nil {
		return err
	}

	logger.Info("snapshot written",
		"path", cfg.Output.SurfacePath,
		"run_id", surf.RunID,
		"events_truncated", surf.Summary.EventsTruncated,
		"markets_truncated", surf.Summary.MarketsTruncated,
	)
	printSurfaceSummary(surf)
	return nil
}

func printSurfaceSummary(surf *surface.Surface) {
	s := surf.Summary
	fmt.Printf("run %s: %d events, %d markets (%d orphans, %d anomalies)\n",
		surf.RunID, s.TotalEvents, s.TotalMarkets, s.OrphanMarkets, s.AnomalyCount)
	fmt.Printf("orderbooks populated %d/%d\n", s.OrderbooksPopulated, s.OrderbooksRequested)

	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := s.Categories[name]
		fmt.Printf("  %-24s %4d events  %5d markets  vol24h %d\n",
			name, c.Events, c.Markets, c.Volume24h)
	}
}

func runScan(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	input := fs.String("input", "", "snapshot input path (default from config)")
	output := fs.String("output", "", "report output path (default from config)")
	fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *input != "" {
		cfg.Output.SurfacePath = *input
	}
	if *output != "" {
		cfg.Output.ContradictionsPath = *output
	}

	surf, err := surface.LoadSnapshot(cfg.Output.SurfacePath)
	if err != nil {
		return err
	}
	logger.Info("snapshot loaded",
		"path", cfg.Output.SurfacePath,
		"run_id", surf.RunID,
		"markets", len(surf.Markets),
	)

	opps, counts := scan.NewScanner(logger).Scan(surf.Markets, surf.Events)
	report := scan.NewReport(opps, counts)
	if err := scan.WriteReport(cfg.Output.ContradictionsPath, report); err != nil {
		return err
	}

	printReport(report)
	logger.Info("report written", "path", cfg.Output.ContradictionsPath, "total", counts.Total)
	return nil
}

func runDepthCheck(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("depth-check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	input := fs.String("input", "", "snapshot input path (default from config)")
	top := fs.Int("top", 0, "inversions to report (0 = config value)")
	fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *input != "" {
		cfg.Output.SurfacePath = *input
	}
	if *top > 0 {
		cfg.Depth.Top = *top
	}

	// Inversions are re-derived from the snapshot rather than read from a
	// report file, so ranking never depends on a prior scan invocation.
	surf, err := surface.LoadSnapshot(cfg.Output.SurfacePath)
	if err != nil {
		return err
	}
	inversions := scan.DetectMonotonicity(surf.Markets)
	logger.Info("snapshot loaded",
		"path", cfg.Output.SurfacePath,
		"run_id", surf.RunID,
		"inversions", len(inversions),
	)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ranker := depth.NewRanker(client, logger, depth.WithConcurrency(cfg.Depth.Concurrency))
	res, err := ranker.Rank(ctx, inversions, cfg.Depth.Top)
	if err != nil {
		return err
	}

	printRanked(res)
	return nil
}

func printReport(report *scan.Report) {
	fmt.Printf("run %s: %d contradictions\n", report.RunID, report.ScanCounts.Total)
	fmt.Printf("  binary_complement %d  multi_outcome %d  monotonicity %d  cross_event %d  crypto_time %d\n\n",
		report.ScanCounts.BinaryComplement, report.ScanCounts.MultiOutcome,
		report.ScanCounts.Monotonicity, report.ScanCounts.CrossEvent,
		report.ScanCounts.CryptoTime)

	printed := make(map[string]int)
	for _, opp := range report.Contradictions {
		kind := string(opp.ScanKind)
		if printed[kind] >= perDetectorPrint {
			continue
		}
		printed[kind]++
		proxy := ""
		if opp.ProfitIsProxy {
			proxy = " (proxy)"
		}
		fmt.Printf("[%-6s] %-17s %3dc%s  %s\n",
			opp.Severity, kind, opp.ProfitCents, proxy, opp.Description)
	}
}

func printRanked(res *depth.Result) {
	fmt.Printf("ranked %d inversions (closed %d, no depth %d, books %d fetched / %d failed)\n",
		len(res.Ranked), res.Closed, res.NoDepth, res.BooksFetched, res.BooksFailed)
	for i, ri := range res.Ranked {
		fmt.Printf("%2d. score %-6d exec %2dc  depth %d/%d\n",
			i+1, ri.Score, ri.ExecProfitCents, ri.LoDepth, ri.HiDepth)
		fmt.Printf("    buy YES %s @ %dc, buy NO %s @ %dc, up to %d contracts\n",
			ri.Markets[0].Ticker, ri.LoAskCents,
			ri.Markets[1].Ticker, 100-ri.HiBidCents, ri.MinDepth)
	}
}
