package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"squeeze-scanner/internal/config"
	"squeeze-scanner/internal/delivery/httpapi"
	wsdelivery "squeeze-scanner/internal/delivery/websocket"
	"squeeze-scanner/internal/domain"
	"squeeze-scanner/internal/infrastructure/db"
	"squeeze-scanner/internal/infrastructure/fcm"
	"squeeze-scanner/internal/infrastructure/mailer"
	"squeeze-scanner/internal/infrastructure/marketdata"
	"squeeze-scanner/internal/repository"
	"squeeze-scanner/internal/universe"
	"squeeze-scanner/internal/usecase"
)

func main() {
	symbolsArg := flag.String("s", "", "comma-separated symbols to scan instead of the watchlist")
	universeFile := flag.String("universe", "", "path to a watchlist file, one symbol per line")
	serve := flag.Bool("serve", false, "keep running: rescan on an interval and serve HTTP/websocket")
	daily := flag.Bool("daily", false, "scan the daily timeframe instead of weekly")
	workers := flag.Int("workers", 0, "override worker pool size")
	csvPath := flag.String("csv", "", "write bullish fires to this CSV file")
	sendEmail := flag.Bool("email", false, "email the bullish fire report")
	emailDryRun := flag.Bool("email-dry-run", false, "render the report email without sending it")
	noStore := flag.Bool("no-store", false, "skip database persistence even when DATABASE_URL is set")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration load failed")
	}
	if *daily {
		cfg.Timeframe = usecase.TimeframeDaily
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	symbols, err := resolveUniverse(*symbolsArg, *universeFile)
	if err != nil {
		log.Fatal().Err(err).Msg("universe load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := marketdata.NewClient(cfg.MarketDataBaseURL, cfg.RequestsPerSecond, log)

	scanCfg := usecase.DefaultScanConfig()
	scanCfg.Timeframe = cfg.Timeframe
	scanCfg.Workers = cfg.Workers
	scanCfg.MinAvgVolume = cfg.MinAvgVolume
	scanner := usecase.NewScanUsecase(provider, usecase.DefaultAnalyzerConfig(), scanCfg, log)

	var signalStore *repository.PostgresSignalRepository
	if cfg.DatabaseURL != "" && !*noStore {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		signalStore = repository.NewPostgresSignalRepository(pool)
	}

	fcmClient, err := fcm.NewClient(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("fcm initialization failed")
	}
	var notifier *usecase.Notifier
	if fcmClient.IsEnabled() {
		notifier = usecase.NewNotifier(fcmClient, cfg.AlertTopic, cfg.AlertMinScore, cfg.AlertCooldown, log)
	}

	var reporter *mailer.Mailer
	if *sendEmail || *emailDryRun {
		if !cfg.EmailConfigured() && !*emailDryRun {
			log.Fatal().Msg("EMAIL_FROM and EMAIL_TO must be set to send the report")
		}
		reporter = mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			To:       cfg.EmailTo,
			DryRun:   *emailDryRun,
		}, log)
	}

	runOnce := func(ctx context.Context) (*domain.ScanResult, error) {
		result, err := scanner.Scan(ctx, symbols)
		if err != nil {
			return nil, err
		}
		if signalStore != nil {
			if err := signalStore.UpsertSignals(ctx, result.FiredBullish); err != nil {
				log.Error().Err(err).Msg("signal persistence failed")
			}
			if err := signalStore.RecordScanRun(ctx, result); err != nil {
				log.Error().Err(err).Msg("scan bookkeeping failed")
			}
		}
		if notifier != nil {
			notifier.NotifyBullishFires(ctx, result.FiredBullish)
		}
		if reporter != nil {
			if err := reporter.SendFireReport(result); err != nil {
				log.Error().Err(err).Msg("fire report email failed")
			}
		}
		return result, nil
	}

	if *serve {
		runServer(ctx, cfg, runOnce, log)
		return
	}

	result, err := runOnce(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("scan failed")
	}
	printResult(result)
	if *symbolsArg != "" {
		printDetails(result)
	}

	if *csvPath != "" {
		if err := writeCSVFile(*csvPath, result); err != nil {
			log.Fatal().Err(err).Str("path", *csvPath).Msg("csv export failed")
		}
		log.Info().Str("path", *csvPath).Msg("csv written")
	}
}

func resolveUniverse(symbolsArg, universeFile string) ([]string, error) {
	switch {
	case symbolsArg != "":
		return universe.FromArgs(symbolsArg)
	case universeFile != "":
		return universe.FromFile(universeFile)
	default:
		return universe.Default(), nil
	}
}

// runServer rescans on the configured interval and serves the latest result
// over HTTP and websocket until the context is cancelled.
func runServer(ctx context.Context, cfg *config.Config, runOnce func(context.Context) (*domain.ScanResult, error), log zerolog.Logger) {
	repo := repository.NewScanResultRepository()

	mux := http.NewServeMux()
	httpapi.NewHandler(repo, log).Register(mux)
	mux.HandleFunc("/ws", wsdelivery.NewHandler(repo, 30*time.Second, log).Handle)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	scan := func() {
		result, err := runOnce(ctx)
		if err != nil {
			log.Error().Err(err).Msg("scheduled scan failed")
			return
		}
		repo.SaveResult(result)
	}

	scan()
	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			scan()
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			return
		}
	}
}

func printResult(r *domain.ScanResult) {
	fmt.Printf("\nScan completed %s (%s timeframe)\n", r.ScannedAt.Format("2006-01-02 15:04 MST"), r.Timeframe)
	fmt.Printf("fired bullish: %d  fired bearish: %d  ready: %d  in compression: %d\n\n",
		len(r.FiredBullish), len(r.FiredBearish), len(r.Ready), len(r.InCompression))

	if len(r.FiredBullish) > 0 {
		fmt.Println("FIRED BULLISH")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TICKER\tSECTOR\tSCORE\tMOMENTUM\tBARS\tPRICE\tCHANGE")
		for _, s := range r.FiredBullish {
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%+.2f\t%d\t%.2f\t%+.2f%%\n",
				s.Symbol, s.Sector, s.Score, s.Momentum, s.BarsInCompression, s.CurrentPrice, s.PeriodChangePct)
		}
		w.Flush()
		fmt.Println()
	}

	if len(r.FiredBearish) > 0 {
		fmt.Println("FIRED BEARISH")
		for _, v := range r.FiredBearish {
			fmt.Printf("  %-6s momentum %+.2f after %d bars\n", v.Symbol, v.Momentum, v.BarsInCompression)
		}
		fmt.Println()
	}

	if len(r.Ready) > 0 {
		fmt.Println("READY TO FIRE")
		for _, v := range r.Ready {
			fmt.Printf("  %-6s %s squeeze, %d bars, momentum %+.2f\n", v.Symbol, v.Tier, v.BarsInCompression, v.Momentum)
		}
		fmt.Println()
	}
}

// printDetails dumps every verdict field, used for ad-hoc single-symbol runs.
func printDetails(r *domain.ScanResult) {
	var verdicts []domain.Verdict
	for _, s := range r.FiredBullish {
		verdicts = append(verdicts, s.Verdict)
	}
	verdicts = append(verdicts, r.FiredBearish...)
	verdicts = append(verdicts, r.Ready...)
	verdicts = append(verdicts, r.InCompression...)

	for _, v := range verdicts {
		status, _ := v.Status()
		fmt.Printf("%s (%s)\n", v.Symbol, v.Sector)
		fmt.Printf("  status: %s  tier: %s  bars in compression: %d\n", status, v.Tier, v.BarsInCompression)
		fmt.Printf("  momentum: %+.4f  accel: %+.4f  rising: %t  positive: %t\n",
			v.Momentum, v.MomentumAccel, v.MomentumRising, v.MomentumPositive)
		fmt.Printf("  price: %.2f  prior: %.2f  change: %+.2f%%  avg volume: %.0f\n",
			v.CurrentPrice, v.PriorPrice, v.PeriodChangePct, v.AvgVolume)
		fmt.Printf("  last bar: %s  stale: %t\n\n", v.LastBarTime.Format("2006-01-02"), v.DataStale)
	}
}

func writeCSVFile(path string, result *domain.ScanResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return repository.WriteFiredCSV(f, result)
}
