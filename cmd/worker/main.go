package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nketchum/sidebet/internal/app"
	"github.com/nketchum/sidebet/internal/config"
	"github.com/nketchum/sidebet/internal/observability"
	"github.com/nketchum/sidebet/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	season := flags.Int("season", 0, "league season, defaults to LEAGUE_SEASON")
	week := flags.Int("week", 0, "league week (1-18)")
	_ = flags.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown tracing", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init profiler", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("stop profiler", "error", err)
		}
	}()

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofServer, logger, 5*time.Second); err != nil {
			logger.Warn("stop pprof server", "error", err)
		}
	}()

	runtime, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	if *season == 0 {
		*season = cfg.Season
	}
	if *week <= 0 {
		logger.Error("a positive -week is required")
		printUsage()
		os.Exit(2)
	}

	if err := dispatch(ctx, runtime, command, *season, *week); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

// dispatch runs one pipeline stage, or all of them in order for "run".
func dispatch(ctx context.Context, runtime *app.App, command string, season, week int) error {
	switch command {
	case "import":
		_, err := runtime.Schedule.ImportWeek(ctx, season, week)
		return err
	case "repair":
		summary, err := runtime.Repairs.RepairAll(ctx, season, week)
		if err != nil {
			return err
		}
		reportIssues(runtime, summary.Issues)
		return nil
	case "sync":
		summary, err := runtime.ScoreSync.SyncWeek(ctx, season, week)
		if err != nil {
			return err
		}
		reportIssues(runtime, summary.Issues)
		return nil
	case "settle":
		_, err := runtime.Settlement.SettleWeek(ctx, season, week)
		return err
	case "run":
		for _, stage := range []string{"import", "repair", "sync", "settle"} {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := dispatch(ctx, runtime, stage, season, week); err != nil {
				return fmt.Errorf("%s: %w", stage, err)
			}
		}
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func reportIssues(runtime *app.App, issues []string) {
	for _, issue := range issues {
		runtime.Logger.Warn("batch issue", "issue", issue)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: worker <import|repair|sync|settle|run> -week N [-season YYYY]")
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintln(os.Stderr, "  worker run -week 1")
	fmt.Fprintln(os.Stderr, "  worker settle -season 2025 -week 1")
}
