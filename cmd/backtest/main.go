package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	engine "github.com/rxtech-lab/argo-crossover/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// runAction loads the engine configuration, runs the crossover backtest over every
// data file matching --data and prints one summary line per symbol.
func runAction(ctx context.Context, cmd *cli.Command) error {
	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	config := ""

	if path := cmd.String("config"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}

		config = string(content)
	}

	backtestEngine := engine_v1.NewBacktestEngineV1()
	if withLogger, ok := backtestEngine.(*engine_v1.BacktestEngineV1); ok {
		withLogger.SetLogger(log)
	}

	if err := backtestEngine.Initialize(config); err != nil {
		return err
	}

	dataSource, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return err
	}
	defer dataSource.Close()

	if err := backtestEngine.SetDataSource(dataSource); err != nil {
		return err
	}

	if err := backtestEngine.SetDataPath(cmd.String("data")); err != nil {
		return err
	}

	resultsFolder := cmd.String("results")
	if err := backtestEngine.SetResultsFolder(resultsFolder); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onStart := engine.OnBacktestStartCallback(func(totalDataFiles int) error {
		bar = progressbar.Default(int64(totalDataFiles), "backtesting")

		return nil
	})
	onProcess := engine.OnProcessDataCallback(func(current int, total int) error {
		return bar.Set(current)
	})
	onRunEnd := engine.OnRunEndCallback(func(dataFileIndex int, dataFilePath string, resultFolderPath string) {
		log.Debug("Results written",
			zap.String("data", dataFilePath),
			zap.String("results", resultFolderPath),
		)
	})

	err = backtestEngine.Run(ctx, engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnProcessData:   &onProcess,
		OnRunEnd:        &onRunEnd,
	})
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return err
	}

	stats, err := types.ReadRunStats(filepath.Join(resultsFolder, "stats.yaml"))
	if err != nil {
		return err
	}

	fmt.Println()

	for _, s := range stats {
		fmt.Printf("%-8s bars=%-5d trades=%-3d final=%.2f return=%.2f%% volatility=%s\n",
			s.Symbol, s.NumberOfBars, s.TradeResult.NumberOfTrades, s.FinalBalance, s.TotalReturn,
			formatOptional(s.AnnualizedVolatility))
	}

	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := engine_v1.NewBacktestEngineV1().GetConfigSchema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func formatOptional(value *float64) string {
	if value == nil {
		return "n/a"
	}

	return fmt.Sprintf("%.4f", *value)
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Backtest the moving-average crossover strategy on daily bar files",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the backtest over every data file matching --data",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the engine configuration `YAML` (defaults apply when omitted)",
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Glob of parquet or csv bar files, e.g. `data/*.parquet`",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Output directory, replaced on every run",
						Value:   "results",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log debug output",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the engine configuration",
				Action: schemaAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
