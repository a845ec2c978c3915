package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	statsFileName      = "stats.yaml"
	tradesFileName     = "trades.parquet"
	indicatorsFileName = "indicators.parquet"
	equityFileName     = "equity.parquet"
)

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	dataPaths     []string
	resultsFolder string
	log           *logger.Logger
	datasource    datasource.DataSource
	// callbackMu keeps lifecycle callbacks from running concurrently.
	callbackMu sync.Mutex
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:        EmptyConfig(),
		dataPaths:     nil,
		resultsFolder: "",
		log:           nil,
		datasource:    nil,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	b.config = EmptyConfig()

	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	if b.log == nil {
		log, err := logger.NewLogger()
		if err != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
		}

		b.log = log
	}

	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	return nil
}

// SetLogger replaces the engine logger. Call it before Initialize to keep
// Initialize from creating a production logger.
func (b *BacktestEngineV1) SetLogger(log *logger.Logger) {
	b.log = log
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	files, err := filepath.Glob(path)
	if err != nil {
		b.logger().Error("Failed to set data path",
			zap.String("path", path),
			zap.Error(err),
		)

		return errors.Wrapf(errors.ErrCodeBacktestDataPathError, err, "invalid data path pattern %s", path)
	}

	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			b.logger().Error("Failed to get absolute path",
				zap.String("path", file),
				zap.Error(err),
			)

			return errors.Wrapf(errors.ErrCodeBacktestDataPathError, err, "failed to resolve %s", file)
		}

		absolutePaths[i] = absPath
	}

	b.dataPaths = absolutePaths
	b.logger().Debug("Data paths set",
		zap.Strings("files", absolutePaths),
	)

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.logger().Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	b.datasource = datasource

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Run implements engine.Engine. Data files run in parallel up to the configured
// concurrency; the first failure cancels the remaining files. The statistics of
// every completed run are collected in <results>/stats.yaml in data path order.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (err error) {
	if callbacks.OnBacktestEnd != nil {
		defer func() {
			b.callbackMu.Lock()
			defer b.callbackMu.Unlock()

			(*callbacks.OnBacktestEnd)(err)
		}()
	}

	if err := b.preRunCheck(); err != nil {
		return err
	}

	if err := b.invoke(func() error {
		if callbacks.OnBacktestStart == nil {
			return nil
		}

		return (*callbacks.OnBacktestStart)(len(b.dataPaths))
	}); err != nil {
		return errors.Wrap(errors.ErrCodeCallbackFailed, "OnBacktestStart aborted the backtest", err)
	}

	if _, statErr := os.Stat(b.resultsFolder); statErr == nil {
		if err := os.RemoveAll(b.resultsFolder); err != nil {
			return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to clean results folder %s", b.resultsFolder)
		}
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create results folder %s", b.resultsFolder)
	}

	crossover := strategy.NewSimpleMovingAverageCrossover(strategy.Config{
		Indicators:     b.config.Indicators,
		InitialBalance: b.config.InitialCapital,
	})
	resultFolders := getResultFolders(b.resultsFolder, b.dataPaths, crossover.Name())

	stats := make([]optionalStats, len(b.dataPaths))
	completed := 0

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency())

	for i, dataPath := range b.dataPaths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			runStats, err := b.runDataFile(groupCtx, crossover, i, dataPath, resultFolders[i], callbacks)
			if err != nil {
				return err
			}

			stats[i] = optionalStats{stats: runStats, ok: true}

			return b.invoke(func() error {
				completed++

				if callbacks.OnProcessData == nil {
					return nil
				}

				if err := (*callbacks.OnProcessData)(completed, len(b.dataPaths)); err != nil {
					return errors.Wrap(errors.ErrCodeCallbackFailed, "OnProcessData aborted the backtest", err)
				}

				return nil
			})
		})
	}

	runErr := group.Wait()

	collected := make([]types.RunStats, 0, len(stats))
	for _, s := range stats {
		if s.ok {
			collected = append(collected, s.stats)
		}
	}

	if err := types.WriteRunStats(filepath.Join(b.resultsFolder, statsFileName), collected); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write run statistics", err)
	}

	if runErr != nil {
		return runErr
	}

	b.logger().Info("Backtest finished",
		zap.Int("runs", len(collected)),
		zap.String("results", b.resultsFolder),
	)

	return nil
}

type optionalStats struct {
	stats types.RunStats
	ok    bool
}

// runDataFile loads one data file, runs the strategy on it and writes its results
// to resultFolderPath.
func (b *BacktestEngineV1) runDataFile(
	ctx context.Context,
	crossover *strategy.SimpleMovingAverageCrossover,
	index int,
	dataPath string,
	resultFolderPath string,
	callbacks engine.LifecycleCallbacks,
) (types.RunStats, error) {
	series, err := b.datasource.Load(dataPath, b.config.StartTime, b.config.EndTime)
	if err != nil {
		return types.RunStats{}, fmt.Errorf("failed to load %s: %w", dataPath, err)
	}

	series = series.Between(b.config.StartTime, b.config.EndTime)

	log := b.logger().ForSymbol(series.Symbol())
	runID := uuid.New().String()

	if err := b.invoke(func() error {
		if callbacks.OnRunStart == nil {
			return nil
		}

		return (*callbacks.OnRunStart)(runID, index, dataPath, series.Len())
	}); err != nil {
		return types.RunStats{}, errors.Wrap(errors.ErrCodeCallbackFailed, "OnRunStart aborted the backtest", err)
	}

	if series.Len() < b.config.Indicators.LongWindow {
		log.Warn("Series is shorter than the long moving average window, no position will be taken",
			zap.String("data", dataPath),
			zap.Error(errors.NewInsufficientDataErrorf(
				b.config.Indicators.LongWindow, series.Len(), series.Symbol(),
				"%s has %d bars, long window needs %d", series.Symbol(), series.Len(), b.config.Indicators.LongWindow,
			)),
		)
	}

	result, err := crossover.Run(series)
	if err != nil {
		return types.RunStats{}, fmt.Errorf("failed to run %s on %s: %w", crossover.Name(), dataPath, err)
	}

	if invalid := result.Indicators.InvalidBars; len(invalid) > 0 {
		log.Warn("Excluded daily returns with non-positive prices",
			zap.String("data", dataPath),
			zap.Ints("bars", invalid),
			zap.Error(errors.Newf(errors.ErrCodeInvalidPrice, "%d bars have a non-positive close", len(invalid))),
		)
	}

	if err := ctx.Err(); err != nil {
		return types.RunStats{}, err
	}

	stats, err := writeResults(result, resultFolderPath)
	if err != nil {
		return types.RunStats{}, errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to write results of %s", dataPath)
	}

	stats.ID = runID
	stats.Timestamp = time.Now()
	stats.Version = version.Version
	stats.DataPath = dataPath

	if err := types.WriteRunStats(filepath.Join(resultFolderPath, statsFileName), []types.RunStats{stats}); err != nil {
		return types.RunStats{}, errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to write statistics of %s", dataPath)
	}

	b.invokeNoError(func() {
		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(index, dataPath, resultFolderPath)
		}
	})

	log.Info("Run finished",
		zap.String("run_id", runID),
		zap.Int("bars", series.Len()),
		zap.Int("trades", len(result.Simulation.Trades)),
		zap.Float64("final_balance", result.Simulation.FinalBalance),
		zap.Float64("total_return", result.Simulation.TotalReturn),
	)

	return stats, nil
}

// writeResults writes the parquet files of result into folder and returns the run
// statistics pointing at them.
func writeResults(result strategy.Result, folder string) (types.RunStats, error) {
	stats := result.Stats()

	trades := writers.NewTradesWriter(filepath.Join(folder, tradesFileName))
	if err := trades.Initialize(); err != nil {
		return stats, err
	}
	defer trades.Close()

	if err := trades.Write(result.Simulation.Trades); err != nil {
		return stats, err
	}

	indicators := writers.NewIndicatorsWriter(filepath.Join(folder, indicatorsFileName))
	if err := indicators.Initialize(); err != nil {
		return stats, err
	}
	defer indicators.Close()

	if err := indicators.Write(result.Indicators, result.Positions, result.Events, result.Performance); err != nil {
		return stats, err
	}

	equity := writers.NewEquityWriter(filepath.Join(folder, equityFileName))
	if err := equity.Initialize(); err != nil {
		return stats, err
	}
	defer equity.Close()

	if err := equity.Write(result.Simulation.Equity); err != nil {
		return stats, err
	}

	stats.TradesFilePath = trades.GetOutputPath()
	stats.IndicatorsFilePath = indicators.GetOutputPath()
	stats.EquityFilePath = equity.GetOutputPath()

	return stats, nil
}

func (b *BacktestEngineV1) invoke(callback func() error) error {
	b.callbackMu.Lock()
	defer b.callbackMu.Unlock()

	return callback()
}

func (b *BacktestEngineV1) invokeNoError(callback func()) {
	b.callbackMu.Lock()
	defer b.callbackMu.Unlock()

	callback()
}

func (b *BacktestEngineV1) concurrency() int {
	if b.config.Concurrency > 0 {
		return b.config.Concurrency
	}

	return runtime.NumCPU()
}

// logger returns the engine logger, falling back to a no-op logger before Initialize.
func (b *BacktestEngineV1) logger() *logger.Logger {
	if b.log == nil {
		return logger.NewNopLogger()
	}

	return b.log
}

func (b *BacktestEngineV1) preRunCheck() error {
	if len(b.dataPaths) == 0 {
		b.logger().Error("No data paths loaded")

		return errors.New(errors.ErrCodeBacktestNoDataPaths, "no data paths loaded")
	}

	if b.resultsFolder == "" {
		b.logger().Error("No results folder set")

		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	if b.datasource == nil {
		b.logger().Error("No datasource set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	return nil
}
