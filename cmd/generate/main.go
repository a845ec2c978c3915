package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	engine "github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/writer"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const schemaName = "backtest-engine-v1-config.json"

// writeConfig writes the engine config schema and, unless one already exists, a
// sample config pointing at it.
func writeConfig(configDir string) error {
	config := engine.EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaPath := filepath.Join(configDir, schemaName)
	sampleConfigPath := filepath.Join(configDir, "backtest-engine-v1-config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	if _, err := os.Stat(sampleConfigPath); !os.IsNotExist(err) {
		return nil
	}

	yamlBytes, err := yaml.Marshal(map[string]any{
		"initial_capital": config.InitialCapital,
		"indicators":      config.Indicators,
		"concurrency":     config.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

	if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", sampleConfigPath)

	return nil
}

// writeSyntheticData writes one file of generated daily bars per symbol. Each symbol
// gets its own seed so the files differ.
func writeSyntheticData(dataDir string, symbols []string, bars int, seed int64, format string) ([]string, error) {
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q: expected parquet or csv", format)
	}

	config := mocks.DefaultConfig()
	config.Count = bars

	paths := make([]string, 0, len(symbols))

	for i, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}

		outputPath := filepath.Join(dataDir, fmt.Sprintf("%s_synthetic.%s", symbol, format))
		barWriter := writer.NewDuckDBWriter(outputPath)

		if err := barWriter.Initialize(); err != nil {
			return nil, err
		}

		for _, bar := range mocks.NewDataGenerator(seed + int64(i)).Generate(config) {
			if err := barWriter.Write(bar); err != nil {
				barWriter.Close()

				return nil, err
			}
		}

		path, err := barWriter.Finalize()
		barWriter.Close()

		if err != nil {
			return nil, err
		}

		log.Printf("Wrote %d bars for %s to %s", bars, symbol, path)
		paths = append(paths, path)
	}

	return paths, nil
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	if err := writeConfig(cmd.String("config-dir")); err != nil {
		return err
	}

	if cmd.Bool("skip-data") {
		return nil
	}

	_, err := writeSyntheticData(
		cmd.String("data-dir"),
		cmd.StringSlice("symbols"),
		int(cmd.Int("bars")),
		int64(cmd.Int("seed")),
		cmd.String("format"),
	)

	return err
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate the config schema, a sample config and synthetic bar files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "Directory receiving the schema and sample config",
				Value: "config",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory receiving the synthetic bar files",
				Value: "data",
			},
			&cli.StringSliceFlag{
				Name:  "symbols",
				Usage: "Symbols to generate bars for",
				Value: []string{"AAPL", "TSLA", "MSFT"},
			},
			&cli.IntFlag{
				Name:  "bars",
				Usage: "Number of daily bars per symbol",
				Value: 1260,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Seed of the first symbol",
				Value: 42,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format, `parquet` or `csv`",
				Value: "parquet",
			},
			&cli.BoolFlag{
				Name:  "skip-data",
				Usage: "Only write the schema and sample config",
			},
		},
		Action: generateAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
