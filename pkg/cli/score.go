package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/data"
	"github.com/mchmarny/trustscore/pkg/pipeline"
	"github.com/mchmarny/trustscore/pkg/record"
	"github.com/urfave/cli/v3"
)

var (
	errArgRequired = errors.New("exactly one argument required")

	parallelFlag = &cli.IntFlag{
		Name:  "parallel",
		Usage: "Number of extractors evaluated concurrently per artifact",
		Value: 1,
	}

	remoteFlag = &cli.BoolFlag{
		Name:  "remote",
		Usage: "Enrich github.com references with repository metadata (optional, default: false)",
	}

	historyFlag = &cli.StringFlag{
		Name:  "history",
		Usage: "Path to the Sqlite database where every record is stored (optional)",
	}

	metricsFileFlag = &cli.StringFlag{
		Name:  "metrics-file",
		Usage: "Path where run metrics are written in Prometheus text format (optional)",
	}

	noCalibrationFlag = &cli.BoolFlag{
		Name:  "no-calibration",
		Usage: "Disable reference artifact calibration bands (optional, default: false)",
	}

	scoreCmd = &cli.Command{
		Name:      "score",
		Usage:     "Score every reference in a file, one NDJSON record per line",
		ArgsUsage: "<url-file>",
		Action:    cmdScore,
		Flags: []cli.Flag{
			parallelFlag,
			remoteFlag,
			historyFlag,
			metricsFileFlag,
			noCalibrationFlag,
		},
	}
)

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("%w: <url-file>", errArgRequired)
	}

	lines, err := artifact.ReadFile(cmd.Args().First())
	if err != nil {
		return err
	}

	cfg := getConfig(cmd)
	opts, err := scorerOptions(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	metricsPath := cmd.String(metricsFileFlag.Name)
	if metricsPath != "" {
		opts.Metrics = pipeline.NewMetrics()
	}

	var db *sql.DB
	if p := cmd.String(historyFlag.Name); p != "" {
		if db, err = data.Open(p); err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()
	}

	w := record.NewWriter(cfg.Out)
	var degraded int
	err = pipeline.NewScorer(opts).Run(ctx, lines, func(o pipeline.Outcome) error {
		if o.Degraded {
			degraded++
		}
		if err := w.Write(o.Record); err != nil {
			return err
		}
		if db != nil {
			if err := data.SaveRecord(db, o.Record, o.Degraded, time.Now()); err != nil {
				slog.Warn("failed to save history", "url", o.Record.URL, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("scoring done", "records", len(lines), "degraded", degraded)

	if opts.Metrics != nil {
		return opts.Metrics.WriteFile(metricsPath)
	}
	return nil
}

func scorerOptions(ctx context.Context, cmd *cli.Command, cfg *appConfig) (pipeline.Options, error) {
	weights, err := cfg.Config.CombinerWeights()
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Weights:    weights,
		Calibrator: cfg.Config.Calibrator(),
		Limits:     cfg.Config.Limits,
		Parallel:   int(cmd.Int(parallelFlag.Name)),
	}
	if cmd.Bool(noCalibrationFlag.Name) {
		opts.Calibrator = nil
	}
	if cmd.Bool(remoteFlag.Name) || cfg.Config.Remote.Enabled {
		opts.Remote = newRemoteClient(ctx)
	}
	return opts, nil
}
