// Package cli implements the trustscore command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/trustscore/pkg/config"
	"github.com/mchmarny/trustscore/pkg/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "trustscore"
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the YAML config file (optional, defaults to $HOME/.trustscore/config.yaml)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format for inspect and history [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config *config.Config
	Format string
	Out    io.Writer
	closer io.Closer
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:            appName,
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:           "Trustworthiness scores for models, datasets and code repositories",
		HideHelpCommand: true,
		Writer:          errOut,
		ErrWriter:       errOut,
		Metadata:        map[string]any{},
		Flags: []cli.Flag{
			debugFlag,
			configFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			scoreCmd,
			inspectCmd,
			historyCmd,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			closer, err := logging.Setup(logging.Options{
				Debug:  cmd.Bool(debugFlag.Name),
				Stderr: errOut,
			})
			if err != nil {
				return ctx, err
			}

			path := cmd.String(configFlag.Name)
			if path == "" {
				if path, err = config.DefaultPath(); err != nil {
					slog.Debug("no default config path", "error", err)
				}
			}
			cfg, err := config.Load(path)
			if err != nil {
				closer.Close()
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			format := formatJSON
			if f := cmd.String(formatFlag.Name); f == formatYAML || f == "yml" {
				format = formatYAML
			}

			cmd.Metadata[appConfigKey] = &appConfig{
				Config: cfg,
				Format: format,
				Out:    out,
				closer: closer,
			}
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			if cfg, ok := cmd.Metadata[appConfigKey].(*appConfig); ok && cfg.closer != nil {
				return cfg.closer.Close()
			}
			return nil
		},
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, "."+appName)
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "home", home, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
