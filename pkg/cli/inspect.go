package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/trustscore/pkg/pipeline"
	"github.com/urfave/cli/v3"
)

var inspectCmd = &cli.Command{
	Name:      "inspect",
	Usage:     "Print the evidence bundle and record for one reference",
	ArgsUsage: "<reference>",
	Action:    cmdInspect,
	Flags: []cli.Flag{
		remoteFlag,
		noCalibrationFlag,
	},
}

func cmdInspect(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("%w: <reference>", errArgRequired)
	}

	cfg := getConfig(cmd)
	opts, err := scorerOptions(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	ev, err := pipeline.NewScorer(opts).Inspect(ctx, cmd.Args().First())
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", cmd.Args().First(), err)
	}
	return encode(cfg.Out, cfg.Format, ev)
}
