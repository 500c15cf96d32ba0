package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mchmarny/trustscore/pkg/data"
	"github.com/urfave/cli/v3"
)

const historyLimitDefault = 20

var (
	historyURLFlag = &cli.StringFlag{
		Name:     "url",
		Usage:    "Reference whose stored records are listed",
		Required: true,
	}

	historyDBFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite database (optional, defaults to $HOME/.trustscore/history.db)",
	}

	historyLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of result returned",
		Value: historyLimitDefault,
	}

	historyCmd = &cli.Command{
		Name:   "history",
		Usage:  "List stored records of a reference, newest first",
		Action: cmdHistory,
		Flags: []cli.Flag{
			historyURLFlag,
			historyDBFlag,
			historyLimitFlag,
		},
	}
)

func cmdHistory(_ context.Context, cmd *cli.Command) error {
	p := cmd.String(historyDBFlag.Name)
	if p == "" {
		p = filepath.Join(getHomeDir(), data.DataFileName)
	}

	db, err := data.Open(p)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer db.Close()

	list, err := data.GetHistory(db, cmd.String(historyURLFlag.Name), int(cmd.Int(historyLimitFlag.Name)))
	if err != nil {
		return err
	}

	cfg := getConfig(cmd)
	return encode(cfg.Out, cfg.Format, list)
}
