package main

import (
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/isoarena/internal/game"
	"github.com/plus3/isoarena/internal/host/terminal"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func newTTYCmd(root *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tty",
		Short: "Play in the terminal",
		Long:  "Play in the terminal. The screen is owned by the game, so logs go to --log-file or nowhere.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return eris.Wrapf(err, "open log file %q", logFile)
				}
				defer f.Close()
				out = f
			}

			cfg, logger, err := root.load(cmd, out)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return eris.Wrap(err, "open terminal")
			}

			world := game.NewWorld(cfg.Setup(), logger)
			host := terminal.New(screen, world, terminal.Options{TickRate: cfg.Window.TickRate}, logger)
			return host.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
