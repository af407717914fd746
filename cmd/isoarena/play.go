package main

import (
	"github.com/plus3/isoarena/internal/game"
	"github.com/plus3/isoarena/internal/host/window"
	"github.com/plus3/isoarena/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newPlayCmd(root *rootOptions) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the arena in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			world := game.NewWorld(cfg.Setup(), logger)
			err = window.Run(world, window.Options{
				Title:    cfg.Window.Title,
				Width:    cfg.Window.Width,
				Height:   cfg.Window.Height,
				TickRate: cfg.Window.TickRate,
				Debug:    debug,
			}, logger)

			logging.Systems(&logger, world.Scheduler.GetStats(), zerolog.DebugLevel)
			return err
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "show the ImGui developer overlay")
	return cmd
}
