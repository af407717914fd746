package main

import (
	"context"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/internal/game"
	"github.com/plus3/isoarena/internal/logging"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type stressParams struct {
	Duration       time.Duration
	Players        int
	Seed           uint64
	GCPauseMetrics bool
}

func (p stressParams) validate() error {
	if p.Players < 0 {
		return eris.Errorf("--players must not be negative, got %d", p.Players)
	}
	if p.Duration <= 0 {
		return eris.Errorf("--duration must be positive, got %s", p.Duration)
	}
	return nil
}

func newStressCmd(root *rootOptions) *cobra.Command {
	params := stressParams{}

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run the simulation headless with many players and random input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := params.validate(); err != nil {
				return err
			}
			cfg, logger, err := root.load(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			setup := cfg.Setup()
			world := game.NewWorld(setup, logger)
			report := runStress(cmd.Context(), world, setup.Player, params, logger)

			logging.Storage(&logger, world.Storage.CollectStats(), zerolog.DebugLevel)
			logging.Systems(&logger, world.Scheduler.GetStats(), zerolog.DebugLevel)

			return report.Generate(cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&params.Duration, "duration", 10*time.Second, "how long to run")
	flags.IntVar(&params.Players, "players", 10000, "extra players spawned beside the configured one")
	flags.Uint64Var(&params.Seed, "seed", 1, "seed for spawn positions and input")
	flags.BoolVar(&params.GCPauseMetrics, "gc-pause-metrics", false, "include GC pause totals in the report")
	return cmd
}

// runStress ticks the world as fast as possible until the duration elapses or
// ctx is cancelled. Input changes every frame. The extra players are copies of
// spec scattered around the arena and are counted in GameState.TotalPlayers.
func runStress(ctx context.Context, world *game.World, spec game.PlayerSpec, params stressParams, logger zerolog.Logger) *Report {
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed))

	// First tick runs bootstrap so the extra players land next to the real one.
	world.Tick(0, 0)

	bundles := make([][]any, params.Players)
	for i := range bundles {
		spec.Spawn = mgl32.Vec3{rng.Float32()*64 - 32, spec.Spawn.Y(), rng.Float32()*64 - 32}
		bundles[i] = spec.Bundle()
	}
	world.Storage.SpawnBatch(bundles...)
	world.State().TotalPlayers += uint32(params.Players)
	logger.Info().Int("players", params.Players+1).Dur("duration", params.Duration).Msg("stress run started")

	report := &Report{
		Duration:       params.Duration,
		Players:        params.Players + 1,
		GCPauseMetrics: params.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, params.Duration)
	defer cancel()

	start := time.Now()
	last := start
Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			now := time.Now()
			dt := now.Sub(last).Seconds()
			last = now

			keys := game.KeySet(rng.IntN(16))
			updateStart := time.Now()
			world.Tick(dt, keys)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		}
	}

	report.TotalTime = time.Since(start)
	report.TotalUpdates = int64(len(report.UpdateTime.Samples))
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Storage = world.Storage.CollectStats()
	report.Systems = world.Scheduler.GetStats().Systems
	logger.Info().Int64("updates", report.TotalUpdates).Dur("avg", report.UpdateTime.Avg).Msg("stress run finished")
	return report
}
