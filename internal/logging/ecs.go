package logging

import (
	"github.com/plus3/isoarena/ecs"
	"github.com/rs/zerolog"
)

// Storage logs archetype and singleton counts with a per-archetype breakdown.
func Storage(logger *zerolog.Logger, stats ecs.StorageStats, level zerolog.Level) {
	archetypes := zerolog.Arr()
	for _, arch := range stats.ArchetypeBreakdown {
		components := zerolog.Arr()
		for _, name := range arch.ComponentTypes {
			components = components.Str(name)
		}
		archetypes = archetypes.Dict(zerolog.Dict().
			Uint32("archetype_id", arch.ID).
			Int("entities", arch.EntityCount).
			Array("components", components))
	}

	singletons := zerolog.Arr()
	for _, name := range stats.SingletonTypes {
		singletons = singletons.Str(name)
	}

	logger.WithLevel(level).
		Int("total_archetypes", stats.ArchetypeCount).
		Int("total_entities", stats.TotalEntityCount).
		Array("archetypes", archetypes).
		Array("singletons", singletons).
		Msg("storage")
}

// Systems logs per-system timing collected by the scheduler.
func Systems(logger *zerolog.Logger, stats *ecs.SchedulerStats, level zerolog.Level) {
	systems := zerolog.Arr()
	for _, sys := range stats.Systems {
		systems = systems.Dict(zerolog.Dict().
			Str("system", sys.Name).
			Int64("runs", sys.ExecutionCount).
			Dur("avg", sys.AvgDuration).
			Dur("max", sys.MaxDuration))
	}

	logger.WithLevel(level).
		Uint64("frames", stats.Frames).
		Int("startup_systems", stats.StartupCount).
		Int("total_systems", stats.SystemCount).
		Array("systems", systems).
		Msg("scheduler")
}
