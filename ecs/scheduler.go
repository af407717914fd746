package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	StartupCount    int
	Frames          uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single frame system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d
	st.minDuration = min(st.minDuration, d)
	st.maxDuration = max(st.maxDuration, d)
}

// NamedSystem lets a system override the name reported in stats and logs.
type NamedSystem interface {
	SystemName() string
}

type executor interface {
	Execute()
}

type storageBinder interface {
	Init(storage *Storage)
}

type registeredSystem struct {
	name    string
	system  System
	queries []executor
	stats   systemStatsInternal
}

// Scheduler runs startup systems once, then frame systems in registration
// order on every tick. A system registered after another always observes that
// system's writes from the same frame.
type Scheduler struct {
	storage *Storage
	startup []*registeredSystem
	systems []*registeredSystem
	started bool
	frames  uint64
	log     zerolog.Logger
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
		log:     zerolog.Nop(),
	}
}

// SetLogger replaces the scheduler's logger (a no-op logger by default).
func (s *Scheduler) SetLogger(logger zerolog.Logger) {
	s.log = logger
}

// Register adds a frame system and wires its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	rs := s.bind(system)
	s.systems = append(s.systems, rs)
	s.log.Debug().Str("system", rs.name).Int("order", len(s.systems)).Msg("registered frame system")
}

// RegisterStartup adds a system that runs exactly once, before the frame
// systems of the first tick. Registering after the first tick panics.
func (s *Scheduler) RegisterStartup(system System) {
	if s.started {
		panic("RegisterStartup called after the scheduler started")
	}
	rs := s.bind(system)
	s.startup = append(s.startup, rs)
	s.log.Debug().Str("system", rs.name).Msg("registered startup system")
}

// Started reports whether the startup phase has run.
func (s *Scheduler) Started() bool {
	return s.started
}

func (s *Scheduler) bind(system System) *registeredSystem {
	return &registeredSystem{
		name:    systemName(system),
		system:  system,
		queries: s.initializeFields(system),
		stats:   systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}
}

func systemName(system System) string {
	if named, ok := system.(NamedSystem); ok {
		return named.SystemName()
	}
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// initializeFields binds every exported Query/Singleton field of the system to
// the storage and returns the queries that need refreshing before each run.
func (s *Scheduler) initializeFields(system System) []executor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr || systemValue.Elem().Kind() != reflect.Struct {
		return nil
	}
	systemValue = systemValue.Elem()

	var queries []executor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		target := field.Addr().Interface()
		binder, ok := target.(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)

		if q, ok := target.(executor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

func (s *Scheduler) run(rs *registeredSystem, frame *UpdateFrame) time.Duration {
	start := time.Now()
	for _, q := range rs.queries {
		q.Execute()
	}
	rs.system.Execute(frame)
	return time.Since(start)
}

// Once executes one tick with the given delta time. The first call runs the
// startup phase and flushes its commands before any frame system.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.frames, s.storage)

	if !s.started {
		s.started = true
		for _, rs := range s.startup {
			rs.stats.record(s.run(rs, frame))
		}
		frame.Commands.Flush(s.storage)
		s.log.Info().Int("startup_systems", len(s.startup)).Msg("startup complete")
	}

	for _, rs := range s.systems {
		rs.stats.record(s.run(rs, frame))
	}

	frame.Commands.Flush(s.storage)
	s.frames++
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about frame system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount:  len(s.systems),
		StartupCount: len(s.startup),
		Frames:       s.frames,
		Systems:      make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		internal := rs.stats
		var avgDuration time.Duration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           rs.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
