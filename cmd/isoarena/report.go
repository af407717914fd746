package main

import (
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/isoarena/ecs"
	"github.com/rotisserie/eris"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Players  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Storage        ecs.StorageStats
	Systems        []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min, s.Max = s.Samples[0], s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Arena Stress Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Players:** {{.Players}}

## Performance
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Frame Time:** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}

## Systems
{{range .Systems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}} over {{.ExecutionCount}} runs
{{end}}
## Storage
- **Entities:** {{.Storage.TotalEntityCount}} in {{.Storage.ArchetypeCount}} archetypes
- **Singletons:** {{join .Storage.SingletonTypes}}

## Memory (bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} -> {{.MemStatsEnd.HeapAlloc}} (delta {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}})
- Total Alloc: {{.MemStatsStart.TotalAlloc}} -> {{.MemStatsEnd.TotalAlloc}} (delta {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}})
- Num GC:      {{.MemStatsStart.NumGC}} -> {{.MemStatsEnd.NumGC}} (delta {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}})
{{if .GCPauseMetrics}}
## GC Pauses
- **Total Pause:** {{ns .MemStatsEnd.PauseTotalNs}}
{{end}}`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 { return int64(a) - int64(b) },
	"usub": func(a, b uint32) uint32 { return a - b },
	"ns":   func(ns uint64) string { return time.Duration(ns).String() },
	"join": func(names []string) string { return strings.Join(names, ", ") },
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return eris.Wrap(err, "render report")
	}
	return nil
}
