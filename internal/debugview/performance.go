package debugview

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/isoarena/internal/game"
)

// frameHistory is a ring of frame times in milliseconds.
type frameHistory struct {
	samples []float32
	next    int
	filled  int
}

func newFrameHistory(size int) *frameHistory {
	return &frameHistory{samples: make([]float32, max(size, 1))}
}

func (h *frameHistory) Push(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

func (h *frameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, s := range h.samples[:h.filled] {
		sum += s
	}
	return sum / float32(h.filled)
}

type PerformancePanel struct {
	history *frameHistory
	last    time.Time
}

func NewPerformancePanel(historyFrames int) *PerformancePanel {
	return &PerformancePanel{history: newFrameHistory(historyFrames)}
}

func (p *PerformancePanel) Render(world *game.World) {
	now := time.Now()
	if !p.last.IsZero() {
		p.history.Push(float32(now.Sub(p.last).Seconds() * 1000))
	}
	p.last = now

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 300), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := world.Storage.CollectStats()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	avg := p.history.Average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &p.history.samples[0], int32(len(p.history.samples)))

	scheduler := world.Scheduler.GetStats()
	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, sys := range scheduler.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		for _, arch := range stats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("0x%X: %d entities, %d components", arch.ID, arch.EntityCount, len(arch.ComponentTypes)))
		}
		imgui.TreePop()
	}

	imgui.End()
}
