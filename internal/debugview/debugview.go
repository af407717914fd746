// Package debugview draws a Dear ImGui developer overlay over the window host.
// Panels are entities carrying an ImguiItem; ImguiSystem queues their render
// functions so they run during the frame's command flush.
package debugview

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/game"
)

// ImguiItem holds a render function called once per frame inside an ImGui frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState mirrors whether ImGui wants the mouse or keyboard this frame.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// Overlay owns the ImGui backend. Call BeginFrame before ticking the world
// and EndFrame after, then Draw on top of the scene.
type Overlay struct {
	backend *ebitenbackend.EbitenBackend
	input   *ecs.Singleton[ImguiInputState]
}

// Install creates the ImGui context, spawns the panels and registers
// ImguiSystem as the world's last frame system.
func Install(world *game.World, title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	Register(world.Storage.Registry())
	input := ecs.NewSingleton[ImguiInputState](world.Storage)

	perf := NewPerformancePanel(120)
	arena := NewArenaPanel(world)
	world.Storage.Spawn(ImguiItem{Render: func() { perf.Render(world) }})
	world.Storage.Spawn(ImguiItem{Render: arena.Render})

	world.Scheduler.Register(&ImguiSystem{})

	return &Overlay{backend: backend, input: input}
}

// Register adds the overlay's component types to a registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

func (o *Overlay) BeginFrame() { o.backend.BeginFrame() }
func (o *Overlay) EndFrame()   { o.backend.EndFrame() }

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(width, height int) {
	o.backend.Layout(width, height)
}

// WantsKeyboard reports whether the last frame's widgets had keyboard focus.
func (o *Overlay) WantsKeyboard() bool {
	state := o.input.Get()
	return state != nil && state.WantCaptureKeyboard
}
