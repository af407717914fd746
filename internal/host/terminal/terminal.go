// Package terminal hosts the arena in a text terminal.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/internal/game"
	"github.com/plus3/isoarena/internal/render"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Terminals only report key presses, so a key counts as held for a short
// window after its last press or auto-repeat.
const defaultHold = 150 * time.Millisecond

type Options struct {
	TickRate int
	HoldFor  time.Duration
}

type Host struct {
	screen tcell.Screen
	world  *game.World
	scene  *render.Scene
	log    zerolog.Logger

	tick    time.Duration
	holdFor time.Duration
	pressed [4]time.Time
}

func New(screen tcell.Screen, world *game.World, opts Options, logger zerolog.Logger) *Host {
	tick := time.Second / 60
	if opts.TickRate > 0 {
		tick = time.Second / time.Duration(opts.TickRate)
	}
	hold := opts.HoldFor
	if hold <= 0 {
		hold = defaultHold
	}
	return &Host{
		screen:  screen,
		world:   world,
		scene:   render.NewScene(world.Storage),
		log:     logger,
		tick:    tick,
		holdFor: hold,
	}
}

// Run drives the world until ctx is cancelled or the user quits.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return eris.Wrap(err, "init terminal")
	}
	defer h.screen.Fini()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !h.handle(ev, time.Now()) {
				h.log.Info().Msg("quit requested")
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			h.step(dt, now)
		}
	}
}

func (h *Host) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
			return false
		}
		if k, ok := keyFor(ev); ok {
			h.pressed[k] = now
		}
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

func keyFor(ev *tcell.EventKey) (game.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.KeyForward, true
	case tcell.KeyDown:
		return game.KeyBack, true
	case tcell.KeyLeft:
		return game.KeyLeft, true
	case tcell.KeyRight:
		return game.KeyRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return game.KeyForward, true
		case 's', 'S':
			return game.KeyBack, true
		case 'a', 'A':
			return game.KeyLeft, true
		case 'd', 'D':
			return game.KeyRight, true
		}
	}
	return 0, false
}

func (h *Host) held(now time.Time) game.KeySet {
	var keys game.KeySet
	for _, k := range game.Keys() {
		if t := h.pressed[k]; !t.IsZero() && now.Sub(t) < h.holdFor {
			keys = keys.With(k)
		}
	}
	return keys
}

func (h *Host) step(dt float64, now time.Time) {
	keys := h.held(now)
	h.world.Tick(dt, keys)
	h.draw(keys)
}

var (
	groundStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

func (h *Host) draw(keys game.KeySet) {
	h.screen.Clear()
	w, rows := h.screen.Size()

	// cells are roughly twice as tall as they are wide
	frame, ok := h.scene.Snapshot(w, rows*2)
	if ok {
		for _, d := range frame.Drawables {
			switch d.Visual.Shape {
			case game.ShapePlane:
				h.plotPlane(frame.Camera, d)
			default:
				h.plot(frame.Camera, d.Transform.Translation, '@', styleOf(d.Visual))
			}
		}
	}

	h.status(w, rows, keys)
	h.screen.Show()
}

func (h *Host) plotPlane(cam render.Camera, d render.Drawable) {
	half := d.Visual.Size.Mul(0.5)
	m := d.Transform.Matrix()
	for x := -half.X(); x <= half.X(); x++ {
		for z := -half.Z(); z <= half.Z(); z++ {
			h.plot(cam, mgl32.TransformCoordinate(mgl32.Vec3{x, 0, z}, m), '.', groundStyle)
		}
	}
}

func (h *Host) plot(cam render.Camera, p mgl32.Vec3, r rune, style tcell.Style) {
	s, ok := cam.Project(p)
	if !ok {
		return
	}
	h.screen.SetContent(int(s.X()), int(s.Y())/2, r, nil, style)
}

func styleOf(v game.Visual) tcell.Style {
	c := tcell.NewRGBColor(int32(v.Color.R), int32(v.Color.G), int32(v.Color.B))
	return tcell.StyleDefault.Foreground(c).Bold(true)
}

func (h *Host) status(w, rows int, keys game.KeySet) {
	line := fmt.Sprintf(" %s | keys %s | players %d | q to quit ", h.world.Phase(), keys, h.world.State().TotalPlayers)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		h.screen.SetContent(x, rows-1, r, nil, statusStyle)
	}
}
