// Package window hosts the arena in an ebiten window.
package window

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/isoarena/internal/debugview"
	"github.com/plus3/isoarena/internal/game"
	"github.com/plus3/isoarena/internal/render"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Options struct {
	Title    string
	Width    int
	Height   int
	TickRate int
	Debug    bool
}

var bindings = map[game.Key][]ebiten.Key{
	game.KeyForward: {ebiten.KeyW, ebiten.KeyArrowUp},
	game.KeyBack:    {ebiten.KeyS, ebiten.KeyArrowDown},
	game.KeyLeft:    {ebiten.KeyA, ebiten.KeyArrowLeft},
	game.KeyRight:   {ebiten.KeyD, ebiten.KeyArrowRight},
}

var background = color.RGBA{0x1d, 0x20, 0x26, 0xff}

// Game implements ebiten.Game around a world.
type Game struct {
	world   *game.World
	scene   *render.Scene
	overlay *debugview.Overlay
	log     zerolog.Logger

	dt float64
}

func New(world *game.World, opts Options, logger zerolog.Logger) *Game {
	g := &Game{
		world: world,
		scene: render.NewScene(world.Storage),
		log:   logger,
		dt:    1 / float64(max(opts.TickRate, 1)),
	}
	if opts.Debug {
		g.overlay = debugview.Install(world, opts.Title, opts.Width, opts.Height)
	}
	return g
}

// Run opens the window and blocks until it closes.
func Run(world *game.World, opts Options, logger zerolog.Logger) error {
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.TickRate)

	g := New(world, opts, logger)
	logger.Info().Int("width", opts.Width).Int("height", opts.Height).Bool("debug", opts.Debug).Msg("opening window")

	if err := ebiten.RunGame(g); err != nil {
		return eris.Wrap(err, "run window")
	}
	return nil
}

// heldKeys maps physical keys onto movement keys.
func heldKeys(pressed func(ebiten.Key) bool) game.KeySet {
	var keys game.KeySet
	for k, physical := range bindings {
		for _, p := range physical {
			if pressed(p) {
				keys = keys.With(k)
				break
			}
		}
	}
	return keys
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.log.Info().Msg("quit requested")
		return ebiten.Termination
	}

	var keys game.KeySet
	if g.overlay == nil || !g.overlay.WantsKeyboard() {
		keys = heldKeys(ebiten.IsKeyPressed)
	}

	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	g.world.Tick(g.dt, keys)
	if g.overlay != nil {
		g.overlay.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	bounds := screen.Bounds()
	if frame, ok := g.scene.Snapshot(bounds.Dx(), bounds.Dy()); ok {
		for _, d := range frame.Drawables {
			for _, face := range d.Faces(frame.Camera) {
				fillFace(screen, frame.Camera, face)
			}
		}
	}

	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

var whiteSubImage *ebiten.Image

func white() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

func fillFace(screen *ebiten.Image, cam render.Camera, face render.Face) {
	var path vector.Path
	for i, corner := range face.Corners {
		p, ok := cam.Project(corner)
		if !ok {
			return
		}
		if i == 0 {
			path.MoveTo(p.X(), p.Y())
		} else {
			path.LineTo(p.X(), p.Y())
		}
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, gr, b, a := float32(face.Color.R)/0xff, float32(face.Color.G)/0xff, float32(face.Color.B)/0xff, float32(face.Color.A)/0xff
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, gr, b, a
	}
	screen.DrawTriangles(vs, is, white(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
