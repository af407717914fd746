// Package config loads the arena configuration: built-in defaults, then an
// optional YAML file, then ISOARENA_* environment overrides.
package config

import (
	"errors"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/internal/game"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = eris.New("invalid configuration")

type Vec3 [3]float32

func (v Vec3) mgl() mgl32.Vec3 { return mgl32.Vec3(v) }

// Color is an sRGB triple with channels in 0..1.
type Color [3]float32

type Config struct {
	Rules   RulesConfig   `yaml:"rules"`
	Player  PlayerConfig  `yaml:"player"`
	Enemies []EnemyConfig `yaml:"enemies"`
	Camera  CameraConfig  `yaml:"camera"`
	Ground  GroundConfig  `yaml:"ground"`
	Window  WindowConfig  `yaml:"window"`
	Log     LogConfig     `yaml:"log"`
}

type RulesConfig struct {
	WinningScore uint32 `yaml:"winning_score"`
	MaxRounds    uint32 `yaml:"max_rounds"`
	MaxPlayers   uint32 `yaml:"max_players"`
}

type PlayerConfig struct {
	Name   string  `yaml:"name"`
	Health uint32  `yaml:"health"`
	Speed  float32 `yaml:"speed"`
	Spawn  Vec3    `yaml:"spawn"`
	Size   Vec3    `yaml:"size"`
	Color  Color   `yaml:"color"`
}

type EnemyConfig struct {
	Name   string `yaml:"name"`
	Health uint32 `yaml:"health"`
}

type CameraConfig struct {
	Position      Vec3    `yaml:"position"`
	Target        Vec3    `yaml:"target"`
	FixedVertical float32 `yaml:"fixed_vertical"`
}

type GroundConfig struct {
	Size  float32 `yaml:"size"`
	Color Color   `yaml:"color"`
}

type WindowConfig struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	TickRate int    `yaml:"tick_rate"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default mirrors game.DefaultSetup plus host settings.
func Default() Config {
	setup := game.DefaultSetup()

	enemies := make([]EnemyConfig, 0, len(setup.Enemies))
	for _, e := range setup.Enemies {
		enemies = append(enemies, EnemyConfig{Name: e.Name, Health: e.Health})
	}

	return Config{
		Rules: RulesConfig{
			WinningScore: setup.Rules.WinningScore,
			MaxRounds:    setup.Rules.MaxRounds,
			MaxPlayers:   setup.Rules.MaxPlayers,
		},
		Player: PlayerConfig{
			Name:   setup.Player.Name,
			Health: setup.Player.Health,
			Speed:  setup.Player.Speed,
			Spawn:  Vec3(setup.Player.Spawn),
			Size:   Vec3(setup.Player.Size),
			Color:  Color{0.8, 0.7, 0.6},
		},
		Enemies: enemies,
		Camera: CameraConfig{
			Position:      Vec3(setup.Camera.Position),
			Target:        Vec3(setup.Camera.Target),
			FixedVertical: setup.Camera.FixedVertical,
		},
		Ground: GroundConfig{
			Size:  setup.Ground.Size,
			Color: Color{0.3, 0.5, 0.3},
		},
		Window: WindowConfig{
			Title:    "isoarena",
			Width:    1280,
			Height:   720,
			TickRate: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, eris.Wrapf(err, "open config %q", path)
		}
		defer f.Close()

		if err := cfg.Decode(f); err != nil {
			return cfg, eris.Wrapf(err, "read config %q", path)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode overlays a YAML document onto c. Keys absent from the document keep
// their current values; unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return eris.Wrap(err, "decode yaml")
	}
	return nil
}

// Validate reports the first setting the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Player.Name == "":
		return eris.Wrap(ErrInvalid, "player.name must not be empty")
	case c.Player.Health == 0:
		return eris.Wrap(ErrInvalid, "player.health must be positive")
	case c.Player.Speed < 0:
		return eris.Wrapf(ErrInvalid, "player.speed must not be negative, got %v", c.Player.Speed)
	case c.Rules.MaxPlayers == 0:
		return eris.Wrap(ErrInvalid, "rules.max_players must be positive")
	case c.Rules.WinningScore == 0:
		return eris.Wrap(ErrInvalid, "rules.winning_score must be positive")
	case c.Camera.FixedVertical <= 0:
		return eris.Wrapf(ErrInvalid, "camera.fixed_vertical must be positive, got %v", c.Camera.FixedVertical)
	case c.Camera.Position == c.Camera.Target:
		return eris.Wrap(ErrInvalid, "camera.position and camera.target must differ")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return eris.Wrapf(ErrInvalid, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.TickRate <= 0:
		return eris.Wrapf(ErrInvalid, "window.tick_rate must be positive, got %d", c.Window.TickRate)
	}

	for i, e := range c.Enemies {
		if e.Name == "" {
			return eris.Wrapf(ErrInvalid, "enemies[%d].name must not be empty", i)
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return eris.Wrapf(ErrInvalid, "log.level %q is not a level", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return eris.Wrapf(ErrInvalid, "log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Setup converts the configuration into the startup parameters of a world.
func (c *Config) Setup() game.Setup {
	enemies := make([]game.EnemySpec, 0, len(c.Enemies))
	for _, e := range c.Enemies {
		enemies = append(enemies, game.EnemySpec{Name: e.Name, Health: e.Health})
	}

	return game.Setup{
		Rules: game.GameRules{
			WinningScore: c.Rules.WinningScore,
			MaxRounds:    c.Rules.MaxRounds,
			MaxPlayers:   c.Rules.MaxPlayers,
		},
		Player: game.PlayerSpec{
			Name:   c.Player.Name,
			Health: c.Player.Health,
			Speed:  c.Player.Speed,
			Spawn:  c.Player.Spawn.mgl(),
			Size:   c.Player.Size.mgl(),
			Color:  game.SRGB(c.Player.Color[0], c.Player.Color[1], c.Player.Color[2]),
		},
		Enemies: enemies,
		Camera: game.CameraSpec{
			Position:      c.Camera.Position.mgl(),
			Target:        c.Camera.Target.mgl(),
			FixedVertical: c.Camera.FixedVertical,
		},
		Ground: game.GroundSpec{
			Size:  c.Ground.Size,
			Color: game.SRGB(c.Ground.Color[0], c.Ground.Color[1], c.Ground.Color[2]),
		},
	}
}
