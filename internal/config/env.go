package config

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// env lists the settings that can be overridden from the environment.
type env struct {
	LogLevel     string  `config:"ISOARENA_LOG_LEVEL"`
	LogFormat    string  `config:"ISOARENA_LOG_FORMAT"`
	PlayerName   string  `config:"ISOARENA_PLAYER_NAME"`
	PlayerSpeed  float32 `config:"ISOARENA_PLAYER_SPEED"`
	WinningScore uint32  `config:"ISOARENA_WINNING_SCORE"`
	MaxRounds    uint32  `config:"ISOARENA_MAX_ROUNDS"`
	MaxPlayers   uint32  `config:"ISOARENA_MAX_PLAYERS"`
	WindowWidth  int     `config:"ISOARENA_WINDOW_WIDTH"`
	WindowHeight int     `config:"ISOARENA_WINDOW_HEIGHT"`
	TickRate     int     `config:"ISOARENA_TICK_RATE"`
}

// ApplyEnv overrides c with any ISOARENA_* variables that are set.
func (c *Config) ApplyEnv() error {
	e := env{
		LogLevel:     c.Log.Level,
		LogFormat:    c.Log.Format,
		PlayerName:   c.Player.Name,
		PlayerSpeed:  c.Player.Speed,
		WinningScore: c.Rules.WinningScore,
		MaxRounds:    c.Rules.MaxRounds,
		MaxPlayers:   c.Rules.MaxPlayers,
		WindowWidth:  c.Window.Width,
		WindowHeight: c.Window.Height,
		TickRate:     c.Window.TickRate,
	}

	if err := jlconfig.FromEnv().To(&e); err != nil {
		return eris.Wrap(err, "read environment overrides")
	}

	c.Log.Level = e.LogLevel
	c.Log.Format = e.LogFormat
	c.Player.Name = e.PlayerName
	c.Player.Speed = e.PlayerSpeed
	c.Rules.WinningScore = e.WinningScore
	c.Rules.MaxRounds = e.MaxRounds
	c.Rules.MaxPlayers = e.MaxPlayers
	c.Window.Width = e.WindowWidth
	c.Window.Height = e.WindowHeight
	c.Window.TickRate = e.TickRate
	return nil
}
