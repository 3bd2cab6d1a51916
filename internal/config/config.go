// Package config loads runtime settings from flags, with CHESSGAME_*
// environment variables as fallbacks and saved preferences filling the rest.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
	"github.com/hailam/chessgame/internal/engine"
	"github.com/hailam/chessgame/internal/storage"
)

const envPrefix = "CHESSGAME_"

var (
	opponents    = []string{"friend", "computer"}
	playerColors = []string{"white", "black", "random"}
	themes       = []string{"blue", "bw", "yellow"}
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds settings shared by the desktop and console binaries.
type Config struct {
	Depth       int
	Opponent    string
	PlayerColor string
	Setup       string
	Theme       string
	Sound       bool
	DataDir     string
	LogLevel    string
	Seed        uint64

	// explicit records settings given on the command line or in the
	// environment; preferences never override those.
	explicit map[string]bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Depth:       engine.DefaultDepth,
		Opponent:    "computer",
		PlayerColor: "white",
		Setup:       board.Standard.String(),
		Theme:       "blue",
		Sound:       true,
		LogLevel:    "info",
		explicit:    map[string]bool{},
	}
}

// Load parses args into a Config. Environment variables supply the
// defaults for flags that are not given.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	c := Default()
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { c.explicit[f.Name] = true })
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) register(fs *flag.FlagSet) {
	fs.IntVar(&c.Depth, "depth", c.getenvInt("depth", c.Depth), "search depth in plies")
	fs.StringVar(&c.Opponent, "opponent", c.getenv("opponent", c.Opponent), "opponent: "+strings.Join(opponents, "|"))
	fs.StringVar(&c.PlayerColor, "color", c.getenv("color", c.PlayerColor), "human color: "+strings.Join(playerColors, "|"))
	fs.StringVar(&c.Setup, "setup", c.getenv("setup", c.Setup), "starting position: standard|rooks|queen")
	fs.StringVar(&c.Theme, "theme", c.getenv("theme", c.Theme), "board theme: "+strings.Join(themes, "|"))
	fs.BoolVar(&c.Sound, "sound", c.getenvBool("sound", c.Sound), "play move sounds")
	fs.StringVar(&c.DataDir, "data-dir", c.getenv("data-dir", c.DataDir), "directory for saved games and preferences")
	fs.StringVar(&c.LogLevel, "log-level", c.getenv("log-level", c.LogLevel), "log level: trace|debug|info|warn|error")
	fs.Uint64Var(&c.Seed, "seed", c.getenvUint("seed", c.Seed), "random seed, 0 for a random one")
}

// envKey maps a flag name to its environment variable.
func envKey(name string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func (c *Config) lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(envKey(name)))
	if v == "" {
		return "", false
	}
	c.explicit[name] = true
	return v, true
}

func (c *Config) getenv(name, def string) string {
	if v, ok := c.lookup(name); ok {
		return v
	}
	return def
}

func (c *Config) getenvInt(name string, def int) int {
	if v, ok := c.lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (c *Config) getenvUint(name string, def uint64) uint64 {
	if v, ok := c.lookup(name); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func (c *Config) getenvBool(name string, def bool) bool {
	if v, ok := c.lookup(name); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("%w: depth %d must be at least 1", ErrInvalid, c.Depth)
	}
	if !slices.Contains(opponents, c.Opponent) {
		return fmt.Errorf("%w: opponent %q", ErrInvalid, c.Opponent)
	}
	if !slices.Contains(playerColors, c.PlayerColor) {
		return fmt.Errorf("%w: color %q", ErrInvalid, c.PlayerColor)
	}
	if _, err := board.ParseSetup(c.Setup); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !slices.Contains(themes, c.Theme) {
		return fmt.Errorf("%w: theme %q", ErrInvalid, c.Theme)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// StartSetup returns the parsed starting position.
func (c *Config) StartSetup() board.Setup {
	s, _ := board.ParseSetup(c.Setup)
	return s
}

// VsComputer reports whether the computer plays one side.
func (c *Config) VsComputer() bool {
	return c.Opponent == "computer"
}

// ApplyPreferences fills every setting not given explicitly from prefs.
func (c *Config) ApplyPreferences(p *storage.UserPreferences) {
	if p == nil {
		return
	}
	if !c.explicit["depth"] {
		if d, err := engine.ParseDifficulty(p.Difficulty); err == nil {
			c.Depth = engine.DifficultySettings[d]
		}
	}
	if !c.explicit["opponent"] {
		c.Opponent = p.Opponent.String()
	}
	if !c.explicit["color"] {
		c.PlayerColor = p.PlayerColor.String()
	}
	if !c.explicit["setup"] {
		if _, err := board.ParseSetup(p.Setup); err == nil {
			c.Setup = p.Setup
		}
	}
	if !c.explicit["theme"] && slices.Contains(themes, p.Theme) {
		c.Theme = p.Theme
	}
	if !c.explicit["sound"] {
		c.Sound = p.SoundEnabled
	}
}

// Preferences converts the settings back into storable preferences.
func (c *Config) Preferences() *storage.UserPreferences {
	p := storage.DefaultPreferences()
	if c.Opponent == "friend" {
		p.Opponent = storage.OpponentFriend
	}
	switch c.PlayerColor {
	case "black":
		p.PlayerColor = storage.ColorBlack
	case "random":
		p.PlayerColor = storage.ColorRandom
	}
	p.Difficulty = ""
	for d, depth := range engine.DifficultySettings {
		if depth == c.Depth {
			p.Difficulty = d.String()
		}
	}
	p.Setup = c.Setup
	p.Theme = c.Theme
	p.SoundEnabled = c.Sound
	return p
}
