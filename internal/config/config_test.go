package config

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
	"github.com/hailam/chessgame/internal/storage"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return Load(fs, args)
}

func TestLoadDefaults(t *testing.T) {
	c, err := load(t)
	if err != nil {
		t.Fatal(err)
	}
	if c.Depth != 3 || c.Opponent != "computer" || c.Setup != "standard" || c.Theme != "blue" {
		t.Errorf("defaults = %+v", c)
	}
	if c.Level() != zerolog.InfoLevel {
		t.Errorf("level = %v", c.Level())
	}
	if !c.VsComputer() || c.StartSetup() != board.Standard {
		t.Error("derived values wrong")
	}
}

func TestLoadFlagsAndEnv(t *testing.T) {
	t.Setenv("CHESSGAME_THEME", "yellow")
	t.Setenv("CHESSGAME_DEPTH", "2")
	t.Setenv("CHESSGAME_SOUND", "off")

	c, err := load(t, "-depth", "4", "-setup", "rooks", "-log-level", "debug", "-seed", "7")
	if err != nil {
		t.Fatal(err)
	}
	if c.Depth != 4 {
		t.Errorf("flag should beat env: depth = %d", c.Depth)
	}
	if c.Theme != "yellow" || c.Sound {
		t.Errorf("env not applied: %+v", c)
	}
	if c.StartSetup() != board.TwoRooks || c.Level() != zerolog.DebugLevel || c.Seed != 7 {
		t.Errorf("flags not applied: %+v", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero depth", []string{"-depth", "0"}},
		{"opponent", []string{"-opponent", "robot"}},
		{"color", []string{"-color", "green"}},
		{"setup", []string{"-setup", "chess960"}},
		{"theme", []string{"-theme", "neon"}},
		{"log level", []string{"-log-level", "loud"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.args...)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestApplyPreferences(t *testing.T) {
	c, err := load(t, "-theme", "bw")
	if err != nil {
		t.Fatal(err)
	}
	prefs := &storage.UserPreferences{
		Opponent:    storage.OpponentFriend,
		PlayerColor: storage.ColorBlack,
		Difficulty:  "hard",
		Setup:       "queen",
		Theme:       "yellow",
	}
	c.ApplyPreferences(prefs)

	if c.Theme != "bw" {
		t.Errorf("explicit theme overridden: %s", c.Theme)
	}
	if c.Opponent != "friend" || c.PlayerColor != "black" || c.Depth != 4 || c.Setup != "queen" || c.Sound {
		t.Errorf("preferences not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	c, err := load(t, "-opponent", "friend", "-color", "random", "-depth", "2", "-theme", "yellow")
	if err != nil {
		t.Fatal(err)
	}
	p := c.Preferences()
	if p.Opponent != storage.OpponentFriend || p.PlayerColor != storage.ColorRandom ||
		p.Difficulty != "easy" || p.Theme != "yellow" {
		t.Errorf("preferences = %+v", p)
	}

	other := Default()
	other.ApplyPreferences(p)
	if other.Depth != 2 || other.Opponent != "friend" || other.PlayerColor != "random" {
		t.Errorf("round trip = %+v", other)
	}
}
