package ui

import (
	"image/color"

	"github.com/hailam/chessgame/internal/board"
)

// Theme defines the color scheme for the board. Every square role has a
// light and a dark variant so highlights keep the checkered pattern.
type Theme struct {
	Name string

	Light, Dark                 color.RGBA
	SelectedLight, SelectedDark color.RGBA
	LastLight, LastDark         color.RGBA

	Check      color.RGBA
	LegalMove  color.RGBA
	Background color.RGBA
	Text       color.RGBA
}

var (
	lastLight = color.RGBA{116, 194, 229, 255}
	lastDark  = color.RGBA{32, 154, 215, 255}
)

// Themes lists the available themes in menu order.
var Themes = []*Theme{
	{
		Name:          "blue",
		Light:         color.RGBA{214, 221, 229, 255},
		Dark:          color.RGBA{82, 133, 180, 255},
		SelectedLight: color.RGBA{253, 187, 115, 255},
		SelectedDark:  color.RGBA{255, 129, 45, 255},
		LastLight:     lastLight,
		LastDark:      lastDark,
	},
	{
		Name:          "bw",
		Light:         color.RGBA{255, 255, 255, 255},
		Dark:          color.RGBA{100, 100, 100, 255},
		SelectedLight: color.RGBA{140, 236, 146, 255},
		SelectedDark:  color.RGBA{30, 183, 37, 255},
		LastLight:     lastLight,
		LastDark:      lastDark,
	},
	{
		Name:          "yellow",
		Light:         color.RGBA{247, 241, 142, 255},
		Dark:          color.RGBA{244, 215, 4, 255},
		SelectedLight: color.RGBA{253, 187, 115, 255},
		SelectedDark:  color.RGBA{255, 129, 45, 255},
		LastLight:     lastLight,
		LastDark:      lastDark,
	},
}

func init() {
	for _, t := range Themes {
		t.Check = color.RGBA{235, 64, 52, 170}
		t.LegalMove = color.RGBA{40, 40, 40, 90}
		t.Background = color.RGBA{40, 44, 52, 255}
		t.Text = color.RGBA{220, 220, 220, 255}
	}
}

// ThemeByName returns the named theme, or the first one.
func ThemeByName(name string) *Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// squareColor picks the fill for a square.
func (t *Theme) squareColor(c board.Coord, selected, last bool) color.RGBA {
	light := c.Light()
	switch {
	case selected && light:
		return t.SelectedLight
	case selected:
		return t.SelectedDark
	case last && light:
		return t.LastLight
	case last:
		return t.LastDark
	case light:
		return t.Light
	default:
		return t.Dark
	}
}
