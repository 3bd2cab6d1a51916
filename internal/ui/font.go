package ui

import (
	"bytes"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 18.0
	labelFontSize   = 11.0
)

var (
	fontsOnce     sync.Once
	regularSource *text.GoTextFaceSource
	boldSource    *text.GoTextFaceSource
	fontErr       error
)

func loadFonts() {
	fontsOnce.Do(func() {
		regularSource, fontErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if fontErr != nil {
			return
		}
		boldSource, fontErr = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	})
}

// face returns a Go font face of the given size scaled for HiDPI, or nil
// when the fonts failed to load.
func face(size float64, bold bool) *text.GoTextFace {
	loadFonts()
	src := regularSource
	if bold {
		src = boldSource
	}
	if src == nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: size * UIScale}
}

// measure returns the size of s in device pixels.
func measure(s string, f *text.GoTextFace) (float64, float64) {
	if f == nil {
		return 0, 0
	}
	return text.Measure(s, f, 0)
}
