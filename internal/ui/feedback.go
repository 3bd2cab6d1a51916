package ui

import (
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessgame/internal/board"
)

// ToastType selects a toast's colors.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastSuccess
)

var toastColors = map[ToastType][2]color.RGBA{
	ToastInfo:    {{50, 100, 150, 220}, {255, 255, 255, 255}},
	ToastWarning: {{180, 140, 20, 220}, {40, 30, 0, 255}},
	ToastSuccess: {{50, 150, 50, 220}, {255, 255, 255, 255}},
}

// Toast is a short message drawn over the board.
type Toast struct {
	Message  string
	Type     ToastType
	Start    time.Time
	Duration time.Duration
}

// alpha fades the toast in and out.
func (t *Toast) alpha(now time.Time) float64 {
	const fade = 0.2
	elapsed := now.Sub(t.Start).Seconds()
	switch rest := t.Duration.Seconds() - elapsed; {
	case elapsed < fade:
		return elapsed / fade
	case rest < fade:
		return max(rest/fade, 0)
	}
	return 1
}

// effect is a short animation bound to a square.
type effect struct {
	at       board.Coord
	start    time.Time
	duration time.Duration
	color    color.RGBA // flashes only
}

func (e *effect) progress(now time.Time) float64 {
	return now.Sub(e.start).Seconds() / e.duration.Seconds()
}

// FeedbackManager owns toasts, square animations and sounds.
type FeedbackManager struct {
	toasts  []*Toast
	shakes  []*effect
	flashes []*effect
	audio   *AudioManager
}

// NewFeedbackManager creates a feedback manager.
func NewFeedbackManager(sound bool) *FeedbackManager {
	return &FeedbackManager{audio: NewAudioManager(sound)}
}

// Audio returns the sound player.
func (fm *FeedbackManager) Audio() *AudioManager {
	return fm.audio
}

// Toast shows a message.
func (fm *FeedbackManager) Toast(msg string, typ ToastType, d time.Duration) {
	fm.toasts = append(fm.toasts, &Toast{Message: msg, Type: typ, Start: time.Now(), Duration: d})
	if len(fm.toasts) > 3 {
		fm.toasts = fm.toasts[1:]
	}
}

// Update drops expired toasts and animations.
func (fm *FeedbackManager) Update() {
	now := time.Now()
	fm.toasts = slices.DeleteFunc(fm.toasts, func(t *Toast) bool { return now.Sub(t.Start) >= t.Duration })
	done := func(e *effect) bool { return e.progress(now) >= 1 }
	fm.shakes = slices.DeleteFunc(fm.shakes, done)
	fm.flashes = slices.DeleteFunc(fm.flashes, done)
}

// ShakeOffset returns the horizontal offset of a shaking piece on c.
func (fm *FeedbackManager) ShakeOffset(c board.Coord) float64 {
	for _, s := range fm.shakes {
		if s.at == c {
			p := s.progress(time.Now())
			return 8 * math.Exp(-5*p) * math.Sin(40*p)
		}
	}
	return 0
}

// Draw renders flashes and toasts.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, r *Renderer) {
	now := time.Now()
	for _, f := range fm.flashes {
		c := f.color
		c.A = uint8(float64(c.A) * (1 - min(f.progress(now), 1)))
		r.fillSquare(screen, f.at, c)
	}

	f := face(defaultFontSize, false)
	if f == nil {
		return
	}
	pad := 12 * UIScale
	y := 50 * UIScale
	for _, t := range fm.toasts {
		a := t.alpha(now)
		colors := toastColors[t.Type]
		bg, fg := colors[0], colors[1]
		bg.A = uint8(float64(bg.A) * a)

		w, h := measure(t.Message, f)
		boxW, boxH := w+pad*2, h+pad*2
		x := float64(BoardSize)*UIScale/2 - boxW/2
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), bg, false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(x+pad, y+pad)
		op.ColorScale.ScaleWithColor(fg)
		op.ColorScale.ScaleAlpha(float32(a))
		text.Draw(screen, t.Message, f, op)
		y += boxH + 8*UIScale
	}
}

// OnInvalidMove shakes the piece and flashes the target square.
func (fm *FeedbackManager) OnInvalidMove(from, to board.Coord, msg string) {
	now := time.Now()
	fm.Toast(msg, ToastWarning, 2*time.Second)
	fm.shakes = append(fm.shakes, &effect{at: from, start: now, duration: 300 * time.Millisecond})
	fm.flashes = append(fm.flashes, &effect{at: to, start: now, duration: 400 * time.Millisecond, color: color.RGBA{255, 80, 80, 150}})
	fm.audio.Play(SoundInvalid)
}

// OnMove plays the sound for the move just made.
func (fm *FeedbackManager) OnMove(m *board.Move, check bool) {
	switch {
	case check:
		fm.Toast("Check!", ToastWarning, 2*time.Second)
		fm.audio.Play(SoundCheck)
	case m.Castle != nil:
		fm.audio.Play(SoundCastle)
	case m.IsPromotion():
		fm.audio.Play(SoundPromote)
	case m.IsCapture():
		fm.audio.Play(SoundCapture)
	default:
		fm.audio.Play(SoundMove)
	}
}

// OnGameEnd announces the result.
func (fm *FeedbackManager) OnGameEnd(msg string, decisive bool) {
	typ := ToastInfo
	if decisive {
		typ = ToastSuccess
	}
	fm.Toast(msg, typ, 5*time.Second)
	fm.audio.Play(SoundGameEnd)
}
