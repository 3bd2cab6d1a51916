package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundCastle
	SoundPromote
	SoundInvalid
	SoundGameEnd
)

const sampleRate = 44100

// wave returns the sample at time t seconds; p is the fraction of the
// sound already played.
type wave func(t, p float64) float64

// AudioManager plays synthesized sound effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager synthesizes every effect up front.
func NewAudioManager(enabled bool) *AudioManager {
	am := &AudioManager{
		context: audio.CurrentContext(),
		enabled: enabled,
		volume:  0.5,
	}
	if am.context == nil {
		am.context = audio.NewContext(sampleRate)
	}
	click := func(freq float64) wave {
		return func(t, _ float64) float64 {
			noise := (math.Sin(t*sampleRate*0.3) + math.Sin(t*sampleRate*0.7)) * 0.3
			return (math.Sin(2*math.Pi*freq*t) + noise) * math.Exp(-t*30)
		}
	}
	am.sounds = map[SoundType][]byte{
		SoundMove:    synth(0.08, 0.3, click(440)),
		SoundCapture: synth(0.12, 0.5, click(330)),
		SoundCheck:   synth(0.15, 0.4, tone(880)),
		SoundCastle:  concat(synth(0.06, 0.3, click(400)), silence(0.05), synth(0.06, 0.24, click(440))),
		SoundPromote: concat(synth(0.1, 0.35, tone(523.25)), synth(0.14, 0.35, tone(783.99))),
		SoundInvalid: synth(0.1, 0.15, func(t, p float64) float64 {
			return (math.Sin(2*math.Pi*150*t) + 0.3*math.Sin(4*math.Pi*150*t)) * (1 - p)
		}),
		SoundGameEnd: synth(0.4, 0.5, chord(261.63, 329.63, 392.00)),
	}
	return am
}

// tone is a sine with a short attack and linear decay.
func tone(freq float64) wave {
	return func(t, p float64) float64 {
		env := 1 - (p-0.1)/0.9
		if p < 0.1 {
			env = p / 0.1
		}
		return math.Sin(2*math.Pi*freq*t) * env
	}
}

func chord(freqs ...float64) wave {
	return func(t, p float64) float64 {
		env := 1.0
		switch {
		case p < 0.1:
			env = p / 0.1
		case p > 0.7:
			env = (1 - p) / 0.3
		}
		var s float64
		for _, f := range freqs {
			s += math.Sin(2 * math.Pi * f * t)
		}
		return s / float64(len(freqs)) * env
	}
}

// synth renders w as 16-bit little-endian stereo PCM.
func synth(duration, amplitude float64, w wave) []byte {
	n := int(sampleRate * duration)
	data := make([]byte, n*4)
	for i := range n {
		t := float64(i) / sampleRate
		v := int16(math.Max(-1, math.Min(1, w(t, t/duration)*amplitude)) * 32767)
		data[i*4] = byte(v)
		data[i*4+1] = byte(v >> 8)
		data[i*4+2] = byte(v)
		data[i*4+3] = byte(v >> 8)
	}
	return data
}

func silence(duration float64) []byte {
	return make([]byte, int(sampleRate*duration)*4)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Play starts a sound; overlapping sounds each get their own player.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
