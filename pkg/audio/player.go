package audio

import (
	"sync"

	"wormhole/internal/util"
)

// Player streams a clip into output buffers. Fill is safe to call from an
// audio callback while other methods run on the main thread.
type Player struct {
	mu       sync.Mutex
	clip     *Clip
	channels int
	position int
	volume   float32
	loop     bool
	playing  bool
}

// NewPlayer prepares clip for an output with the given channel count
func NewPlayer(clip *Clip, channels int, volume float32, loop bool) *Player {
	return &Player{
		clip:     clip,
		channels: channels,
		volume:   volume,
		loop:     loop,
	}
}

func (p *Player) Play() {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
}

func (p *Player) Stop() {
	p.mu.Lock()
	p.playing = false
	p.position = 0
	p.mu.Unlock()
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) SetVolume(volume float32) {
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
}

// Fill writes the next len(out)/channels frames. Silence follows the end
// of a non-looping clip.
func (p *Player) Fill(out []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Clear buffer
	for i := range out {
		out[i] = 0
	}
	if !p.playing || p.clip == nil || p.clip.Frames() == 0 || p.channels <= 0 {
		return
	}

	frames := p.clip.Frames()
	in := p.clip.Channels
	for i := 0; i+p.channels <= len(out); i += p.channels {
		if p.position >= frames {
			if !p.loop {
				p.playing = false
				p.position = 0
				break
			}
			p.position = 0
		}

		src := p.clip.Samples[p.position*in : p.position*in+in]
		for ch := 0; ch < p.channels; ch++ {
			out[i+ch] = util.Clamp(p.sample(src, ch)*p.volume, -1, 1)
		}
		p.position++
	}
}

// sample maps output channel ch onto the clip's channel layout
func (p *Player) sample(frame []float32, ch int) float32 {
	switch {
	case len(frame) == p.channels:
		return frame[ch]
	case len(frame) == 1:
		return frame[0]
	case p.channels == 1:
		var sum float32
		for _, s := range frame {
			sum += s
		}
		return sum / float32(len(frame))
	default:
		return frame[ch%len(frame)]
	}
}
