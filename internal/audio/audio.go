package audio

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 512

	BaseFrequency = 2093.0 // C7
	MaxVoices     = 8
	voiceLength   = 1.2
	attack        = 0.002
	cutoff        = 8000.0
	delaySeconds  = 0.09
	volume        = 0.25
)

// partial ratios and decay rates of a struck thin disc
var partials = []struct{ ratio, amp, decay float64 }{
	{1.00, 1.00, 5},
	{2.32, 0.45, 8},
	{4.25, 0.25, 13},
	{6.63, 0.12, 20},
}

type voice struct {
	age   float64
	pitch float64
	pan   float64
}

// Chime synthesizes a short metallic ring each time Play is called. The
// stream callback and Play share voices under mu.
type Chime struct {
	stream *portaudio.Stream

	mu     sync.Mutex
	voices []voice
	rng    *rand.Rand

	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	Active bool
}

func NewChime(seed int64) *Chime {
	delayLen := int(float64(SampleRate) * delaySeconds)
	return &Chime{
		voices:    make([]voice, 0, MaxVoices),
		rng:       rand.New(rand.NewSource(seed)),
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens the default output device. On failure the chime stays silent
// and Play keeps working.
func (c *Chime) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, c.Process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}

	c.stream = stream
	c.Active = true
	log.Printf("audio: output started at %d Hz", SampleRate)
	return nil
}

func (c *Chime) Stop() {
	if !c.Active {
		return
	}
	c.stream.Stop()
	c.stream.Close()
	portaudio.Terminate()
	c.Active = false
}

// Play starts a new ring. The oldest voice is dropped past MaxVoices.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.voices) == MaxVoices {
		c.voices = append(c.voices[:0], c.voices[1:]...)
	}
	c.voices = append(c.voices, voice{
		pitch: BaseFrequency * (0.97 + 0.06*c.rng.Float64()),
		pan:   0.3 + 0.4*c.rng.Float64(),
	})
}

// Voices is the number of rings still sounding.
func (c *Chime) Voices() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.voices)
}

// Process fills a non-interleaved stereo buffer. It is the stream callback.
func (c *Chime) Process(out [][]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := range out[0] {
		var left, right float64
		for v := range c.voices {
			s := c.voices[v].sample()
			left += s * (1 - c.voices[v].pan)
			right += s * c.voices[v].pan
			c.voices[v].age += dt
		}

		left, c.filterState[0] = lpf(left, cutoff, dt, c.filterState[0])
		right, c.filterState[1] = lpf(right, cutoff, dt, c.filterState[1])

		delayL := c.delayLine[0][c.delayHead]
		delayR := c.delayLine[1][c.delayHead]
		mixL := left + delayR*0.25
		mixR := right + delayL*0.25
		c.delayLine[0][c.delayHead] = mixL * 0.5
		c.delayLine[1][c.delayHead] = mixR * 0.5
		c.delayHead = (c.delayHead + 1) % len(c.delayLine[0])

		out[0][i] = float32(clamp(mixL * volume))
		if len(out) > 1 {
			out[1][i] = float32(clamp(mixR * volume))
		}
	}

	live := c.voices[:0]
	for _, v := range c.voices {
		if v.age < voiceLength {
			live = append(live, v)
		}
	}
	c.voices = live
}

func (v voice) sample() float64 {
	if v.age >= voiceLength {
		return 0
	}
	env := math.Min(v.age/attack, 1)
	s := 0.0
	for _, p := range partials {
		s += p.amp * math.Exp(-v.age*p.decay) * math.Sin(2*math.Pi*v.pitch*p.ratio*v.age)
	}
	return s * env
}

// One pole low pass
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Render synthesizes one ring offline and returns the left channel.
func Render(seed int64, seconds float64) []float32 {
	c := NewChime(seed)
	c.Play()
	n := int(seconds * SampleRate)
	out := [][]float32{make([]float32, n), make([]float32, n)}
	for start := 0; start < n; start += BufferSize {
		end := min(start+BufferSize, n)
		c.Process([][]float32{out[0][start:end], out[1][start:end]})
	}
	return out[0]
}
