package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrFormat = errors.New("unsupported audio format")

// Track is one fully decoded audio file: a playable buffer for the speaker
// and a mono sample view for analysis. The chart generator reads Samples
// directly; the spectrum visualizer takes its own copy via CopySamples.
type Track struct {
	format   beep.Format
	buffer   *beep.Buffer
	ctrl     *beep.Ctrl
	samples  []float64
	finished atomic.Bool
}

// Load decodes an entire audio file into memory. The decoder is chosen by
// file extension, the same set beep ships: .mp3, .ogg, .wav, .flac.
func Load(path string) (*Track, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %v", ErrFormat, filepath.Ext(path))
	}
	if nil != err {
		return nil, fmt.Errorf("unable to decode %v: %w", path, err)
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Close(); nil != err {
		return nil, err
	}

	t := &Track{format: format, buffer: buffer}
	t.samples = t.mixdown()
	return t, nil
}

// mixdown streams the buffer once, averaging the two channels into mono.
func (t *Track) mixdown() []float64 {
	s := t.buffer.Streamer(0, t.buffer.Len())
	mono := make([]float64, 0, t.buffer.Len())
	frame := make([][2]float64, 512)
	for {
		n, ok := s.Stream(frame)
		for i := 0; i < n; i++ {
			mono = append(mono, (frame[i][0]+frame[i][1])/2)
		}
		if !ok {
			return mono
		}
	}
}

// Samples is the mono view the analyzer works on. Callers must not hold it
// past the Track's lifetime.
func (t *Track) Samples() []float64 {
	return t.samples
}

// CopySamples returns an independent copy of the mono samples.
func (t *Track) CopySamples() []float64 {
	c := make([]float64, len(t.samples))
	copy(c, t.samples)
	return c
}

func (t *Track) Rate() int {
	return int(t.format.SampleRate)
}

func (t *Track) Duration() time.Duration {
	return t.format.SampleRate.D(t.buffer.Len())
}

// InitSpeaker opens the output device. Call once before Play; the buffer is
// kept short so pause takes effect without an audible tail.
func (t *Track) InitSpeaker() error {
	return speaker.Init(t.format.SampleRate, t.format.SampleRate.N(time.Second/30))
}

// Play starts playback from the beginning of the track.
func (t *Track) Play() {
	t.finished.Store(false)
	t.ctrl = &beep.Ctrl{Streamer: t.buffer.Streamer(0, t.buffer.Len())}
	speaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
		t.finished.Store(true)
	})))
}

func (t *Track) Pause() {
	t.setPaused(true)
}

func (t *Track) Resume() {
	t.setPaused(false)
}

func (t *Track) setPaused(paused bool) {
	if nil == t.ctrl {
		return
	}
	speaker.Lock()
	t.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop silences the speaker immediately.
func (t *Track) Stop() {
	speaker.Clear()
}

// Finished reports whether playback ran off the end of the buffer.
func (t *Track) Finished() bool {
	return t.finished.Load()
}
