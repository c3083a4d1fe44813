// synth_engine.go - Voice management and tone synthesis

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"math"
	"sync"
)

const (
	SAMPLE_RATE   = 44100
	MS_TO_SAMPLES = SAMPLE_RATE / 1000

	ATTACK_MS  = 10  // attack ramp length
	RELEASE_MS = 500 // release ramp length

	VOICE_MIX_LEVEL = 0.25 // headroom for a handful of simultaneous voices

	DEFAULT_VOLUME = 0.5
)

// Fixed low-shelf tone correction baked into the output path. A gentle lift
// below BASS_SHELF_HZ; not exposed to the player.
const (
	BASS_SHELF_HZ   = 180.0
	BASS_SHELF_GAIN = 0.6
)

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

const (
	ENV_ATTACK = iota
	ENV_SUSTAIN
	ENV_RELEASE
)

// Voice is one sounding note from attack through release.
type Voice struct {
	note              string
	frequency         float64
	phase             float64
	gain              float32 // master volume captured at note start
	envelopeLevel     float32
	envelopePhase     int
	envelopeSample    int
	releaseStartLevel float32 // level when the release was armed
	attackTime        int     // samples
	releaseTime       int     // samples
}

// ScopeState is the shared record the oscilloscope reads: the amplitude the
// display eases toward, the sounding frequency (absent when silent), and the
// last frequency that sounded, retained through release.
type ScopeState struct {
	TargetAmplitude  float64
	CurrentFrequency float64
	HasCurrent       bool
	LastFrequency    float64
}

// SynthEngine owns the active voice set and the scope state. The audio
// backend pulls samples on its own goroutine, so all state lives behind one
// mutex, as the Intuition Engine sound chip does.
type SynthEngine struct {
	mutex     sync.RWMutex
	voices    map[string]*Voice // active set: attack/sustain phase only
	releasing []*Voice          // stopped voices draining their release ramp
	volume    float64
	scope     ScopeState
	shelfLP   float32 // one-pole low-shelf filter state
	enabled   bool
	output    AudioOutput
}

func NewSynthEngine(backend int) (*SynthEngine, error) {
	engine := &SynthEngine{
		voices: make(map[string]*Voice),
		volume: DEFAULT_VOLUME,
	}
	output, err := NewAudioOutput(backend, SAMPLE_RATE, engine)
	if err != nil {
		return nil, err
	}
	engine.output = output
	return engine, nil
}

// StartNote begins the voice for a note identifier. Restarting an identifier
// that is still in its attack/sustain phase retriggers the existing voice in
// place - one voice per identifier, never two.
func (engine *SynthEngine) StartNote(note string, frequency float64) {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	if v, ok := engine.voices[note]; ok {
		v.frequency = frequency
		v.gain = float32(engine.volume)
		v.envelopePhase = ENV_ATTACK
		v.envelopeSample = 0
	} else {
		engine.voices[note] = &Voice{
			note:          note,
			frequency:     frequency,
			gain:          float32(engine.volume),
			envelopePhase: ENV_ATTACK,
			attackTime:    ATTACK_MS * MS_TO_SAMPLES,
			releaseTime:   RELEASE_MS * MS_TO_SAMPLES,
		}
	}

	engine.scope.CurrentFrequency = frequency
	engine.scope.HasCurrent = true
	engine.scope.LastFrequency = frequency
	engine.scope.TargetAmplitude = engine.volume
}

// StopNote arms the release ramp for a note and drops it from the active set
// immediately; the mixer drains the ramp in the background. Stopping a note
// that is not active is a no-op.
func (engine *SynthEngine) StopNote(note string) {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()
	engine.stopLocked(note)
}

// StopAllNotes silences every active voice; used when playback is cancelled.
func (engine *SynthEngine) StopAllNotes() {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()
	for note := range engine.voices {
		engine.stopLocked(note)
	}
}

func (engine *SynthEngine) stopLocked(note string) {
	v, ok := engine.voices[note]
	if !ok {
		return
	}
	delete(engine.voices, note)
	v.envelopePhase = ENV_RELEASE
	v.envelopeSample = 0
	v.releaseStartLevel = v.envelopeLevel
	engine.releasing = append(engine.releasing, v)

	if len(engine.voices) == 0 {
		engine.scope.HasCurrent = false
		engine.scope.CurrentFrequency = 0
		engine.scope.TargetAmplitude = 0
		// LastFrequency is retained so the scope can decay at pitch.
	}
}

// SetVolume sets the master volume, clamped to 0..1. Voices already sounding
// keep the gain captured when they started.
func (engine *SynthEngine) SetVolume(v float64) {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	engine.volume = v
}

func (engine *SynthEngine) Volume() float64 {
	engine.mutex.RLock()
	defer engine.mutex.RUnlock()
	return engine.volume
}

func (engine *SynthEngine) ActiveVoiceCount() int {
	engine.mutex.RLock()
	defer engine.mutex.RUnlock()
	return len(engine.voices)
}

func (engine *SynthEngine) IsNoteActive(note string) bool {
	engine.mutex.RLock()
	defer engine.mutex.RUnlock()
	_, ok := engine.voices[note]
	return ok
}

// ScopeSnapshot returns the shared playback state for the visualizer.
func (engine *SynthEngine) ScopeSnapshot() ScopeState {
	engine.mutex.RLock()
	defer engine.mutex.RUnlock()
	return engine.scope
}

// updateEnvelope advances the voice envelope one sample. Returns false once
// the release ramp has fully decayed and the voice can be discarded.
func (v *Voice) updateEnvelope() bool {
	switch v.envelopePhase {
	case ENV_ATTACK:
		if v.attackTime <= 0 {
			v.envelopeLevel = 1.0
			v.envelopePhase = ENV_SUSTAIN
		} else {
			v.envelopeLevel += 1.0 / float32(v.attackTime)
			if v.envelopeLevel >= 1.0 {
				v.envelopeLevel = 1.0
				v.envelopePhase = ENV_SUSTAIN
			}
		}
	case ENV_RELEASE:
		if v.releaseTime <= 0 || v.envelopeSample >= v.releaseTime {
			v.envelopeLevel = 0
			return false
		}
		// Linear ramp from the level the release was armed at down to
		// silence over the full releaseTime.
		v.envelopeLevel = v.releaseStartLevel * (1.0 - float32(v.envelopeSample)/float32(v.releaseTime))
		v.envelopeSample++
	}
	return true
}

// generateSample renders one sample from the voice. The second return is
// false when the voice has finished releasing.
func (v *Voice) generateSample() (float32, bool) {
	alive := v.updateEnvelope()
	sample := float32(math.Sin(v.phase)) * v.gain * v.envelopeLevel
	v.phase += v.frequency * (2 * math.Pi / SAMPLE_RATE)
	if v.phase >= 2*math.Pi {
		v.phase -= 2 * math.Pi
	}
	return sample, alive
}

// GenerateSample mixes all sounding voices, applies the fixed low-shelf tone
// correction and clamps. Called from the audio backend's pull loop.
func (engine *SynthEngine) GenerateSample() float32 {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	if !engine.enabled {
		return 0
	}

	var sample float32
	for _, v := range engine.voices {
		s, _ := v.generateSample()
		sample += s * VOICE_MIX_LEVEL
	}

	keep := engine.releasing[:0]
	for _, v := range engine.releasing {
		s, alive := v.generateSample()
		sample += s * VOICE_MIX_LEVEL
		if alive {
			keep = append(keep, v)
		}
	}
	engine.releasing = keep

	// One-pole low shelf: lift the band below BASS_SHELF_HZ.
	coef := float32(2 * math.Pi * BASS_SHELF_HZ / SAMPLE_RATE)
	engine.shelfLP += coef * (sample - engine.shelfLP)
	sample += engine.shelfLP * BASS_SHELF_GAIN

	if sample > MAX_SAMPLE {
		sample = MAX_SAMPLE
	} else if sample < MIN_SAMPLE {
		sample = MIN_SAMPLE
	}
	return sample
}

func (engine *SynthEngine) ReadSample() float32 {
	return engine.GenerateSample()
}

func (engine *SynthEngine) Start() {
	engine.mutex.Lock()
	engine.enabled = true
	engine.mutex.Unlock()
	engine.output.Start()
}

func (engine *SynthEngine) Stop() {
	engine.mutex.Lock()
	engine.enabled = false
	engine.mutex.Unlock()
	engine.output.Stop()
	engine.output.Close()
}
