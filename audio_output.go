// audio_output.go - Audio backend selection

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import "fmt"

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_HEADLESS
)

// AudioOutput is the pull-model playback backend: the engine hands itself to
// the backend, which reads samples on its own schedule.
type AudioOutput interface {
	SetupPlayer(engine *SynthEngine)
	Start()
	Stop()
	Close()
	IsStarted() bool
}

func NewAudioOutput(backend int, sampleRate int, engine *SynthEngine) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(sampleRate)
		if err != nil {
			return nil, err
		}
		player.SetupPlayer(engine)
		return player, nil
	case AUDIO_BACKEND_HEADLESS:
		player := NewHeadlessPlayer()
		player.SetupPlayer(engine)
		return player, nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %d", backend)
	}
}

// HeadlessPlayer discards samples. Used by tests and available in all builds.
type HeadlessPlayer struct {
	engine  *SynthEngine
	started bool
}

func NewHeadlessPlayer() *HeadlessPlayer { return &HeadlessPlayer{} }

func (hp *HeadlessPlayer) SetupPlayer(engine *SynthEngine) { hp.engine = engine }
func (hp *HeadlessPlayer) Start()                          { hp.started = true }
func (hp *HeadlessPlayer) Stop()                           { hp.started = false }
func (hp *HeadlessPlayer) Close()                          { hp.started = false }
func (hp *HeadlessPlayer) IsStarted() bool                 { return hp.started }
