//go:build headless

// video_frontend_headless.go - Stub front end for headless builds

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

type KeysFrontend struct{}

func NewKeysFrontend(engine *SynthEngine, seq *Sequencer, recorder *Recorder, config MelodyConfig) *KeysFrontend {
	return &KeysFrontend{}
}

func (kf *KeysFrontend) Run() error { return nil }
