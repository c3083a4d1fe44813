//go:build windows

// terminal_host_windows.go - Terminal front end stub for Windows

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import "fmt"

type TerminalFrontend struct{}

func NewTerminalFrontend(engine *SynthEngine, seq *Sequencer, recorder *Recorder, config MelodyConfig) *TerminalFrontend {
	return &TerminalFrontend{}
}

func (tf *TerminalFrontend) Run() error {
	return fmt.Errorf("terminal mode is not supported on Windows; use the desktop window")
}
