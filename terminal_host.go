//go:build !windows

// terminal_host.go - Raw-mode terminal front end

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalFrontend plays the keyboard from a raw-mode tty: letter keys sound
// their notes, digits drive the transport. Only instantiated in main.go for
// interactive use - never in tests.
type TerminalFrontend struct {
	engine   *SynthEngine
	seq      *Sequencer
	recorder *Recorder
	config   MelodyConfig

	fd           int
	oldTermState *term.State
	nonblockSet  bool
}

func NewTerminalFrontend(engine *SynthEngine, seq *Sequencer, recorder *Recorder, config MelodyConfig) *TerminalFrontend {
	return &TerminalFrontend{
		engine:   engine,
		seq:      seq,
		recorder: recorder,
		config:   config,
	}
}

// Run puts stdin in raw mode and reads keys until quit. Stdin is restored on
// the way out.
func (tf *TerminalFrontend) Run() error {
	tf.fd = int(os.Stdin.Fd())

	// Raw mode disables OS-level echo and line buffering.
	oldState, err := term.MakeRaw(tf.fd)
	if err != nil {
		return fmt.Errorf("terminal frontend: failed to set raw mode: %w", err)
	}
	tf.oldTermState = oldState
	defer tf.restore()

	if err := syscall.SetNonblock(tf.fd, true); err != nil {
		return fmt.Errorf("terminal frontend: failed to set nonblocking stdin: %w", err)
	}
	tf.nonblockSet = true

	fmt.Printf("Intuition Keys terminal mode\r\n")
	fmt.Printf("a-z and space play notes\r\n")
	fmt.Printf("1 play melody  2 record on/off  3 play recording  0 stop  q quit\r\n")

	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(tf.fd, buf)
		if n > 0 {
			if tf.handleKey(buf[0]) {
				return nil
			}
			continue
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return nil
		}
	}
}

func (tf *TerminalFrontend) restore() {
	if tf.nonblockSet {
		_ = syscall.SetNonblock(tf.fd, false)
		tf.nonblockSet = false
	}
	if tf.oldTermState != nil {
		_ = term.Restore(tf.fd, tf.oldTermState)
		tf.oldTermState = nil
	}
}

// handleKey routes one raw byte. Returns true on quit.
func (tf *TerminalFrontend) handleKey(b byte) bool {
	switch {
	case b == 'q' || b == 0x03: // q or Ctrl-C
		return true
	case b == '1':
		if err := tf.seq.PlayMelody(tf.config.SelectedMelody()); err != nil {
			fmt.Printf("%v\r\n", err)
		}
	case b == '2':
		if tf.recorder.IsRecording() {
			tf.recorder.StopRecording()
			fmt.Printf("recorded %d notes\r\n", len(tf.recorder.Entries()))
		} else {
			tf.recorder.StartRecording()
			fmt.Printf("recording\r\n")
		}
	case b == '3':
		err := tf.seq.PlayRecording(tf.recorder.Entries(), tf.config.SelectedMelody(), func(verdict string) {
			fmt.Printf("%s\r\n", verdict)
		})
		if err != nil {
			fmt.Printf("%v\r\n", err)
		}
	case b == '0':
		tf.seq.StopPlayback()
	case b == ' ':
		tf.pressLabel(string(REST_GLYPH))
	case b >= 'a' && b <= 'z':
		tf.pressLabel(string(b - 'a' + 'A'))
	case b >= 'A' && b <= 'Z':
		tf.pressLabel(string(b))
	}
	return false
}

// pressLabel sounds the key carrying the label for one step and records it.
// A tty has no key-up events, so the release is scheduled.
func (tf *TerminalFrontend) pressLabel(label string) {
	for _, key := range keyboardKeys {
		if key.Label != label {
			continue
		}
		tf.engine.StartNote(key.Note, noteIDFrequency(key.Note))
		tf.recorder.OnKeyPress(key.Note, key.Label)
		note := key.Note
		time.AfterFunc(NOTE_STEP, func() { tf.engine.StopNote(note) })
		return
	}
}
