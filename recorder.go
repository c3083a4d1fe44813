// recorder.go - Key-press capture and melody matching

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"strings"
	"sync"
)

const (
	MATCH_SUCCESS = "success!"
	MATCH_FAIL    = "fail!"
)

// RecordedEntry is one captured key press: the note that sounded and the
// label printed on the key.
type RecordedEntry struct {
	Note  string
	Label string
}

// Recorder captures key presses into an ordered sequence while active. The
// capture survives StopRecording and is replaced wholesale by the next
// StartRecording.
type Recorder struct {
	mutex   sync.Mutex
	active  bool
	entries []RecordedEntry
}

func NewRecorder() *Recorder { return &Recorder{} }

// StartRecording discards any previous capture and begins a new one.
func (r *Recorder) StartRecording() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries = nil
	r.active = true
}

func (r *Recorder) StopRecording() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.active = false
}

func (r *Recorder) IsRecording() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.active
}

// OnKeyPress appends a key press to the capture. Ignored while inactive.
func (r *Recorder) OnKeyPress(note, label string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if !r.active {
		return
	}
	r.entries = append(r.entries, RecordedEntry{Note: note, Label: label})
}

// Entries returns a copy of the captured sequence.
func (r *Recorder) Entries() []RecordedEntry {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entries := make([]RecordedEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// LabelString returns the captured labels as one string, for export.
func (r *Recorder) LabelString() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var b strings.Builder
	for _, entry := range r.entries {
		b.WriteString(entry.Label)
	}
	return b.String()
}

// expectedNotes resolves a melody string to the note identifiers a correct
// performance must produce. Rests and labels no key carries are dropped.
func expectedNotes(melody string) []string {
	var notes []string
	for _, r := range melody {
		if note, ok := ResolveNoteFromLabel(string(r), -1); ok {
			notes = append(notes, note)
		}
	}
	return notes
}

// matchSequences compares expected note identifiers against a performance,
// position by position. Any length or identifier mismatch fails.
func matchSequences(expected, actual []string) string {
	if len(expected) != len(actual) {
		return MATCH_FAIL
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return MATCH_FAIL
		}
	}
	return MATCH_SUCCESS
}
