// note_freq.go - Equal-tempered note to frequency mapping

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"math"
	"strconv"
	"strings"
)

// Chromatic scale order; the index is the semitone within an octave.
var CHROMATIC_SCALE = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const (
	A4_FREQ       = 440.0
	A4_KEY_NUMBER = 57 // A in octave 4: semitone 9 + 4*12
	SEMITONES     = 12
)

func chromaticIndex(pitchClass string) int {
	for i, pc := range CHROMATIC_SCALE {
		if pc == pitchClass {
			return i
		}
	}
	return -1
}

// NoteFrequency returns the equal-tempered fundamental for a pitch class and
// octave. A4 is exactly 440 Hz. Unknown pitch classes return 0.
func NoteFrequency(pitchClass string, octave int) float64 {
	idx := chromaticIndex(pitchClass)
	if idx < 0 {
		return 0
	}
	key := idx + octave*SEMITONES
	return A4_FREQ * math.Pow(2, float64(key-A4_KEY_NUMBER)/SEMITONES)
}

// noteID builds the canonical note identifier, e.g. "C#4".
func noteID(pitchClass string, octave int) string {
	return pitchClass + strconv.Itoa(octave)
}

// splitNoteID splits an identifier like "C#4" into pitch class and octave.
func splitNoteID(id string) (pitchClass string, octave int, ok bool) {
	i := strings.IndexFunc(id, func(r rune) bool { return r >= '0' && r <= '9' })
	if i <= 0 {
		return "", 0, false
	}
	octave, err := strconv.Atoi(id[i:])
	if err != nil {
		return "", 0, false
	}
	pitchClass = id[:i]
	if chromaticIndex(pitchClass) < 0 {
		return "", 0, false
	}
	return pitchClass, octave, true
}

// noteIDFrequency maps a note identifier straight to Hz, 0 when malformed.
func noteIDFrequency(id string) float64 {
	pitchClass, octave, ok := splitNoteID(id)
	if !ok {
		return 0
	}
	return NoteFrequency(pitchClass, octave)
}
