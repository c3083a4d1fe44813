// keyboard_layout.go - Fixed key pool and label resolution

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import "strings"

// REST_GLYPH is the open-box character printed on the final key. In melody
// strings it denotes a rest: time advances, no note sounds.
const REST_GLYPH = '␣'

const (
	FIRST_OCTAVE = 2
	KEY_COUNT    = 27 // 26 letters plus the rest glyph
)

var (
	WHITE_PITCHES = []string{"C", "D", "E", "F", "G", "A", "B"}
	BLACK_PITCHES = []string{"C#", "D#", "F#", "G#", "A#"}
)

// KeyDef is one key of the widget: the note it sounds and the label printed
// on it.
type KeyDef struct {
	Note  string
	Label string
}

var keyboardKeys = buildKeyboard()

// buildKeyboard returns the fixed key pool in construction order: white keys
// then black keys within each octave, ascending from FIRST_OCTAVE, until the
// label pool (A-Z then the rest glyph) is exhausted.
func buildKeyboard() []KeyDef {
	labels := make([]string, 0, KEY_COUNT)
	for c := 'A'; c <= 'Z'; c++ {
		labels = append(labels, string(c))
	}
	labels = append(labels, string(REST_GLYPH))

	keys := make([]KeyDef, 0, len(labels))
	for octave := FIRST_OCTAVE; len(keys) < len(labels); octave++ {
		for _, pitch := range WHITE_PITCHES {
			if len(keys) == len(labels) {
				break
			}
			keys = append(keys, KeyDef{Note: noteID(pitch, octave), Label: labels[len(keys)]})
		}
		for _, pitch := range BLACK_PITCHES {
			if len(keys) == len(labels) {
				break
			}
			keys = append(keys, KeyDef{Note: noteID(pitch, octave), Label: labels[len(keys)]})
		}
	}
	return keys
}

// ResolveNoteFromLabel maps a visible key label to its note identifier.
// Matching trims surrounding whitespace and ignores case. The rest glyph
// never resolves. When preferredOctave >= 0, a key in that octave wins over
// earlier pool entries; otherwise the first match in construction order is
// returned. The second return is false when no key carries the label.
func ResolveNoteFromLabel(label string, preferredOctave int) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" || label == string(REST_GLYPH) {
		return "", false
	}

	first := ""
	for _, key := range keyboardKeys {
		if !strings.EqualFold(key.Label, label) {
			continue
		}
		if preferredOctave >= 0 {
			if _, octave, ok := splitNoteID(key.Note); ok && octave == preferredOctave {
				return key.Note, true
			}
		}
		if first == "" {
			first = key.Note
		}
	}
	if first == "" {
		return "", false
	}
	return first, true
}
