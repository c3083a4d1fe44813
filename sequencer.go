// sequencer.go - Timed playback of melodies and recorded sequences

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"errors"
	"sync"
	"time"
)

const (
	NOTE_STEP      = 500 * time.Millisecond // every step but the last
	LAST_NOTE_STEP = 1 * time.Second        // final note rings out before the UI resets
	RELEASE_TIME   = RELEASE_MS * time.Millisecond
)

const (
	EVENT_NOTE_ON = iota
	EVENT_NOTE_OFF
	EVENT_DONE
)

var ErrPlaybackBusy = errors.New("playback already in progress")

// SeqEvent is one scheduled action at an absolute offset from playback start.
type SeqEvent struct {
	At   time.Duration
	Kind int
	Note string
	Freq float64
}

// scheduleLabels builds the event list for a melody string. Each character is
// a key label; rests and labels no key carries advance time without sounding.
// Steps are contiguous, so notes never overlap; the done event fires once the
// last note has audibly finished releasing.
func scheduleLabels(melody string, preferredOctave int) []SeqEvent {
	runes := []rune(melody)
	events := make([]SeqEvent, 0, len(runes)*2+1)
	offset := time.Duration(0)
	for i, r := range runes {
		step := NOTE_STEP
		if i == len(runes)-1 {
			step = LAST_NOTE_STEP
		}
		if note, ok := ResolveNoteFromLabel(string(r), preferredOctave); ok {
			events = append(events,
				SeqEvent{At: offset, Kind: EVENT_NOTE_ON, Note: note, Freq: noteIDFrequency(note)},
				SeqEvent{At: offset + step, Kind: EVENT_NOTE_OFF, Note: note})
		}
		offset += step
	}
	return append(events, SeqEvent{At: offset + RELEASE_TIME, Kind: EVENT_DONE})
}

// scheduleNotes builds the event list for already-resolved note identifiers.
func scheduleNotes(notes []string) []SeqEvent {
	events := make([]SeqEvent, 0, len(notes)*2+1)
	offset := time.Duration(0)
	for i, note := range notes {
		step := NOTE_STEP
		if i == len(notes)-1 {
			step = LAST_NOTE_STEP
		}
		if freq := noteIDFrequency(note); freq > 0 {
			events = append(events,
				SeqEvent{At: offset, Kind: EVENT_NOTE_ON, Note: note, Freq: freq},
				SeqEvent{At: offset + step, Kind: EVENT_NOTE_OFF, Note: note})
		}
		offset += step
	}
	return append(events, SeqEvent{At: offset + RELEASE_TIME, Kind: EVENT_DONE})
}

// Sequencer drives scheduled playback against the engine. Melody and
// recording playback hold independent single-flight guards; both kinds share
// one stop channel so StopPlayback cancels whatever is in flight.
type Sequencer struct {
	engine *SynthEngine

	mutex         sync.Mutex
	melodyBusy    bool
	recordingBusy bool
	stop          chan struct{}

	timeScale float64 // tests compress schedules; 1.0 in normal use
}

func NewSequencer(engine *SynthEngine) *Sequencer {
	return &Sequencer{engine: engine, timeScale: 1.0}
}

// PlayMelody plays a melody string through the engine. Returns
// ErrPlaybackBusy while an earlier melody playback is still in flight.
func (s *Sequencer) PlayMelody(melody string) error {
	s.mutex.Lock()
	if s.melodyBusy {
		s.mutex.Unlock()
		return ErrPlaybackBusy
	}
	if s.stop == nil {
		s.stop = make(chan struct{})
	}
	s.melodyBusy = true
	stop := s.stop
	s.mutex.Unlock()

	events := scheduleLabels(melody, -1)
	go s.run(events, stop, func(completed bool) {
		s.mutex.Lock()
		s.melodyBusy = false
		s.mutex.Unlock()
	})
	return nil
}

// PlayRecording plays a captured sequence back and, once the schedule runs to
// completion, reports via onComplete whether the performance matched the
// expected melody (MATCH_SUCCESS or MATCH_FAIL). A cancelled playback reports
// nothing. Returns ErrPlaybackBusy while an earlier recording playback is
// still in flight.
func (s *Sequencer) PlayRecording(entries []RecordedEntry, expectedMelody string, onComplete func(string)) error {
	s.mutex.Lock()
	if s.recordingBusy {
		s.mutex.Unlock()
		return ErrPlaybackBusy
	}
	if s.stop == nil {
		s.stop = make(chan struct{})
	}
	s.recordingBusy = true
	stop := s.stop
	s.mutex.Unlock()

	notes := make([]string, len(entries))
	for i, entry := range entries {
		notes[i] = entry.Note
	}

	events := scheduleNotes(notes)
	go s.run(events, stop, func(completed bool) {
		s.mutex.Lock()
		s.recordingBusy = false
		s.mutex.Unlock()
		if !completed {
			return
		}
		verdict := matchSequences(expectedNotes(expectedMelody), notes)
		if onComplete != nil {
			onComplete(verdict)
		}
	})
	return nil
}

// StopPlayback cancels any in-flight playback. Sounding notes are silenced
// and the guards clear once the drivers observe the stop.
func (s *Sequencer) StopPlayback() {
	s.mutex.Lock()
	stop := s.stop
	s.stop = nil
	s.mutex.Unlock()

	if stop == nil {
		return
	}
	select {
	case <-stop:
	default:
		close(stop)
	}
}

func (s *Sequencer) IsPlayingMelody() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.melodyBusy
}

func (s *Sequencer) IsPlayingRecording() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.recordingBusy
}

func (s *Sequencer) scaled(d time.Duration) time.Duration {
	if s.timeScale <= 0 || s.timeScale == 1.0 {
		return d
	}
	return time.Duration(float64(d) * s.timeScale)
}

// run walks an ordered event list with a single timer, bailing out promptly
// when the stop channel closes. done reports whether the schedule ran to
// completion.
func (s *Sequencer) run(events []SeqEvent, stop chan struct{}, done func(completed bool)) {
	start := time.Now()
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for _, event := range events {
		wait := s.scaled(event.At) - time.Since(start)
		if wait > 0 {
			timer.Reset(wait)
			select {
			case <-stop:
				s.engine.StopAllNotes()
				done(false)
				return
			case <-timer.C:
			}
		} else {
			select {
			case <-stop:
				s.engine.StopAllNotes()
				done(false)
				return
			default:
			}
		}

		switch event.Kind {
		case EVENT_NOTE_ON:
			s.engine.StartNote(event.Note, event.Freq)
		case EVENT_NOTE_OFF:
			s.engine.StopNote(event.Note)
		}
	}
	done(true)
}
