// synth_engine_test.go - Tests for voice management and the envelope path

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"math"
	"testing"
)

func newTestEngine(t *testing.T) *SynthEngine {
	t.Helper()
	engine, err := NewSynthEngine(AUDIO_BACKEND_HEADLESS)
	if err != nil {
		t.Fatalf("NewSynthEngine: %v", err)
	}
	return engine
}

func TestStartNote_AddsVoice(t *testing.T) {
	engine := newTestEngine(t)
	engine.StartNote("C4", NoteFrequency("C", 4))

	if got := engine.ActiveVoiceCount(); got != 1 {
		t.Fatalf("ActiveVoiceCount = %d, want 1", got)
	}
	if !engine.IsNoteActive("C4") {
		t.Error("C4 should be active after StartNote")
	}
}

func TestStartNote_ReplacesSameIdentifier(t *testing.T) {
	engine := newTestEngine(t)
	f1 := NoteFrequency("C", 4)
	f2 := NoteFrequency("C", 5)

	engine.StartNote("C4", f1)
	engine.StartNote("C4", f2)

	if got := engine.ActiveVoiceCount(); got != 1 {
		t.Fatalf("ActiveVoiceCount = %d after double start, want 1", got)
	}
	if got := engine.ScopeSnapshot().CurrentFrequency; got != f2 {
		t.Errorf("CurrentFrequency = %v after retrigger, want %v", got, f2)
	}
}

func TestStartNote_TwoIdentifiersBothSound(t *testing.T) {
	engine := newTestEngine(t)
	engine.StartNote("C4", NoteFrequency("C", 4))
	engine.StartNote("E4", NoteFrequency("E", 4))

	if got := engine.ActiveVoiceCount(); got != 2 {
		t.Fatalf("ActiveVoiceCount = %d, want 2", got)
	}
}

func TestStopNote_InactiveIsNoOp(t *testing.T) {
	engine := newTestEngine(t)
	engine.StopNote("G3")
	if got := engine.ActiveVoiceCount(); got != 0 {
		t.Fatalf("ActiveVoiceCount = %d after stopping inactive note, want 0", got)
	}

	engine.StartNote("C4", NoteFrequency("C", 4))
	engine.StopNote("G3")
	if !engine.IsNoteActive("C4") {
		t.Error("stopping an inactive note must not touch other voices")
	}
}

func TestStopNote_RemovesFromActiveSet(t *testing.T) {
	engine := newTestEngine(t)
	engine.StartNote("C4", NoteFrequency("C", 4))
	engine.StopNote("C4")

	if engine.IsNoteActive("C4") {
		t.Error("C4 still active after StopNote")
	}
	if got := engine.ActiveVoiceCount(); got != 0 {
		t.Errorf("ActiveVoiceCount = %d, want 0", got)
	}
}

func TestScopeState_TracksStartAndStop(t *testing.T) {
	engine := newTestEngine(t)
	freq := NoteFrequency("A", 3)

	engine.StartNote("A3", freq)
	state := engine.ScopeSnapshot()
	if !state.HasCurrent {
		t.Fatal("HasCurrent should be true while a note sounds")
	}
	if state.CurrentFrequency != freq {
		t.Errorf("CurrentFrequency = %v, want %v", state.CurrentFrequency, freq)
	}
	if state.TargetAmplitude <= 0 {
		t.Errorf("TargetAmplitude = %v, want > 0", state.TargetAmplitude)
	}

	engine.StopNote("A3")
	state = engine.ScopeSnapshot()
	if state.HasCurrent {
		t.Error("HasCurrent should be false after the last note stops")
	}
	if state.CurrentFrequency != 0 {
		t.Errorf("CurrentFrequency = %v after stop, want 0", state.CurrentFrequency)
	}
	if state.TargetAmplitude != 0 {
		t.Errorf("TargetAmplitude = %v after stop, want 0", state.TargetAmplitude)
	}
	if state.LastFrequency != freq {
		t.Errorf("LastFrequency = %v after stop, want retained %v", state.LastFrequency, freq)
	}
}

func TestScopeState_LastNoteWinsWithChord(t *testing.T) {
	engine := newTestEngine(t)
	f1 := NoteFrequency("C", 3)
	f2 := NoteFrequency("G", 3)

	engine.StartNote("C3", f1)
	engine.StartNote("G3", f2)

	state := engine.ScopeSnapshot()
	if state.CurrentFrequency != f2 {
		t.Errorf("CurrentFrequency = %v, want most recent %v", state.CurrentFrequency, f2)
	}

	// Stopping one of two notes leaves the scope showing the current note.
	engine.StopNote("C3")
	state = engine.ScopeSnapshot()
	if !state.HasCurrent {
		t.Error("HasCurrent should stay true while another voice sounds")
	}
}

func TestSetVolume_Clamped(t *testing.T) {
	engine := newTestEngine(t)

	engine.SetVolume(1.7)
	if got := engine.Volume(); got != 1.0 {
		t.Errorf("Volume = %v after SetVolume(1.7), want 1.0", got)
	}
	engine.SetVolume(-0.3)
	if got := engine.Volume(); got != 0.0 {
		t.Errorf("Volume = %v after SetVolume(-0.3), want 0.0", got)
	}
	engine.SetVolume(0.25)
	if got := engine.Volume(); got != 0.25 {
		t.Errorf("Volume = %v, want 0.25", got)
	}
}

func TestVoiceGain_CapturedAtStart(t *testing.T) {
	engine := newTestEngine(t)
	engine.SetVolume(0.8)
	engine.StartNote("C4", NoteFrequency("C", 4))
	engine.SetVolume(0.1)

	engine.mutex.RLock()
	gain := engine.voices["C4"].gain
	engine.mutex.RUnlock()

	if gain != 0.8 {
		t.Errorf("voice gain = %v, want 0.8 captured at note start", gain)
	}
}

func TestEnvelope_AttackRampsToSustain(t *testing.T) {
	v := &Voice{
		frequency:     220,
		gain:          1.0,
		envelopePhase: ENV_ATTACK,
		attackTime:    ATTACK_MS * MS_TO_SAMPLES,
		releaseTime:   RELEASE_MS * MS_TO_SAMPLES,
	}

	prev := float32(0)
	for i := 0; i < ATTACK_MS*MS_TO_SAMPLES; i++ {
		v.updateEnvelope()
		if v.envelopeLevel < prev {
			t.Fatalf("envelope fell during attack at sample %d: %v < %v", i, v.envelopeLevel, prev)
		}
		prev = v.envelopeLevel
	}

	if v.envelopePhase != ENV_SUSTAIN {
		t.Fatalf("envelopePhase = %d after full attack, want ENV_SUSTAIN", v.envelopePhase)
	}
	if v.envelopeLevel != 1.0 {
		t.Errorf("envelopeLevel = %v at sustain, want 1.0", v.envelopeLevel)
	}
}

func TestEnvelope_ReleaseRampsLinearlyToZero(t *testing.T) {
	v := &Voice{
		frequency:         220,
		gain:              1.0,
		envelopeLevel:     1.0,
		envelopePhase:     ENV_RELEASE,
		releaseStartLevel: 1.0,
		releaseTime:       RELEASE_MS * MS_TO_SAMPLES,
	}

	// The ramp must still be clearly audible partway through, not just
	// nonzero at the end: check the level a quarter and halfway in.
	quarter := v.releaseTime / 4
	for i := 0; i < quarter; i++ {
		v.updateEnvelope()
	}
	if v.envelopeLevel < 0.7 || v.envelopeLevel > 0.8 {
		t.Fatalf("envelopeLevel = %v a quarter into the release, want ~0.75", v.envelopeLevel)
	}
	for i := quarter; i < v.releaseTime/2; i++ {
		v.updateEnvelope()
	}
	if v.envelopeLevel < 0.45 || v.envelopeLevel > 0.55 {
		t.Fatalf("envelopeLevel = %v halfway into the release, want ~0.5", v.envelopeLevel)
	}

	alive := true
	for i := v.releaseTime / 2; i <= v.releaseTime && alive; i++ {
		alive = v.updateEnvelope()
	}
	if alive {
		t.Fatal("voice still alive after the full release ramp")
	}
	if v.envelopeLevel != 0 {
		t.Errorf("envelopeLevel = %v at end of release, want 0", v.envelopeLevel)
	}
}

func TestEnvelope_ReleaseScalesFromArmedLevel(t *testing.T) {
	engine := newTestEngine(t)
	engine.StartNote("C4", NoteFrequency("C", 4))

	engine.mutex.Lock()
	v := engine.voices["C4"]
	v.envelopeLevel = 0.6 // mid-attack when the key is let go
	engine.mutex.Unlock()

	engine.StopNote("C4")

	engine.mutex.RLock()
	start := v.releaseStartLevel
	engine.mutex.RUnlock()
	if start != 0.6 {
		t.Fatalf("releaseStartLevel = %v, want the level at release entry 0.6", start)
	}

	for i := 0; i < v.releaseTime/2; i++ {
		v.updateEnvelope()
	}
	if v.envelopeLevel < 0.25 || v.envelopeLevel > 0.35 {
		t.Errorf("envelopeLevel = %v halfway through, want ~0.3 (half the armed level)", v.envelopeLevel)
	}
}

func TestGenerateSample_SilentWhenDisabled(t *testing.T) {
	engine := newTestEngine(t)
	engine.StartNote("C4", NoteFrequency("C", 4))

	if got := engine.GenerateSample(); got != 0 {
		t.Errorf("GenerateSample = %v before Start, want 0", got)
	}
}

func TestGenerateSample_ProducesSignalAndClamps(t *testing.T) {
	engine := newTestEngine(t)
	engine.Start()
	defer engine.Stop()

	engine.StartNote("C4", NoteFrequency("C", 4))

	var peak float64
	for i := 0; i < SAMPLE_RATE/10; i++ {
		s := float64(engine.GenerateSample())
		if s > MAX_SAMPLE || s < MIN_SAMPLE {
			t.Fatalf("sample %v exceeds clamp range at index %d", s, i)
		}
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Error("no signal produced while a note was sounding")
	}
}

func TestGenerateSample_ReleasingVoiceDrains(t *testing.T) {
	engine := newTestEngine(t)
	engine.Start()
	defer engine.Stop()

	engine.StartNote("C4", NoteFrequency("C", 4))
	// Run the attack out, then stop and drain the release ramp.
	for i := 0; i < ATTACK_MS*MS_TO_SAMPLES; i++ {
		engine.GenerateSample()
	}
	engine.StopNote("C4")

	for i := 0; i <= RELEASE_MS*MS_TO_SAMPLES; i++ {
		engine.GenerateSample()
	}

	engine.mutex.RLock()
	remaining := len(engine.releasing)
	engine.mutex.RUnlock()
	if remaining != 0 {
		t.Errorf("%d voices still draining after full release ramp, want 0", remaining)
	}
}

func TestStopAllNotes(t *testing.T) {
	engine := newTestEngine(t)
	engine.StartNote("C4", NoteFrequency("C", 4))
	engine.StartNote("E4", NoteFrequency("E", 4))
	engine.StartNote("G4", NoteFrequency("G", 4))

	engine.StopAllNotes()

	if got := engine.ActiveVoiceCount(); got != 0 {
		t.Errorf("ActiveVoiceCount = %d after StopAllNotes, want 0", got)
	}
	if engine.ScopeSnapshot().HasCurrent {
		t.Error("HasCurrent should be false after StopAllNotes")
	}
}
