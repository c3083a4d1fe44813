// scope.go - Synthetic oscilloscope trace

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import "math"

const (
	SCOPE_EASING    = 0.12 // per-frame approach toward the target amplitude
	SCOPE_MIN_LEVEL = 0.001
	SCOPE_CYCLES    = 3.0 // cycles across the panel at the reference pitch
	SCOPE_REF_FREQ  = 220.0
	SCOPE_PHASE_INC = 0.35 // radians per frame at the reference pitch
)

// ScopeTrace animates the displayed waveform. The trace is re-derived from
// the engine's frequency and amplitude state rather than sampled from the
// audio path, so silence decays smoothly at the pitch last heard.
type ScopeTrace struct {
	amplitude float64
	frequency float64
	phase     float64
}

// Advance moves the trace one display frame toward the engine state.
func (st *ScopeTrace) Advance(state ScopeState) {
	st.amplitude += (state.TargetAmplitude - st.amplitude) * SCOPE_EASING
	if state.TargetAmplitude == 0 && st.amplitude < SCOPE_MIN_LEVEL {
		st.amplitude = 0
	}

	switch {
	case state.HasCurrent:
		st.frequency = state.CurrentFrequency
	case state.LastFrequency > 0:
		st.frequency = state.LastFrequency
	}

	if st.frequency > 0 {
		st.phase += st.frequency / SCOPE_REF_FREQ * SCOPE_PHASE_INC
		st.phase = math.Mod(st.phase, 2*math.Pi)
	}
}

// Samples fills buf with one trace across the panel, values in -1..1.
func (st *ScopeTrace) Samples(buf []float64) {
	cycles := SCOPE_CYCLES
	if st.frequency > 0 {
		cycles = SCOPE_CYCLES * st.frequency / SCOPE_REF_FREQ
	}
	for i := range buf {
		x := float64(i) / float64(len(buf))
		buf[i] = st.amplitude * math.Sin(2*math.Pi*cycles*x+st.phase)
	}
}

func (st *ScopeTrace) Amplitude() float64 { return st.amplitude }
