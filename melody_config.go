// melody_config.go - Melody list configuration via Lua

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// Built-in melodies, written in key labels. The octave-2 white keys carry
// A-G, so label A sounds C2. The open-box glyph is a rest.
var DEFAULT_MELODIES = []string{
	"AAEEFFE␣DDCCBBA", // Twinkle Twinkle Little Star
	"CCDEEDCBAABCCBB",      // Ode to Joy
	"CBABCCC␣BBB␣CEE", // Mary Had a Little Lamb
}

// MelodyConfig is the externally configurable melody list and selection.
type MelodyConfig struct {
	Melodies []string
	Selected int
}

func defaultMelodyConfig() MelodyConfig {
	return MelodyConfig{
		Melodies: append([]string(nil), DEFAULT_MELODIES...),
	}
}

// LoadMelodyConfig reads a Lua configuration file declaring `melodies` (a
// table of label strings) and `selected` (a 1-based index). A missing file is
// not an error; a broken one falls back to the built-in list with a note on
// stderr.
func LoadMelodyConfig(path string) MelodyConfig {
	cfg := defaultMelodyConfig()
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}

	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "melody config: %v\n", err)
		return cfg
	}

	if tbl, ok := L.GetGlobal("melodies").(*lua.LTable); ok {
		var melodies []string
		tbl.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok && len(s) > 0 {
				melodies = append(melodies, string(s))
			}
		})
		if len(melodies) > 0 {
			cfg.Melodies = melodies
		}
	}
	if n, ok := L.GetGlobal("selected").(lua.LNumber); ok {
		idx := int(n) - 1
		if idx >= 0 && idx < len(cfg.Melodies) {
			cfg.Selected = idx
		}
	}
	return cfg
}

// SelectedMelody returns the active melody string.
func (cfg MelodyConfig) SelectedMelody() string {
	if len(cfg.Melodies) == 0 {
		return ""
	}
	if cfg.Selected < 0 || cfg.Selected >= len(cfg.Melodies) {
		return cfg.Melodies[0]
	}
	return cfg.Melodies[cfg.Selected]
}
