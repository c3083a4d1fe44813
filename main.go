// main.go - Entry point for Intuition Keys

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
)

func boilerPlate() {
	fmt.Println("\nIntuition Keys - a pocket piano with an oscilloscope.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionKeys")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		terminalMode bool
		volume       float64
		melodyPath   string
		melodyIndex  int
		listMelodies bool
	)
	flag.BoolVar(&terminalMode, "terminal", false, "Play from the terminal instead of the desktop window")
	flag.Float64Var(&volume, "volume", DEFAULT_VOLUME, "Master volume (0..1)")
	flag.StringVar(&melodyPath, "melodies", "melodies.lua", "Lua melody configuration file")
	flag.IntVar(&melodyIndex, "melody", 0, "Melody selection, 1-based (overrides the config file)")
	flag.BoolVar(&listMelodies, "list", false, "List configured melodies and exit")
	flag.Parse()

	config := LoadMelodyConfig(melodyPath)
	if melodyIndex > 0 && melodyIndex <= len(config.Melodies) {
		config.Selected = melodyIndex - 1
	}
	if listMelodies {
		for i, melody := range config.Melodies {
			marker := " "
			if i == config.Selected {
				marker = "*"
			}
			fmt.Printf("%s %2d  %s\n", marker, i+1, melody)
		}
		return
	}

	engine, err := NewSynthEngine(AUDIO_BACKEND_OTO)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	engine.SetVolume(volume)
	engine.Start()
	defer engine.Stop()

	sequencer := NewSequencer(engine)
	recorder := NewRecorder()

	if terminalMode {
		frontend := NewTerminalFrontend(engine, sequencer, recorder, config)
		if err := frontend.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return
	}

	frontend := NewKeysFrontend(engine, sequencer, recorder, config)
	if err := frontend.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
