//go:build !headless

// video_frontend_ebiten.go - Desktop front end: keyboard, transport, scope

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionKeys
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	WINDOW_W = 960
	WINDOW_H = 470

	WHITE_KEY_W = 54
	WHITE_KEY_H = 180
	BLACK_KEY_W = 34
	BLACK_KEY_H = 110
	KEYBOARD_X  = 8
	KEYBOARD_Y  = 262

	SCOPE_X = 8
	SCOPE_Y = 64
	SCOPE_W = 944
	SCOPE_H = 150

	BUTTON_Y = 16
	BUTTON_H = 28

	VERDICT_FRAMES = 180 // ~3s at 60fps
)

const (
	BTN_PLAY_MELODY = iota
	BTN_RECORD
	BTN_PLAY_RECORDING
	BTN_STOP
	BTN_COPY
)

var (
	COLOR_BG            = color.RGBA{24, 24, 32, 255}
	COLOR_PANEL         = color.RGBA{12, 16, 12, 255}
	COLOR_PANEL_BORDER  = color.RGBA{70, 90, 70, 255}
	COLOR_TRACE         = color.RGBA{90, 240, 120, 255}
	COLOR_WHITE_KEY     = color.RGBA{235, 235, 228, 255}
	COLOR_WHITE_PRESSED = color.RGBA{180, 200, 250, 255}
	COLOR_BLACK_KEY     = color.RGBA{28, 28, 32, 255}
	COLOR_BLACK_PRESSED = color.RGBA{90, 110, 180, 255}
	COLOR_KEY_EDGE      = color.RGBA{60, 60, 66, 255}
	COLOR_BUTTON        = color.RGBA{52, 58, 74, 255}
	COLOR_BUTTON_OFF    = color.RGBA{38, 40, 46, 255}
	COLOR_TEXT          = color.RGBA{220, 220, 220, 255}
	COLOR_TEXT_DIM      = color.RGBA{120, 120, 126, 255}
	COLOR_RECORDING     = color.RGBA{220, 80, 80, 255}
)

type keyRect struct {
	def   KeyDef
	x, y  int
	w, h  int
	black bool
}

type transportButton struct {
	id    int
	label string
	x, w  int
}

// KeysFrontend is the ebiten front end. It owns widget layout and input
// routing; all sound and sequencing lives in the engine and sequencer.
type KeysFrontend struct {
	engine   *SynthEngine
	seq      *Sequencer
	recorder *Recorder
	config   MelodyConfig

	keys      []keyRect
	buttons   []transportButton
	trace     ScopeTrace
	scopeBuf  []float64
	pressed   map[string]bool // note ids currently held
	mouseNote string          // note held by the mouse button, if any

	verdictMutex sync.Mutex
	verdict      string
	verdictAge   int

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewKeysFrontend(engine *SynthEngine, seq *Sequencer, recorder *Recorder, config MelodyConfig) *KeysFrontend {
	return &KeysFrontend{
		engine:   engine,
		seq:      seq,
		recorder: recorder,
		config:   config,
		keys:     layoutKeys(),
		buttons:  layoutButtons(),
		scopeBuf: make([]float64, SCOPE_W),
		pressed:  make(map[string]bool),
	}
}

// layoutKeys places the key pool on screen: whites in a row, blacks straddling
// the boundary to the white key on their left.
func layoutKeys() []keyRect {
	rects := make([]keyRect, 0, len(keyboardKeys))
	whiteX := make(map[string]int)

	x := KEYBOARD_X
	for _, def := range keyboardKeys {
		if strings.Contains(def.Note, "#") {
			continue
		}
		whiteX[def.Note] = x
		rects = append(rects, keyRect{def: def, x: x, y: KEYBOARD_Y, w: WHITE_KEY_W, h: WHITE_KEY_H})
		x += WHITE_KEY_W
	}
	for _, def := range keyboardKeys {
		if !strings.Contains(def.Note, "#") {
			continue
		}
		pitch, octave, ok := splitNoteID(def.Note)
		if !ok {
			continue
		}
		left, ok := whiteX[noteID(strings.TrimSuffix(pitch, "#"), octave)]
		if !ok {
			continue
		}
		rects = append(rects, keyRect{
			def:   def,
			x:     left + WHITE_KEY_W - BLACK_KEY_W/2,
			y:     KEYBOARD_Y,
			w:     BLACK_KEY_W,
			h:     BLACK_KEY_H,
			black: true,
		})
	}
	return rects
}

func layoutButtons() []transportButton {
	defs := []struct {
		id    int
		label string
		w     int
	}{
		{BTN_PLAY_MELODY, "Play Melody", 120},
		{BTN_RECORD, "Record", 100},
		{BTN_PLAY_RECORDING, "Play Recording", 140},
		{BTN_STOP, "Stop", 80},
		{BTN_COPY, "Copy", 80},
	}
	buttons := make([]transportButton, 0, len(defs))
	x := 8
	for _, d := range defs {
		buttons = append(buttons, transportButton{id: d.id, label: d.label, x: x, w: d.w})
		x += d.w + 8
	}
	return buttons
}

// Run opens the window and blocks until it closes.
func (kf *KeysFrontend) Run() error {
	ebiten.SetWindowSize(WINDOW_W, WINDOW_H)
	ebiten.SetWindowTitle("Intuition Keys (c) 2024 - 2026 Zayn Otley")
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(kf)
}

func (kf *KeysFrontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WINDOW_W, WINDOW_H
}

func (kf *KeysFrontend) Update() error {
	kf.handleMouse()
	kf.handlePhysicalKeys()
	kf.trace.Advance(kf.engine.ScopeSnapshot())

	kf.verdictMutex.Lock()
	if kf.verdictAge > 0 {
		kf.verdictAge--
		if kf.verdictAge == 0 {
			kf.verdict = ""
		}
	}
	kf.verdictMutex.Unlock()
	return nil
}

func (kf *KeysFrontend) handleMouse() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if btn, ok := kf.buttonAt(mx, my); ok {
			kf.pressButton(btn)
			return
		}
		if key, ok := kf.keyAt(mx, my); ok {
			kf.pressKey(key.def)
			kf.mouseNote = key.def.Note
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && kf.mouseNote != "" {
		kf.releaseNote(kf.mouseNote)
		kf.mouseNote = ""
	}
}

func (kf *KeysFrontend) handlePhysicalKeys() {
	for _, key := range kf.keys {
		ebitenKey, ok := labelEbitenKey(key.def.Label)
		if !ok {
			continue
		}
		if inpututil.IsKeyJustPressed(ebitenKey) {
			kf.pressKey(key.def)
		}
		if inpututil.IsKeyJustReleased(ebitenKey) {
			kf.releaseNote(key.def.Note)
		}
	}
}

func labelEbitenKey(label string) (ebiten.Key, bool) {
	if label == string(REST_GLYPH) {
		return ebiten.KeySpace, true
	}
	if len(label) == 1 && label[0] >= 'A' && label[0] <= 'Z' {
		return ebiten.KeyA + ebiten.Key(label[0]-'A'), true
	}
	return 0, false
}

// keyAt hit-tests the keyboard; black keys sit above the whites and win.
func (kf *KeysFrontend) keyAt(mx, my int) (keyRect, bool) {
	var hit keyRect
	found := false
	for _, key := range kf.keys {
		if mx < key.x || mx >= key.x+key.w || my < key.y || my >= key.y+key.h {
			continue
		}
		if key.black {
			return key, true
		}
		hit = key
		found = true
	}
	return hit, found
}

func (kf *KeysFrontend) buttonAt(mx, my int) (transportButton, bool) {
	for _, btn := range kf.buttons {
		if mx >= btn.x && mx < btn.x+btn.w && my >= BUTTON_Y && my < BUTTON_Y+BUTTON_H {
			return btn, true
		}
	}
	return transportButton{}, false
}

func (kf *KeysFrontend) pressKey(def KeyDef) {
	kf.engine.StartNote(def.Note, noteIDFrequency(def.Note))
	kf.recorder.OnKeyPress(def.Note, def.Label)
	kf.pressed[def.Note] = true
}

func (kf *KeysFrontend) releaseNote(note string) {
	kf.engine.StopNote(note)
	delete(kf.pressed, note)
}

// buttonEnabled mirrors the single-flight guards onto the transport: melody
// and recording playback are mutually exclusive from the UI's point of view.
func (kf *KeysFrontend) buttonEnabled(id int) bool {
	playing := kf.seq.IsPlayingMelody() || kf.seq.IsPlayingRecording()
	switch id {
	case BTN_PLAY_MELODY:
		return !playing
	case BTN_RECORD:
		return !playing
	case BTN_PLAY_RECORDING:
		return !playing && !kf.recorder.IsRecording() && len(kf.recorder.Entries()) > 0
	case BTN_STOP:
		return playing
	case BTN_COPY:
		return len(kf.recorder.Entries()) > 0
	}
	return false
}

func (kf *KeysFrontend) pressButton(btn transportButton) {
	if !kf.buttonEnabled(btn.id) {
		return
	}
	switch btn.id {
	case BTN_PLAY_MELODY:
		if err := kf.seq.PlayMelody(kf.config.SelectedMelody()); err != nil {
			fmt.Println(err)
		}
	case BTN_RECORD:
		if kf.recorder.IsRecording() {
			kf.recorder.StopRecording()
		} else {
			kf.recorder.StartRecording()
		}
	case BTN_PLAY_RECORDING:
		err := kf.seq.PlayRecording(kf.recorder.Entries(), kf.config.SelectedMelody(), kf.setVerdict)
		if err != nil {
			fmt.Println(err)
		}
	case BTN_STOP:
		kf.seq.StopPlayback()
	case BTN_COPY:
		kf.copyRecording()
	}
}

// setVerdict is called from the sequencer's driver goroutine.
func (kf *KeysFrontend) setVerdict(verdict string) {
	kf.verdictMutex.Lock()
	kf.verdict = verdict
	kf.verdictAge = VERDICT_FRAMES
	kf.verdictMutex.Unlock()
}

func (kf *KeysFrontend) copyRecording() {
	kf.clipboardOnce.Do(func() {
		kf.clipboardOK = clipboard.Init() == nil
	})
	if !kf.clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(kf.recorder.LabelString()))
}

func (kf *KeysFrontend) Draw(screen *ebiten.Image) {
	screen.Fill(COLOR_BG)
	kf.drawButtons(screen)
	kf.drawScope(screen)
	kf.drawKeyboard(screen)
	kf.drawStatus(screen)
}

func (kf *KeysFrontend) drawButtons(screen *ebiten.Image) {
	face := basicfont.Face7x13
	for _, btn := range kf.buttons {
		fill := COLOR_BUTTON
		label := btn.label
		labelColor := COLOR_TEXT
		if btn.id == BTN_RECORD && kf.recorder.IsRecording() {
			fill = COLOR_RECORDING
			label = "Stop Rec"
		} else if !kf.buttonEnabled(btn.id) {
			fill = COLOR_BUTTON_OFF
			labelColor = COLOR_TEXT_DIM
		}
		ebitenutil.DrawRect(screen, float64(btn.x), BUTTON_Y, float64(btn.w), BUTTON_H, fill)
		tx := btn.x + (btn.w-len(label)*7)/2
		text.Draw(screen, label, face, tx, BUTTON_Y+BUTTON_H/2+4, labelColor)
	}
}

func (kf *KeysFrontend) drawScope(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, SCOPE_X-1, SCOPE_Y-1, SCOPE_W+2, SCOPE_H+2, COLOR_PANEL_BORDER)
	ebitenutil.DrawRect(screen, SCOPE_X, SCOPE_Y, SCOPE_W, SCOPE_H, COLOR_PANEL)

	kf.trace.Samples(kf.scopeBuf)
	midY := float64(SCOPE_Y + SCOPE_H/2)
	prevX := float64(SCOPE_X)
	prevY := midY - kf.scopeBuf[0]*float64(SCOPE_H/2-4)
	for i := 1; i < len(kf.scopeBuf); i++ {
		x := float64(SCOPE_X + i)
		y := midY - kf.scopeBuf[i]*float64(SCOPE_H/2-4)
		ebitenutil.DrawLine(screen, prevX, prevY, x, y, COLOR_TRACE)
		prevX, prevY = x, y
	}
}

func (kf *KeysFrontend) drawKeyboard(screen *ebiten.Image) {
	face := basicfont.Face7x13

	for _, key := range kf.keys {
		if key.black {
			continue
		}
		fill := COLOR_WHITE_KEY
		if kf.pressed[key.def.Note] {
			fill = COLOR_WHITE_PRESSED
		}
		ebitenutil.DrawRect(screen, float64(key.x), float64(key.y), float64(key.w), float64(key.h), COLOR_KEY_EDGE)
		ebitenutil.DrawRect(screen, float64(key.x+1), float64(key.y+1), float64(key.w-2), float64(key.h-2), fill)
		text.Draw(screen, key.def.Label, face, key.x+key.w/2-3, key.y+key.h-12, COLOR_BLACK_KEY)
	}
	for _, key := range kf.keys {
		if !key.black {
			continue
		}
		fill := COLOR_BLACK_KEY
		if kf.pressed[key.def.Note] {
			fill = COLOR_BLACK_PRESSED
		}
		ebitenutil.DrawRect(screen, float64(key.x), float64(key.y), float64(key.w), float64(key.h), fill)
		text.Draw(screen, key.def.Label, face, key.x+key.w/2-3, key.y+key.h-10, COLOR_WHITE_KEY)
	}
}

func (kf *KeysFrontend) drawStatus(screen *ebiten.Image) {
	face := basicfont.Face7x13
	melody := kf.config.SelectedMelody()
	text.Draw(screen, "Melody: "+melody, face, 8, BUTTON_Y+BUTTON_H+20, COLOR_TEXT)

	kf.verdictMutex.Lock()
	verdict := kf.verdict
	kf.verdictMutex.Unlock()
	if verdict != "" {
		c := COLOR_TRACE
		if verdict == MATCH_FAIL {
			c = COLOR_RECORDING
		}
		text.Draw(screen, verdict, face, WINDOW_W-8-len(verdict)*7, BUTTON_Y+BUTTON_H+20, c)
	}
	if kf.recorder.IsRecording() {
		text.Draw(screen, "REC", face, WINDOW_W-40, BUTTON_Y+BUTTON_H/2+4, COLOR_RECORDING)
	}
}
