package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/wricardo/squaredash/audio"
	"github.com/wricardo/squaredash/game/engine"
)

const hudHeight = 40

var hudBackground = color.RGBA{0x20, 0x20, 0x30, 0xff}

// cuePlayer is the part of audio.Player the game needs
type cuePlayer interface {
	Play(audio.Cue)
	ToggleMute() bool
}

// keyBindings maps engine keys to the physical keys that hold them
var keyBindings = []struct {
	key  string
	keys []ebiten.Key
}{
	{engine.KeyUp, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{engine.KeyDown, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{engine.KeyLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{engine.KeyRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

// inputFrom snapshots the held direction keys
func inputFrom(pressed func(ebiten.Key) bool) engine.Input {
	in := engine.Input{}
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if pressed(k) {
				in[b.key] = true
				break
			}
		}
	}
	return in
}

// Game drives one engine.Run at ebiten's tick rate, one frame per tick
type Game struct {
	run    *engine.Run
	sounds cuePlayer
	muted  bool
	level  int
}

// NewGame creates a game over the given run. sounds may be nil.
func NewGame(run *engine.Run, sounds cuePlayer) *Game {
	return &Game{run: run, sounds: sounds, level: run.Level()}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.run.Restart()
		log.Printf("Run restarted")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) && g.sounds != nil {
		g.muted = g.sounds.ToggleMute()
	}

	g.step(inputFrom(ebiten.IsKeyPressed))

	if g.run.Level() != g.level {
		g.level = g.run.Level()
		w, h := windowSize(g.run.World().Map)
		ebiten.SetWindowSize(w, h)
	}
	return nil
}

func (g *Game) togglePause() {
	if g.run.Paused() {
		g.run.Resume()
		return
	}
	g.run.Pause()
}

// step advances the run one frame and plays the cues it produced
func (g *Game) step(in engine.Input) engine.StepReport {
	report := g.run.Step(in)
	g.playCues(report)
	if report.Completed {
		log.Printf("Run complete: %d deaths in %d frames", g.run.Deaths(), g.run.Frame())
	}
	return report
}

func (g *Game) playCues(report engine.StepReport) {
	if g.sounds == nil {
		return
	}
	if report.Deaths > 0 {
		g.sounds.Play(audio.CueCrash)
	}
	if report.CoinPickups > 0 {
		g.sounds.Play(audio.CueCoin)
	}
	if report.LevelFinished {
		g.sounds.Play(audio.CueLevelUp)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.run.World()

	off := w.Map.CanvasOffset()
	off.Y += hudHeight
	w.Draw(newImageCanvas(screen, off))

	width, _ := w.Map.CanvasSize()
	vector.FillRect(screen, 0, 0, float32(width), hudHeight, hudBackground, false)
	ebitenutil.DebugPrintAt(screen, hudText(g.run.State(), g.muted), 8, 4)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowSize(g.run.World().Map)
}

// windowSize is the map's drawing surface plus the HUD band
func windowSize(m *engine.Map) (int, int) {
	w, h := m.CanvasSize()
	return int(w), int(h) + hudHeight
}

// hudText is the two-line status shown above the map
func hudText(s *engine.RunState, muted bool) string {
	status := ""
	switch s.Status {
	case engine.StatusPaused:
		status = "  PAUSED"
	case engine.StatusCompleted:
		status = "  RUN COMPLETE!"
	}
	sound := ""
	if muted {
		sound = "  (muted)"
	}

	return fmt.Sprintf("Level %d/%d: %s%s\nDeaths: %d  Coins: %d/%d  Time: %.1fs%s",
		s.Level+1, s.LevelCount, s.LevelName, status,
		s.Deaths, s.CoinsTaken, len(s.Coins), float64(s.Frame)/float64(ebiten.DefaultTPS), sound)
}
