package engine

import (
	"errors"
	"fmt"
	"log"
)

// RunStatus is the lifecycle state of a Run
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusPaused    RunStatus = "paused"
	StatusCompleted RunStatus = "completed"
)

var ErrEmptyPack = errors.New("level pack is empty")

// StepReport summarizes what happened during a Step call
type StepReport struct {
	Frames        int  `json:"frames"`
	Deaths        int  `json:"deaths"`
	CoinPickups   int  `json:"coin_pickups"`
	LevelFinished bool `json:"level_finished"`
	Completed     bool `json:"completed"`
	Level         int  `json:"level"`
}

// Merge folds another report into r. Level always takes the later value.
func (r *StepReport) Merge(o StepReport) {
	r.Frames += o.Frames
	r.Deaths += o.Deaths
	r.CoinPickups += o.CoinPickups
	r.LevelFinished = r.LevelFinished || o.LevelFinished
	r.Completed = r.Completed || o.Completed
	r.Level = o.Level
}

// Run plays an ordered pack of levels. It keeps the counters a host page
// shows (deaths, frames), moves to the next level once one is finished
// and stops stepping while paused.
//
// Run is not safe for concurrent use; callers serialize access.
type Run struct {
	levels []*LevelDefinition
	level  int
	world  *World

	deaths         int
	coinsCollected int
	frame          int
	levelFrame     int

	paused    bool
	completed bool
}

// NewRun validates every level of the pack and loads the first one
func NewRun(levels []*LevelDefinition) (*Run, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyPack
	}
	for i, def := range levels {
		if err := ValidateLevel(def); err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
	}

	r := &Run{levels: levels}
	if err := r.load(0); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Run) load(index int) error {
	if index < 0 || index >= len(r.levels) {
		return fmt.Errorf("level index %d out of range [0, %d)", index, len(r.levels))
	}
	world, err := NewWorld(r.levels[index])
	if err != nil {
		return err
	}
	r.level = index
	r.world = world
	r.levelFrame = 0
	return nil
}

// Step advances the current level one frame. Paused and completed runs
// do not change.
func (r *Run) Step(in Input) StepReport {
	report := StepReport{Level: r.level}
	if r.paused || r.completed {
		return report
	}

	finished := false
	r.world.Step(in, Effects{
		OnDeath: func() {
			r.deaths++
			report.Deaths++
		},
		OnCoinPickup: func() {
			r.coinsCollected++
			report.CoinPickups++
		},
		OnLevelFinished: func() {
			finished = true
		},
	})
	r.frame++
	r.levelFrame++
	report.Frames = 1

	if !finished {
		return report
	}

	report.LevelFinished = true
	next := r.level + 1
	if next >= len(r.levels) {
		r.completed = true
		report.Completed = true
		return report
	}
	if err := r.load(next); err != nil {
		// Levels are validated up front, so this only fires on a broken pack
		log.Printf("Failed to load level %d: %v", next+1, err)
		r.completed = true
		report.Completed = true
		return report
	}
	report.Level = r.level
	return report
}

// FrameFunc observes one frame of StepN. level and from are the level
// index and player position before the frame. Returning false stops
// StepN after that frame.
type FrameFunc func(level int, from Vec, rep StepReport) bool

// StepN performs up to n steps with the same input, stopping early once
// the run is paused or completes, a level is finished, or observe
// returns false. observe may be nil.
func (r *Run) StepN(in Input, n int, observe FrameFunc) StepReport {
	report := StepReport{Level: r.level}
	for i := 0; i < n; i++ {
		if r.paused || r.completed {
			break
		}
		level, from := r.level, r.world.Player.Pos
		step := r.Step(in)
		report.Merge(step)
		if observe != nil && !observe(level, from, step) {
			break
		}
		if step.LevelFinished {
			break
		}
	}
	return report
}

// Pause freezes the run; Step becomes a no-op until Resume
func (r *Run) Pause() { r.paused = true }

// Resume continues a paused run
func (r *Run) Resume() { r.paused = false }

func (r *Run) Paused() bool    { return r.paused }
func (r *Run) Completed() bool { return r.completed }
func (r *Run) Deaths() int     { return r.deaths }
func (r *Run) Frame() int      { return r.frame }
func (r *Run) Level() int      { return r.level }
func (r *Run) LevelCount() int { return len(r.levels) }
func (r *Run) World() *World   { return r.world }

// Restart goes back to the first level and clears every counter
func (r *Run) Restart() {
	r.deaths = 0
	r.coinsCollected = 0
	r.frame = 0
	r.paused = false
	r.completed = false
	if err := r.load(0); err != nil {
		log.Printf("Failed to reload first level: %v", err)
	}
}

// JumpTo loads level index with a fresh world. Counters are kept.
func (r *Run) JumpTo(index int) error {
	if err := r.load(index); err != nil {
		return err
	}
	r.completed = false
	return nil
}

// Status returns the current lifecycle state
func (r *Run) Status() RunStatus {
	switch {
	case r.completed:
		return StatusCompleted
	case r.paused:
		return StatusPaused
	}
	return StatusRunning
}

// PlayerState is the player part of a RunState
type PlayerState struct {
	Position      Vec      `json:"position"`
	Cell          Cell     `json:"cell"`
	RespawnIndex  int      `json:"respawn_index"`
	PossibleMoves []string `json:"possible_moves"`
}

// EnemyState is one enemy in a RunState
type EnemyState struct {
	Kind     string  `json:"kind"`
	Position Vec     `json:"position"`
	Radius   float64 `json:"radius"`
}

// CoinState is one coin in a RunState
type CoinState struct {
	Position Vec  `json:"position"`
	Taken    bool `json:"taken"`
}

// RunState is a serializable snapshot of a Run
type RunState struct {
	Status         RunStatus    `json:"status"`
	Level          int          `json:"level"`
	LevelCount     int          `json:"level_count"`
	LevelName      string       `json:"level_name"`
	Description    string       `json:"description,omitempty"`
	Deaths         int          `json:"deaths"`
	CoinsCollected int          `json:"coins_collected"`
	Frame          int          `json:"frame"`
	LevelFrame     int          `json:"level_frame"`
	Player         PlayerState  `json:"player"`
	Enemies        []EnemyState `json:"enemies"`
	Coins          []CoinState  `json:"coins"`
	CoinsTaken     int          `json:"coins_taken"`
	Layout         []string     `json:"layout"`
	Edges          []Edge       `json:"edges"`
	CanvasWidth    float64      `json:"canvas_width"`
	CanvasHeight   float64      `json:"canvas_height"`
}

// State returns a snapshot of the run
func (r *Run) State() *RunState {
	w := r.world

	moves := []string{}
	for _, d := range w.Player.PossibleMoves() {
		moves = append(moves, d.String())
	}

	enemies := make([]EnemyState, len(w.Enemies))
	for i, e := range w.Enemies {
		enemies[i] = EnemyState{Kind: e.Kind(), Position: e.Position(), Radius: e.Radius()}
	}

	coins := make([]CoinState, len(w.Coins))
	for i, c := range w.Coins {
		coins[i] = CoinState{Position: c.Position(), Taken: c.Taken}
	}

	width, height := w.Map.CanvasSize()

	return &RunState{
		Status:         r.Status(),
		Level:          r.level,
		LevelCount:     len(r.levels),
		LevelName:      w.Name,
		Description:    r.levels[r.level].Description,
		Deaths:         r.deaths,
		CoinsCollected: r.coinsCollected,
		Frame:          r.frame,
		LevelFrame:     r.levelFrame,
		Player: PlayerState{
			Position:      w.Player.Pos,
			Cell:          w.Player.Cell(),
			RespawnIndex:  w.Player.RespawnIndex,
			PossibleMoves: moves,
		},
		Enemies:      enemies,
		Coins:        coins,
		CoinsTaken:   w.CoinsTaken(),
		Layout:       w.Map.Layout(),
		Edges:        w.Map.Edges(),
		CanvasWidth:  width,
		CanvasHeight: height,
	}
}
