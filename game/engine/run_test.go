package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

// shortLevel finishes after nine frames of holding right
func shortLevel(name string) *LevelDefinition {
	return &LevelDefinition{
		Name:           name,
		Map:            "1F",
		PlayerRespawns: []GridPoint{{0.5, 0.5}},
	}
}

func mustRun(t *testing.T, levels ...*LevelDefinition) *Run {
	t.Helper()
	r, err := NewRun(levels)
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	return r
}

func TestNewRun(t *testing.T) {
	r := mustRun(t, shortLevel("one"), shortLevel("two"))

	if r.Level() != 0 || r.LevelCount() != 2 {
		t.Errorf("Expected level 0 of 2, got %d of %d", r.Level(), r.LevelCount())
	}
	if r.Status() != StatusRunning {
		t.Errorf("Expected status running, got %s", r.Status())
	}
	if r.World().Name != "one" {
		t.Errorf("Expected first level loaded, got %q", r.World().Name)
	}
}

func TestNewRun_Errors(t *testing.T) {
	if _, err := NewRun(nil); !errors.Is(err, ErrEmptyPack) {
		t.Errorf("Expected ErrEmptyPack, got %v", err)
	}

	bad := shortLevel("bad")
	bad.Map = "1M"
	if _, err := NewRun([]*LevelDefinition{shortLevel("ok"), bad}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel for a broken level, got %v", err)
	}
}

func TestRunStep_AdvancesLevels(t *testing.T) {
	r := mustRun(t, shortLevel("one"), shortLevel("two"))
	right := Input{KeyRight: true}

	var finished []StepReport
	for i := 0; i < 40 && !r.Completed(); i++ {
		if rep := r.Step(right); rep.LevelFinished {
			finished = append(finished, rep)
		}
		if i == 8 {
			if r.Level() != 1 {
				t.Fatalf("Expected level 1 after frame 9, got %d", r.Level())
			}
			// Fresh world at the first respawn point
			if r.World().Player.Pos != (Vec{25, 25}) {
				t.Errorf("Expected player reset to (25,25), got %+v", r.World().Player.Pos)
			}
		}
	}

	if len(finished) != 2 {
		t.Fatalf("Expected 2 finished levels, got %d", len(finished))
	}
	if finished[0].Completed || finished[0].Level != 1 {
		t.Errorf("Unexpected first report %+v", finished[0])
	}
	if !finished[1].Completed {
		t.Errorf("Expected last report to complete the run, got %+v", finished[1])
	}
	if r.Status() != StatusCompleted {
		t.Errorf("Expected status completed, got %s", r.Status())
	}
	if r.Frame() != 18 {
		t.Errorf("Expected 18 frames, got %d", r.Frame())
	}

	// A completed run ignores further steps
	if rep := r.Step(right); rep.Frames != 0 || r.Frame() != 18 {
		t.Errorf("Expected completed run not to step, got %+v", rep)
	}
}

func TestRunStep_CountsDeaths(t *testing.T) {
	def := &LevelDefinition{
		Name:           "deadly",
		Map:            "1MMMF",
		PlayerRespawns: []GridPoint{{0.5, 0.5}},
		Enemies: []EnemyDefinition{
			{Type: RadialKind, Origin: &GridPoint{0.5, 2.5}},
		},
	}
	r := mustRun(t, def)

	deaths := 0
	for i := 0; i < 100; i++ {
		deaths += r.Step(Input{KeyRight: true}).Deaths
	}
	if deaths == 0 || r.Deaths() != deaths {
		t.Errorf("Expected deaths counted, report total %d, run %d", deaths, r.Deaths())
	}
	if r.Completed() {
		t.Error("Expected the run not to complete past a blocking enemy")
	}
}

func TestRunPauseResume(t *testing.T) {
	r := mustRun(t, shortLevel("one"))
	right := Input{KeyRight: true}

	r.Step(right)
	r.Pause()
	if r.Status() != StatusPaused {
		t.Errorf("Expected status paused, got %s", r.Status())
	}

	pos := r.World().Player.Pos
	for i := 0; i < 5; i++ {
		r.Step(right)
	}
	if r.World().Player.Pos != pos || r.Frame() != 1 {
		t.Error("Expected paused run not to change")
	}

	r.Resume()
	r.Step(right)
	if r.Frame() != 2 {
		t.Errorf("Expected frame 2 after resume, got %d", r.Frame())
	}
}

func TestRunRestart(t *testing.T) {
	r := mustRun(t, shortLevel("one"), shortLevel("two"))
	r.StepN(Input{KeyRight: true}, 9, nil)
	r.Pause()

	r.Restart()
	if r.Level() != 0 || r.Frame() != 0 || r.Deaths() != 0 {
		t.Errorf("Expected fresh run, got level %d frame %d deaths %d", r.Level(), r.Frame(), r.Deaths())
	}
	if r.Paused() || r.Completed() {
		t.Error("Expected restarted run to be running")
	}
}

func TestRunStepN(t *testing.T) {
	r := mustRun(t, shortLevel("one"), shortLevel("two"))

	var levels []int
	var from []Vec
	rep := r.StepN(Input{KeyRight: true}, 100, func(level int, pos Vec, step StepReport) bool {
		levels = append(levels, level)
		from = append(from, pos)
		return true
	})
	if rep.Frames != 9 || !rep.LevelFinished || rep.Level != 1 {
		t.Errorf("Expected StepN to stop on the finished level, got %+v", rep)
	}
	if len(levels) != 9 || levels[8] != 0 {
		t.Errorf("Expected 9 frames observed on level 0, got %v", levels)
	}
	if from[0] != (Vec{25, 25}) || from[1] != (Vec{28, 25}) {
		t.Errorf("Expected positions before each frame, got %v", from[:2])
	}

	rep = r.StepN(Input{}, 5, nil)
	if rep.Frames != 5 || rep.LevelFinished {
		t.Errorf("Expected 5 idle frames, got %+v", rep)
	}

	frames := 0
	rep = r.StepN(Input{}, 10, func(int, Vec, StepReport) bool {
		frames++
		return frames < 3
	})
	if rep.Frames != 3 {
		t.Errorf("Expected the observer to stop StepN after 3 frames, got %d", rep.Frames)
	}

	r.Pause()
	if rep = r.StepN(Input{}, 10, nil); rep.Frames != 0 {
		t.Errorf("Expected no frames while paused, got %d", rep.Frames)
	}
}

func TestRunJumpTo(t *testing.T) {
	r := mustRun(t, shortLevel("one"), shortLevel("two"))

	if err := r.JumpTo(1); err != nil {
		t.Fatalf("JumpTo failed: %v", err)
	}
	if r.World().Name != "two" {
		t.Errorf("Expected level two, got %q", r.World().Name)
	}
	if err := r.JumpTo(2); err == nil {
		t.Error("Expected error for out of range level")
	}
}

func TestRunState(t *testing.T) {
	r := mustRun(t, corridorLevel())
	r.StepN(Input{KeyDown: true, KeyRight: true}, 12, nil)

	state := r.State()
	if state.Status != StatusRunning || state.LevelName != "corridor" {
		t.Errorf("Unexpected status/name %s/%s", state.Status, state.LevelName)
	}
	if state.Frame != 12 || state.CoinsCollected != 1 || state.CoinsTaken != 1 {
		t.Errorf("Unexpected counters %+v", state)
	}
	if state.Player.Position != (Vec{61, 61}) {
		t.Errorf("Expected player at (61,61), got %+v", state.Player.Position)
	}
	if len(state.Edges) != 4 || len(state.Layout) != 3 {
		t.Errorf("Expected 4 edges and 3 rows, got %d and %d", len(state.Edges), len(state.Layout))
	}
	if state.CanvasWidth != 250 || state.CanvasHeight != 250 {
		t.Errorf("Unexpected canvas size %gx%g", state.CanvasWidth, state.CanvasHeight)
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"status", "player", "coins", "enemies", "edges", "layout"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in state JSON", key)
		}
	}
}
