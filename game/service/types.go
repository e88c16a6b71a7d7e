package service

import (
	"time"

	"github.com/wricardo/squaredash/game/engine"
)

// MaxStepFrames caps the frames a single Step call may simulate
const MaxStepFrames = 600

// Event types reported in step results and broadcast to subscribers
const (
	EventDeath         = "death"
	EventCoin          = "coin"
	EventLevelFinished = "level_finished"
	EventCompleted     = "completed"
	EventRestart       = "restart"
	EventPause         = "pause"
	EventResume        = "resume"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	StartLevel     int              `json:"start_level"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	State          *engine.RunState `json:"state"`
}

// StepResult contains the result of a step operation
type StepResult struct {
	// Summary
	FramesExecuted  int               `json:"frames_executed"`
	RequestedFrames int               `json:"requested_frames"`
	Keys            []string          `json:"keys"`
	Report          engine.StepReport `json:"report"`
	State           *engine.RunState  `json:"state"`
	Events          []GameEvent       `json:"events"`
	Message         string            `json:"message,omitempty"`

	// Early stop
	StoppedReason string `json:"stopped_reason,omitempty"` // paused|level_finished|completed
	Truncated     bool   `json:"truncated,omitempty"`
	Limit         int    `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos engine.Vec `json:"start_pos"`
	EndPos   engine.Vec `json:"end_pos"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string     `json:"type"` // "death", "coin", "level_finished", "completed", "restart", "pause", "resume"
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Level     int        `json:"level"`
	Frame     int        `json:"frame,omitempty"`
	Position  engine.Vec `json:"position"`
}

// LevelInfo provides information about a level file
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Coins       int    `json:"coins"`
	Enemies     int    `json:"enemies"`
	SafeRanks   int    `json:"safe_ranks"`
}
