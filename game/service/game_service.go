package service

import (
	"context"
	"time"

	"github.com/wricardo/squaredash/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, startLevel string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Step(ctx context.Context, sessionID string, keys []string, frames int) (*StepResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.RunState, error)
	Pause(ctx context.Context, sessionID string) (*engine.RunState, error)
	Resume(ctx context.Context, sessionID string) (*engine.RunState, error)

	// Game State
	GetRunState(ctx context.Context, sessionID string) (*engine.RunState, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID string) (*engine.LevelDefinition, error)
	SaveLevel(ctx context.Context, levelID string, def *engine.LevelDefinition) error
	ReloadLevels(ctx context.Context) ([]*LevelInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, pack []*engine.LevelDefinition, startLevel int) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelManager handles level file loading
type LevelManager interface {
	LoadLevel(name string) (*engine.LevelDefinition, error)
	ListLevels() ([]*LevelInfo, error)
	Pack() ([]*engine.LevelDefinition, error)
	SaveLevel(name string, def *engine.LevelDefinition) error
	RefreshCache()
}

// Session represents an active game session. Each session plays its own
// copy of the level pack.
type Session struct {
	ID             string
	Run            *engine.Run
	StartLevel     int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
