package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/squaredash/game/engine"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrInvalidKey   = errors.New("invalid key")
)

// keyAliases maps the short direction names accepted by the API to
// input key identifiers
var keyAliases = map[string]string{
	"up":    engine.KeyUp,
	"down":  engine.KeyDown,
	"left":  engine.KeyLeft,
	"right": engine.KeyRight,
	"u":     engine.KeyUp,
	"d":     engine.KeyDown,
	"l":     engine.KeyLeft,
	"r":     engine.KeyRight,
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// CreateSession creates a new game session playing the level pack from
// startLevel. An empty startLevel starts at the first level.
func (s *gameServiceImpl) CreateSession(ctx context.Context, startLevel string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pack, err := s.levels.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to load level pack: %w", err)
	}

	start, err := s.resolveLevel(startLevel)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", pack, start)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// resolveLevel finds the pack index of a level by ID or display name
func (s *gameServiceImpl) resolveLevel(level string) (int, error) {
	if level == "" {
		return 0, nil
	}

	infos, err := s.levels.ListLevels()
	if err != nil {
		return 0, fmt.Errorf("failed to list levels: %w", err)
	}

	var ids []string
	for i, info := range infos {
		if strings.EqualFold(info.LevelID, level) || strings.EqualFold(info.Name, level) {
			return i, nil
		}
		ids = append(ids, info.LevelID)
	}

	return 0, fmt.Errorf("%w: '%s'. Available levels: %v", ErrUnknownLevel, level, ids)
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		StartLevel:     sess.StartLevel,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Run.State(),
	}
}

// GetSession retrieves session information. Touching the session writes
// LastAccessedAt, so it takes the write lock like every other toucher.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// ParseKeys converts key names into an input snapshot. Both input key
// identifiers ("ArrowUp") and short names ("up") are accepted.
func ParseKeys(keys []string) (engine.Input, error) {
	held := make([]string, 0, len(keys))
	for _, k := range keys {
		switch k {
		case engine.KeyUp, engine.KeyDown, engine.KeyLeft, engine.KeyRight:
			held = append(held, k)
			continue
		}
		key, ok := keyAliases[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return nil, fmt.Errorf("%w: '%s' (use up, down, left, right)", ErrInvalidKey, k)
		}
		held = append(held, key)
	}
	return engine.InputFromKeys(held), nil
}

// Step holds keys for up to frames frames. It stops early when the run is
// paused, a level is finished or the pack is completed.
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, keys []string, frames int) (*StepResult, error) {
	in, err := ParseKeys(keys)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed
	s.sessions.UpdateLastAccessed(sessionID)

	if frames <= 0 {
		frames = 1
	}

	run := sess.Run
	result := &StepResult{
		RequestedFrames: frames,
		Keys:            keys,
		Events:          make([]GameEvent, 0),
		StartPos:        run.World().Player.Pos,
	}
	if result.Keys == nil {
		result.Keys = []string{}
	}

	if frames > MaxStepFrames {
		frames = MaxStepFrames
		result.Truncated = true
		result.Limit = MaxStepFrames
	}

	result.Report = run.StepN(in, frames, func(level int, from engine.Vec, rep engine.StepReport) bool {
		result.Events = append(result.Events, stepEvents(run, rep, level, from)...)
		return ctx.Err() == nil
	})
	result.FramesExecuted = result.Report.Frames

	switch {
	case result.Report.Completed, run.Completed():
		result.StoppedReason = EventCompleted
	case result.Report.LevelFinished:
		result.StoppedReason = EventLevelFinished
	case run.Paused():
		result.StoppedReason = "paused"
	}

	result.State = run.State()
	result.EndPos = run.World().Player.Pos
	result.Message = stepMessage(result)

	return result, nil
}

// stepEvents turns one frame's report into events. level and pos are the
// values before the frame.
func stepEvents(run *engine.Run, rep engine.StepReport, level int, pos engine.Vec) []GameEvent {
	now := time.Now()
	frame := run.Frame()
	var events []GameEvent

	for i := 0; i < rep.Deaths; i++ {
		events = append(events, GameEvent{
			Type:      EventDeath,
			Message:   fmt.Sprintf("Hit by an enemy (death %d)", run.Deaths()),
			Timestamp: now,
			Level:     level,
			Frame:     frame,
			Position:  pos,
		})
	}
	for i := 0; i < rep.CoinPickups; i++ {
		events = append(events, GameEvent{
			Type:      EventCoin,
			Message:   "Coin collected",
			Timestamp: now,
			Level:     level,
			Frame:     frame,
			Position:  pos,
		})
	}
	if rep.LevelFinished {
		events = append(events, GameEvent{
			Type:      EventLevelFinished,
			Message:   fmt.Sprintf("Level %d finished", level+1),
			Timestamp: now,
			Level:     level,
			Frame:     frame,
			Position:  pos,
		})
	}
	if rep.Completed {
		events = append(events, GameEvent{
			Type:      EventCompleted,
			Message:   fmt.Sprintf("All %d levels completed with %d deaths", run.LevelCount(), run.Deaths()),
			Timestamp: now,
			Level:     level,
			Frame:     frame,
			Position:  pos,
		})
	}

	return events
}

func stepMessage(r *StepResult) string {
	switch r.StoppedReason {
	case EventCompleted:
		return "All levels completed"
	case EventLevelFinished:
		return fmt.Sprintf("Level finished, now on level %d", r.State.Level+1)
	case "paused":
		return "Game is paused, resume to continue"
	}
	if r.Report.Deaths > 0 {
		return fmt.Sprintf("Died %d time(s)", r.Report.Deaths)
	}
	return fmt.Sprintf("Stepped %d frame(s)", r.FramesExecuted)
}

// Restart sends a session back to its first level with cleared counters
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Run.Restart()
	if sess.StartLevel > 0 {
		if err := sess.Run.JumpTo(sess.StartLevel); err != nil {
			return nil, fmt.Errorf("failed to load start level: %w", err)
		}
	}

	return sess.Run.State(), nil
}

// Pause freezes a session's run
func (s *gameServiceImpl) Pause(ctx context.Context, sessionID string) (*engine.RunState, error) {
	return s.withRun(sessionID, func(run *engine.Run) { run.Pause() })
}

// Resume continues a paused run
func (s *gameServiceImpl) Resume(ctx context.Context, sessionID string) (*engine.RunState, error) {
	return s.withRun(sessionID, func(run *engine.Run) { run.Resume() })
}

func (s *gameServiceImpl) withRun(sessionID string, fn func(run *engine.Run)) (*engine.RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	fn(sess.Run)

	return sess.Run.State(), nil
}

// GetRunState retrieves the current run state
func (s *gameServiceImpl) GetRunState(ctx context.Context, sessionID string) (*engine.RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Run.State(), nil
}

// ListLevels returns the level pack in play order
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level definition
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.LevelDefinition, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel validates and saves a level definition to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelID string, def *engine.LevelDefinition) error {
	return s.levels.SaveLevel(levelID, def)
}

// ReloadLevels drops cached level files so edits on disk are picked up.
// Running sessions keep the pack they were created with.
func (s *gameServiceImpl) ReloadLevels(ctx context.Context) ([]*LevelInfo, error) {
	s.levels.RefreshCache()
	return s.levels.ListLevels()
}
