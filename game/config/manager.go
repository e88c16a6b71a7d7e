package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/squaredash/game/engine"
	"github.com/wricardo/squaredash/game/service"
)

var ErrLevelNotFound = errors.New("level not found")

// Manager handles level file loading and caching
type Manager struct {
	levelsDir string
	levels    map[string]*engine.LevelDefinition
	mu        sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelsDir string) (*Manager, error) {
	// Ensure levels directory exists
	if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
	}

	return &Manager{
		levelsDir: levelsDir,
		levels:    make(map[string]*engine.LevelDefinition),
	}, nil
}

// LoadLevel loads a level by ID (its file name without extension)
func (m *Manager) LoadLevel(name string) (*engine.LevelDefinition, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	// Check cache first
	if def, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return def, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if def, exists := m.levels[name]; exists {
		return def, nil
	}

	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: invalid level name '%s'", ErrLevelNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(m.levelsDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	// Parse and validate
	def, err := engine.ParseLevelDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("level '%s': %w", name, err)
	}

	// Cache the level
	m.levels[name] = def
	return def, nil
}

// levelIDs returns the IDs of every level file in lexical file name order
func (m *Manager) levelIDs() ([]string, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)

	return ids, nil
}

// ListLevels returns information about every valid level, in pack order
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	ids, err := m.levelIDs()
	if err != nil {
		return nil, err
	}

	var levels []*service.LevelInfo
	for _, id := range ids {
		def, err := m.LoadLevel(id)
		if err != nil {
			// Skip invalid levels
			continue
		}
		levels = append(levels, describe(id, def))
	}

	return levels, nil
}

func describe(id string, def *engine.LevelDefinition) *service.LevelInfo {
	info := &service.LevelInfo{
		Filename:    id + ".json",
		LevelID:     id,
		Name:        def.Name,
		Description: def.Description,
		Coins:       len(def.Coins),
		Enemies:     len(def.Enemies),
	}
	if m, err := engine.NewMap(def.Grid()); err == nil {
		info.Rows = m.Rows()
		info.Cols = m.Cols()
		info.SafeRanks = len(m.SafeRanks())
	}
	return info
}

// Pack returns every valid level in play order. Invalid level files are
// left out, the same way ListLevels skips them.
func (m *Manager) Pack() ([]*engine.LevelDefinition, error) {
	ids, err := m.levelIDs()
	if err != nil {
		return nil, err
	}

	var pack []*engine.LevelDefinition
	for _, id := range ids {
		def, err := m.LoadLevel(id)
		if err != nil {
			continue
		}
		pack = append(pack, def)
	}

	if len(pack) == 0 {
		return []*engine.LevelDefinition{DefaultLevel()}, nil
	}
	return pack, nil
}

// RefreshCache drops every cached level so the next load reads from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.levels = make(map[string]*engine.LevelDefinition)
}

// SaveLevel validates a level and saves it to disk
func (m *Manager) SaveLevel(name string, def *engine.LevelDefinition) error {
	// Validate level before saving
	if err := engine.ValidateLevel(def); err != nil {
		return err
	}

	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid level name '%s'", engine.ErrInvalidLevel, name)
	}

	levelPath := filepath.Join(m.levelsDir, name+".json")

	// Marshal level to JSON with indentation
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	// Write to file
	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.levels[name] = def
	m.mu.Unlock()

	return nil
}

// DefaultLevel is the built-in level used when the levels directory holds
// no valid level.
func DefaultLevel() *engine.LevelDefinition {
	return &engine.LevelDefinition{
		Name:        "default",
		Description: "Default minimal level",
		Layout: []string{
			"1MMMM",
			"MMMMM",
			"MMMMF",
		},
		PlayerRespawns: []engine.GridPoint{{Row: 0.5, Col: 0.5}},
		Coins:          []engine.GridPoint{{Row: 1.5, Col: 2.5}},
		Enemies: []engine.EnemyDefinition{
			{
				Type:        engine.LinearKind,
				Checkpoints: []engine.GridPoint{{Row: 0.5, Col: 3.5}, {Row: 2.5, Col: 3.5}},
			},
		},
	}
}
