package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// LevelDefinition is one level as stored in a level file: a text grid plus
// the entity configuration placed on it. All positions are grid points.
type LevelDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Map is the text grid, rows separated by line breaks. Layout is an
	// alternative one-string-per-row form used when Map is empty.
	Map    string   `json:"map,omitempty"`
	Layout []string `json:"layout,omitempty"`

	PlayerRespawns []GridPoint       `json:"player_respawns"`
	Coins          []GridPoint       `json:"coins"`
	Enemies        []EnemyDefinition `json:"enemies"`
}

// EnemyDefinition describes one enemy, discriminated by Type.
//
// Linear enemies use Checkpoints and Speed (drawing units per frame).
// Radial enemies use Origin, Radius (grid units), Angle (degrees, 0 is
// south) and Speed (degrees per frame, negative is clockwise). A zero
// Speed selects the default for the type.
type EnemyDefinition struct {
	Type        string      `json:"type"`
	Checkpoints []GridPoint `json:"checkpoints,omitempty"`
	Origin      *GridPoint  `json:"origin,omitempty"`
	Radius      float64     `json:"radius,omitempty"`
	Angle       float64     `json:"angle,omitempty"`
	Speed       float64     `json:"speed,omitempty"`
}

// Grid returns the level's text grid
func (d *LevelDefinition) Grid() string {
	if d.Map != "" {
		return d.Map
	}
	return strings.Join(d.Layout, "\n")
}

// ValidateLevel checks a level definition for correctness and playability.
// Every failure is a *ConfigurationError.
func ValidateLevel(def *LevelDefinition) error {
	if def == nil {
		return &ConfigurationError{Reason: "level definition is nil"}
	}
	if def.Name == "" {
		return &ConfigurationError{Reason: "name is required"}
	}

	m, err := NewMap(def.Grid())
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return configErrorf(def.Name, "%s", cfgErr.Reason)
		}
		return configErrorf(def.Name, "%v", err)
	}

	if CountCellKind(m, End) == 0 {
		return configErrorf(def.Name, "map must contain at least one end (%c) cell", EndCode)
	}

	// Respawn points
	if len(def.PlayerRespawns) == 0 {
		return configErrorf(def.Name, "player_respawns must contain at least one point")
	}
	ranks := m.SafeRanks()
	for _, rank := range ranks {
		if rank >= len(def.PlayerRespawns) {
			return configErrorf(def.Name, "no respawn point for safe rank %c", FirstSafeCode+rune(rank))
		}
	}
	if len(ranks) > 0 && len(ranks) != len(def.PlayerRespawns) {
		return configErrorf(def.Name, "player_respawns has %d points but the map uses %d safe ranks",
			len(def.PlayerRespawns), len(ranks))
	}
	for i, p := range def.PlayerRespawns {
		center := m.ToContinuous(p)
		if !m.ClassifyAt(center).Walkable() {
			return configErrorf(def.Name, "respawn point %d at [%g, %g] is outside the playable area", i+1, p.Row, p.Col)
		}
		if !squareFits(m, center) {
			return configErrorf(def.Name, "respawn point %d at [%g, %g] leaves the player square partly outside the playable area", i+1, p.Row, p.Col)
		}
	}

	// Enemies
	for i, e := range def.Enemies {
		if err := validateEnemy(e); err != nil {
			return configErrorf(def.Name, "enemy %d: %s", i+1, err.Reason)
		}
	}

	return nil
}

func validateEnemy(e EnemyDefinition) *ConfigurationError {
	switch e.Type {
	case LinearKind:
		if len(e.Checkpoints) < 2 {
			return &ConfigurationError{Reason: fmt.Sprintf("linear enemy needs at least 2 checkpoints, got %d", len(e.Checkpoints))}
		}
		if e.Speed < 0 || math.IsNaN(e.Speed) || math.IsInf(e.Speed, 0) {
			return &ConfigurationError{Reason: fmt.Sprintf("linear enemy speed must be a positive number, got %g", e.Speed)}
		}
	case RadialKind:
		if e.Origin == nil {
			return &ConfigurationError{Reason: "radial enemy needs an origin"}
		}
		if e.Radius < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("radial enemy radius must not be negative, got %g", e.Radius)}
		}
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("enemy of type %q not implemented", e.Type)}
	}
	return nil
}

// NewEnemy builds an enemy from its definition on map m
func NewEnemy(e EnemyDefinition, m *Map) (Enemy, error) {
	if err := validateEnemy(e); err != nil {
		return nil, err
	}

	switch e.Type {
	case LinearKind:
		speed := e.Speed
		if speed == 0 {
			speed = DefaultLinearSpeed
		}
		checkpoints := make([]Vec, len(e.Checkpoints))
		for i, p := range e.Checkpoints {
			checkpoints[i] = m.ToContinuous(p)
		}
		enemy, err := NewLinearEnemy(checkpoints, speed)
		if err != nil {
			return nil, err
		}
		return enemy, nil

	case RadialKind:
		speed := e.Speed
		if speed == 0 {
			speed = DefaultRadialSpeed
		}
		return NewRadialEnemy(m.ToContinuous(*e.Origin), e.Radius*CellSize, DegToRad(e.Angle), DegToRad(speed)), nil
	}

	return nil, &ConfigurationError{Reason: fmt.Sprintf("enemy of type %q not implemented", e.Type)}
}

// ParseLevelDefinition decodes and validates a level from JSON
func ParseLevelDefinition(data []byte) (*LevelDefinition, error) {
	var def LevelDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	if err := ValidateLevel(&def); err != nil {
		return nil, err
	}

	return &def, nil
}

// LoadLevelDefinition loads a level from a JSON file. A path starting with
// "levels/" is redirected to LEVELS_DIR when that variable is set.
func LoadLevelDefinition(filename string) (*LevelDefinition, error) {
	levelPath := filename
	if levelsDir := os.Getenv("LEVELS_DIR"); levelsDir != "" {
		if strings.HasPrefix(filename, "levels/") {
			levelPath = filepath.Join(levelsDir, strings.TrimPrefix(filename, "levels/"))
		}
	}

	data, err := os.ReadFile(levelPath)
	if err != nil {
		return nil, err
	}

	def, err := ParseLevelDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("level file '%s': %w", levelPath, err)
	}

	return def, nil
}
