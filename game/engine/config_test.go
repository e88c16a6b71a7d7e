package engine

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createValidLevel() *LevelDefinition {
	origin := GridPoint{1.5, 2.5}
	return &LevelDefinition{
		Name:        "Test Level",
		Description: "A valid test level",
		Layout: []string{
			"1MMM ",
			"MMMM2",
			" MMMF",
		},
		PlayerRespawns: []GridPoint{{0.5, 0.5}, {1.5, 4.5}},
		Coins:          []GridPoint{{1.5, 1.5}},
		Enemies: []EnemyDefinition{
			{Type: LinearKind, Checkpoints: []GridPoint{{0.5, 1.5}, {2.5, 1.5}}},
			{Type: RadialKind, Origin: &origin, Radius: 1},
		},
	}
}

func TestValidateLevel_ValidLevel(t *testing.T) {
	if err := ValidateLevel(createValidLevel()); err != nil {
		t.Errorf("Expected valid level to pass validation, got: %v", err)
	}
}

func TestValidateLevel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *LevelDefinition)
		wantMsg string
	}{
		{"missing name", func(d *LevelDefinition) { d.Name = "" }, "name is required"},
		{"empty grid", func(d *LevelDefinition) { d.Layout = nil }, "map grid is empty"},
		{"ragged rows", func(d *LevelDefinition) { d.Layout[1] = "MMMM" }, "must have 5 cells"},
		{"unknown code", func(d *LevelDefinition) { d.Layout[0] = "1MXM " }, "invalid cell code 'X'"},
		{"no end cell", func(d *LevelDefinition) { d.Layout[2] = " MMMM" }, "at least one end"},
		{"no respawns", func(d *LevelDefinition) { d.PlayerRespawns = nil }, "at least one point"},
		{
			"rank without respawn",
			func(d *LevelDefinition) { d.PlayerRespawns = d.PlayerRespawns[:1] },
			"no respawn point for safe rank 2",
		},
		{
			"extra respawn",
			func(d *LevelDefinition) { d.PlayerRespawns = append(d.PlayerRespawns, GridPoint{2.5, 2.5}) },
			"has 3 points but the map uses 2 safe ranks",
		},
		{
			"respawn outside",
			func(d *LevelDefinition) { d.PlayerRespawns[1] = GridPoint{0.5, 4.5} },
			"outside the playable area",
		},
		{
			"respawn square partly outside",
			func(d *LevelDefinition) { d.PlayerRespawns[0] = GridPoint{0, 0} },
			"leaves the player square partly outside",
		},
		{
			"respawn square across the border",
			func(d *LevelDefinition) { d.PlayerRespawns[1] = GridPoint{1.5, 4.8} },
			"leaves the player square partly outside",
		},
		{"linear negative speed", func(d *LevelDefinition) { d.Enemies[0].Speed = -6 }, "speed must be a positive number"},
		{"linear NaN speed", func(d *LevelDefinition) { d.Enemies[0].Speed = math.NaN() }, "speed must be a positive number"},
		{
			"linear enemy single checkpoint",
			func(d *LevelDefinition) { d.Enemies[0].Checkpoints = d.Enemies[0].Checkpoints[:1] },
			"at least 2 checkpoints",
		},
		{"radial enemy without origin", func(d *LevelDefinition) { d.Enemies[1].Origin = nil }, "needs an origin"},
		{"radial negative radius", func(d *LevelDefinition) { d.Enemies[1].Radius = -1 }, "must not be negative"},
		{"unknown enemy type", func(d *LevelDefinition) { d.Enemies[0].Type = "spiral" }, `type "spiral" not implemented`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := createValidLevel()
			tt.mutate(def)

			err := ValidateLevel(def)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantMsg, err)
			}
			if !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("Expected error to wrap ErrInvalidLevel, got %v", err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected *ConfigurationError, got %T", err)
			}
		})
	}
}

func TestValidateLevel_Nil(t *testing.T) {
	if err := ValidateLevel(nil); err == nil {
		t.Error("Expected error for nil level")
	}
}

func TestValidateLevel_NoSafeCells(t *testing.T) {
	def := &LevelDefinition{
		Name:           "plain",
		Map:            "MMF",
		PlayerRespawns: []GridPoint{{0.5, 0.5}},
	}
	if err := ValidateLevel(def); err != nil {
		t.Errorf("Expected level without safe cells to be valid, got: %v", err)
	}
}

func TestLevelDefinition_Grid(t *testing.T) {
	def := &LevelDefinition{Layout: []string{"1M", "MF"}}
	if def.Grid() != "1M\nMF" {
		t.Errorf("Expected layout joined by newlines, got %q", def.Grid())
	}

	def.Map = "1F"
	if def.Grid() != "1F" {
		t.Errorf("Expected map to take precedence, got %q", def.Grid())
	}
}

func TestParseLevelDefinition(t *testing.T) {
	data := []byte(`{
		"name": "Parsed",
		"map": "1MM\nMMM\nMMF",
		"player_respawns": [[0.5, 0.5]],
		"coins": [[1.5, 1.5]],
		"enemies": [
			{"type": "linear", "checkpoints": [[0.5, 2.5], [2.5, 0.5]], "speed": 4},
			{"type": "radial", "origin": [1.5, 1.5], "radius": 1, "angle": 180}
		]
	}`)

	def, err := ParseLevelDefinition(data)
	if err != nil {
		t.Fatalf("ParseLevelDefinition failed: %v", err)
	}
	if def.Name != "Parsed" {
		t.Errorf("Expected name Parsed, got %q", def.Name)
	}
	if len(def.Coins) != 1 || def.Coins[0] != (GridPoint{1.5, 1.5}) {
		t.Errorf("Unexpected coins %+v", def.Coins)
	}
	if len(def.Enemies) != 2 || def.Enemies[0].Speed != 4 || def.Enemies[1].Angle != 180 {
		t.Errorf("Unexpected enemies %+v", def.Enemies)
	}
	if def.Enemies[1].Origin == nil || *def.Enemies[1].Origin != (GridPoint{1.5, 1.5}) {
		t.Errorf("Unexpected radial origin %+v", def.Enemies[1].Origin)
	}
}

func TestParseLevelDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"name": `},
		{"bad grid point", `{"name": "x", "map": "1F", "player_respawns": [[0.5]]}`},
		{"invalid level", `{"name": "x", "map": "1M", "player_respawns": [[0.5, 0.5]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevelDefinition([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("Expected error to wrap ErrInvalidLevel, got %v", err)
			}
		})
	}
}

func TestGridPointJSON(t *testing.T) {
	data, err := json.Marshal(GridPoint{Row: 1.5, Col: 2})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[1.5,2]" {
		t.Errorf("Expected [1.5,2], got %s", data)
	}

	var p GridPoint
	if err := json.Unmarshal([]byte("[3, 0.25]"), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p != (GridPoint{Row: 3, Col: 0.25}) {
		t.Errorf("Unexpected point %+v", p)
	}

	if err := json.Unmarshal([]byte("[1, 2, 3]"), &p); err == nil {
		t.Error("Expected error for three element point")
	}
}

func TestLoadLevelDefinition(t *testing.T) {
	tmpDir := t.TempDir()

	def := createValidLevel()
	data, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	path := filepath.Join(tmpDir, "test.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := LoadLevelDefinition(path)
	if err != nil {
		t.Fatalf("LoadLevelDefinition failed: %v", err)
	}
	if loaded.Name != def.Name {
		t.Errorf("Expected name %q, got %q", def.Name, loaded.Name)
	}

	if _, err := LoadLevelDefinition(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadLevelDefinition_LevelsDir(t *testing.T) {
	tmpDir := t.TempDir()

	data, _ := json.Marshal(createValidLevel())
	if err := os.WriteFile(filepath.Join(tmpDir, "custom.json"), data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv("LEVELS_DIR", tmpDir)
	if _, err := LoadLevelDefinition("levels/custom.json"); err != nil {
		t.Errorf("Expected levels/ path to resolve under LEVELS_DIR, got: %v", err)
	}
}
