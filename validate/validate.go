// Command validate checks the level files of a level directory. For each
// *.json file it reports:
//   - JSON structure and required fields
//   - Grid consistency and allowed cell codes (' ', M, 1-5, F)
//   - Respawn points matching the safe ranks of the map
//   - Enemy descriptors (type, checkpoints, origin, radius)
//   - Connectivity: an end cell and every coin are reachable from the
//     first respawn point; later respawn points that cannot be reached
//     only produce a warning
//
// It exits with a non-zero status if any level is invalid.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/squaredash/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds the summary lines of a valid level and Warnings holds
// problems that do not make the level unplayable.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateLevel loads and validates a single level file
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	def, err := engine.ParseLevelDefinition(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	m, err := engine.NewMap(def.Grid())
	if err != nil {
		result.fail("%v", err)
		return result
	}

	connectivity := validateConnectivity(def, m)
	result.Warnings = append(result.Warnings, connectivity.Warnings...)
	if !connectivity.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, connectivity.Errors...)
		return result
	}

	result.Warnings = append(result.Warnings, enemyWarnings(def, m)...)

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", def.Name),
		fmt.Sprintf("✓ Grid: %dx%d", m.Rows(), m.Cols()),
		fmt.Sprintf("✓ Walkable cells: %d", engine.CountWalkable(m)),
		fmt.Sprintf("✓ Checkpoints: %d", len(m.SafeRanks())),
		fmt.Sprintf("✓ End cells: %d", engine.CountCellKind(m, engine.End)),
		fmt.Sprintf("✓ Coins: %d", len(def.Coins)),
		fmt.Sprintf("✓ Enemies: %d", len(def.Enemies)),
	)
	result.Info = append(result.Info, connectivity.Info...)

	return result
}

// validateConnectivity checks that the level can be finished from the
// first respawn point: some end cell and every coin must be reachable.
// Unreachable checkpoints only warn.
func validateConnectivity(def *engine.LevelDefinition, m *engine.Map) ValidationResult {
	result := ValidationResult{Valid: true}

	start := m.ToGrid(m.ToContinuous(def.PlayerRespawns[0]))
	dist := engine.CellDistances(m, start)

	nearestEnd := -1
	for c, d := range dist {
		if m.Classify(c.Row, c.Col).Kind == engine.End && (nearestEnd < 0 || d < nearestEnd) {
			nearestEnd = d
		}
	}
	if nearestEnd < 0 {
		result.fail("Connectivity failure: no end cell reachable from respawn point 1")
	}

	for i, p := range def.Coins {
		c := m.ToGrid(m.ToContinuous(p))
		if _, ok := dist[c]; !ok {
			result.fail("Unreachable: coin %d at [%g, %g]", i+1, p.Row, p.Col)
		}
	}

	for i, p := range def.PlayerRespawns {
		c := m.ToGrid(m.ToContinuous(p))
		if _, ok := dist[c]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Respawn point %d at [%g, %g] cannot be reached from respawn point 1", i+1, p.Row, p.Col))
		}
	}

	if result.Valid {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Connectivity: end reachable in %d cells, all %d coins reachable", nearestEnd, len(def.Coins)))
	}
	return result
}

// enemyWarnings flags enemies that can never touch the player
func enemyWarnings(def *engine.LevelDefinition, m *engine.Map) []string {
	var warnings []string
	width, height := float64(m.Cols())*engine.CellSize, float64(m.Rows())*engine.CellSize
	inside := func(v engine.Vec) bool {
		return v.X >= 0 && v.Y >= 0 && v.X <= width && v.Y <= height
	}

	for i, e := range def.Enemies {
		switch e.Type {
		case engine.LinearKind:
			for j, p := range e.Checkpoints {
				if !inside(m.ToContinuous(p)) {
					warnings = append(warnings, fmt.Sprintf("Enemy %d checkpoint %d at [%g, %g] is off the grid", i+1, j+1, p.Row, p.Col))
				}
			}
		case engine.RadialKind:
			if !inside(m.ToContinuous(*e.Origin)) {
				warnings = append(warnings, fmt.Sprintf("Enemy %d origin [%g, %g] is off the grid", i+1, e.Origin.Row, e.Origin.Col))
			}
		}
	}
	return warnings
}

// printResult writes a concise report for one file
func printResult(result ValidationResult, quiet bool) {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		if !quiet {
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
		}
	} else {
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors {
			fmt.Println("  ❌ " + err)
		}
	}
	for _, w := range result.Warnings {
		fmt.Println("  ⚠️  " + w)
	}
}

// levelFiles resolves the files to check: explicit paths when given,
// otherwise every *.json file of dir.
func levelFiles(dir string, paths []string) ([]string, error) {
	if len(paths) > 0 {
		return paths, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding level files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no level files found in %s", dir)
	}
	return files, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check Square Dash level files",
		ArgsUsage: "[level.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "levels",
				Usage:   "level directory scanned when no files are given",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only print problems",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := levelFiles(cmd.String("dir"), cmd.Args().Slice())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			allValid := true
			for _, file := range files {
				result := validateLevel(file)
				printResult(result, cmd.Bool("quiet"))
				allValid = allValid && result.Valid
			}

			fmt.Printf("\n%s\n", strings.Repeat("=", 40))
			if !allValid {
				return cli.Exit("❌ Some levels have errors", 1)
			}
			fmt.Println("✅ All levels are valid!")
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
