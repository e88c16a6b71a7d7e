// Command analyze prints quick, human-readable statistics about the level
// files of a level directory: dimensions, walkable area, checkpoints,
// merged wall edges, coins, enemies by kind and the shortest route from
// the first respawn point to an end cell.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/squaredash/game/engine"
)

// framesPerCell is how many frames of straight movement cross one cell
var framesPerCell = int(math.Ceil(engine.CellSize / engine.PlayerSpeed))

// LevelStats summarizes one level
type LevelStats struct {
	Name        string
	Rows, Cols  int
	Walkable    int
	Checkpoints int
	EndCells    int
	Edges       int
	WallLength  int
	Coins       int
	Linear      int
	Radial      int

	// Cells on the shortest side-adjacent route from respawn point 1 to
	// an end cell, -1 when none is reachable
	RouteCells  int
	Unreachable int
}

// RouteFrames estimates the frames needed to walk the shortest route
func (s *LevelStats) RouteFrames() int {
	if s.RouteCells < 0 {
		return -1
	}
	return s.RouteCells * framesPerCell
}

// analyzeLevel loads a level file and computes its statistics
func analyzeLevel(path string) (*LevelStats, error) {
	def, err := engine.LoadLevelDefinition(path)
	if err != nil {
		return nil, err
	}

	m, err := engine.NewMap(def.Grid())
	if err != nil {
		return nil, err
	}

	stats := &LevelStats{
		Name:        def.Name,
		Rows:        m.Rows(),
		Cols:        m.Cols(),
		Walkable:    engine.CountWalkable(m),
		Checkpoints: len(m.SafeRanks()),
		EndCells:    engine.CountCellKind(m, engine.End),
		Coins:       len(def.Coins),
		RouteCells:  -1,
	}

	for _, e := range m.Edges() {
		stats.Edges++
		stats.WallLength += e.Length()
	}

	for _, e := range def.Enemies {
		switch e.Type {
		case engine.LinearKind:
			stats.Linear++
		case engine.RadialKind:
			stats.Radial++
		}
	}

	start := m.ToGrid(m.ToContinuous(def.PlayerRespawns[0]))
	dist := engine.CellDistances(m, start)
	for c, d := range dist {
		if m.Classify(c.Row, c.Col).Kind == engine.End && (stats.RouteCells < 0 || d < stats.RouteCells) {
			stats.RouteCells = d
		}
	}
	stats.Unreachable = stats.Walkable - len(dist)

	return stats, nil
}

// printStats writes the report for one level
func printStats(w io.Writer, s *LevelStats) {
	fmt.Fprintf(w, "Name: %s\n", s.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", s.Rows, s.Cols)
	fmt.Fprintf(w, "Walkable Cells: %d\n", s.Walkable)
	fmt.Fprintf(w, "Checkpoints: %d\n", s.Checkpoints)
	fmt.Fprintf(w, "End Cells: %d\n", s.EndCells)
	fmt.Fprintf(w, "Wall Edges: %d (total length %d cells)\n", s.Edges, s.WallLength)
	fmt.Fprintf(w, "Coins: %d\n", s.Coins)
	fmt.Fprintf(w, "Enemies: %d linear, %d radial\n", s.Linear, s.Radial)

	if s.RouteCells < 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: no end cell is reachable from the first respawn point\n")
	} else {
		fmt.Fprintf(w, "Shortest Route: %d cells (~%d frames)\n", s.RouteCells, s.RouteFrames())
	}

	if s.Unreachable > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d walkable cells are unreachable from the first respawn point\n", s.Unreachable)
	} else {
		fmt.Fprintf(w, "✅ All walkable cells are reachable\n")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "print statistics for Square Dash levels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "levels",
				Usage:   "directory containing level files",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return cli.Exit(fmt.Sprintf("no level files in %s", cmd.String("dir")), 1)
			}

			w := cmd.Root().Writer
			for _, file := range files {
				fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
				stats, err := analyzeLevel(file)
				if err != nil {
					fmt.Fprintf(w, "Error: %v\n", err)
					continue
				}
				printStats(w, stats)
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
