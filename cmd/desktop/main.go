// Command desktop plays a level pack in a native window. Arrow keys or
// WASD move, Escape pauses, R restarts the run and M mutes sound.
package main

import (
	"context"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/squaredash/audio"
	"github.com/wricardo/squaredash/game/config"
	"github.com/wricardo/squaredash/game/engine"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "desktop",
		Usage: "play a level pack in a desktop window",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "levels",
				Usage:   "directory containing level files",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.FloatFlag{
				Name:  "volume",
				Value: 0.5,
				Usage: "sound volume between 0 and 1",
			},
			&cli.BoolFlag{
				Name:  "mute",
				Usage: "start without sound",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			run, err := loadRun(cmd.String("dir"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			sounds := audio.NewPlayer(cmd.Float("volume"))
			if err := sounds.Initialize(); err != nil {
				log.Printf("Warning: sound disabled: %v", err)
			}
			defer sounds.Close()

			game := NewGame(run, sounds)
			if cmd.Bool("mute") {
				game.muted = sounds.ToggleMute()
			}

			w, h := windowSize(run.World().Map)
			ebiten.SetWindowSize(w, h)
			ebiten.SetWindowTitle("Square Dash")

			return ebiten.RunGame(game)
		},
	}
}

// loadRun builds a run from every valid level in dir
func loadRun(dir string) (*engine.Run, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}

	pack, err := manager.Pack()
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d level(s) from %s", len(pack), dir)

	return engine.NewRun(pack)
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
