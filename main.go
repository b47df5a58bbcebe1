package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tr1v3r/pkg/log"
	"github.com/urfave/cli/v3"

	"github.com/tr1v3r/mpvsub/internal/config"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newApp(cfg).Run(ctx, os.Args)
	stop()

	if err != nil {
		log.Error("%v", err)
		log.Close()
		os.Exit(1)
	}
	log.Close()
}

func newApp(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mpvsub",
		Usage: "subtitle companion for mpv: serve cues to a browser and remote-control the player",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "debug logging"},
			&cli.StringFlag{Name: "base-url", Value: cfg.BaseURL, Usage: "companion server the client commands talk to"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCommand(cfg),
			controlCommand(),
			subsCommand(),
		},
	}
}
