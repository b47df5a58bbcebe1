package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/tr1v3r/pkg/log"
	"github.com/urfave/cli/v3"

	"github.com/tr1v3r/mpvsub/internal/client"
	"github.com/tr1v3r/mpvsub/internal/config"
	"github.com/tr1v3r/mpvsub/internal/httpserver"
	"github.com/tr1v3r/mpvsub/internal/monitoring"
	"github.com/tr1v3r/mpvsub/internal/mpv"
	"github.com/tr1v3r/mpvsub/internal/netutil"
	"github.com/tr1v3r/mpvsub/internal/state"
	"github.com/tr1v3r/mpvsub/internal/subtitle"
)

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve subtitles and forward browser commands to mpv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: cfg.Host, Usage: "bind host"},
			&cli.IntFlag{Name: "port", Value: cfg.Port, Usage: "first port to try"},
			&cli.IntFlag{Name: "port-max", Value: cfg.PortMax, Usage: "last port to try"},
			&cli.StringFlag{Name: "sub", Usage: "primary subtitle file (srt, vtt)"},
			&cli.StringFlag{Name: "secondary-sub", Usage: "secondary subtitle file (srt, vtt)"},
			&cli.IntFlag{Name: "sub-delay", Usage: "subtitle delay in milliseconds"},
			&cli.BoolFlag{Name: "skip-empty-subs", Value: cfg.SkipEmptySubs, Usage: "drop cues without text"},
			&cli.StringFlag{Name: "media", Usage: "start mpv on this file"},
			&cli.StringFlag{Name: "mpv-path", Value: cfg.MPVPath, Usage: "mpv executable"},
			&cli.StringFlag{Name: "mpv-socket", Value: cfg.MPVSocket, Usage: "JSON IPC socket of a running mpv"},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	st := state.New(ctx)
	defer st.Stop()

	sock := cmd.String("mpv-socket")
	if media := cmd.String("media"); media != "" {
		if sock == "" {
			sock = mpv.NewSocketPath()
		}
		proc, err := mpv.Spawn(ctx, cmd.String("mpv-path"), sock, media)
		if err != nil {
			return err
		}
		log.Info("mpv started pid=%d socket=%s", proc.Pid(), sock)
		st.Attach(mpv.NewIPC(sock), proc)
	} else if sock != "" {
		st.Attach(mpv.NewIPC(sock), nil)
	}

	if err := loadTracks(st, cmd); err != nil {
		st.ShowText(err.Error(), 8)
		return err
	}

	host := cmd.String("host")
	ln, err := httpserver.Listen(host, cmd.Int("port"), cmd.Int("port-max"))
	if err != nil {
		return err
	}

	mux := httpserver.NewMux()
	httpserver.RegisterHTTP(mux, st)
	srv := &http.Server{Handler: httpserver.LogMiddleware(mux)}

	port := ln.Addr().(*net.TCPAddr).Port
	log.Info("HTTP listening on %s, open http://%s", ln.Addr(), net.JoinHostPort(netutil.BrowserHost(host), strconv.Itoa(port)))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP error: %w", err)
		}
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)

	monitoring.GetMetrics().LogMetrics()
	log.Info("bye")
	return nil
}

func loadTracks(st *state.Session, cmd *cli.Command) error {
	opts := subtitle.LoadOptions{
		Delay:     cmd.Int("sub-delay"),
		SkipEmpty: cmd.Bool("skip-empty-subs"),
	}

	var subs, secondary []subtitle.Subtitle
	if path := cmd.String("sub"); path != "" {
		var err error
		if subs, err = subtitle.Load(path, opts); err != nil {
			return err
		}
		monitoring.GetMetrics().RecordSubtitleLoad()
		log.Info("loaded %d cues from %s", len(subs), path)
	}
	if path := cmd.String("secondary-sub"); path != "" {
		var err error
		if secondary, err = subtitle.Load(path, opts); err != nil {
			return err
		}
		monitoring.GetMetrics().RecordSubtitleLoad()
		log.Info("loaded %d secondary cues from %s", len(secondary), path)
	}

	st.SetSubs(subs, secondary, opts.Delay)
	return nil
}

func controlCommand() *cli.Command {
	return &cli.Command{
		Name:      "control",
		Usage:     "send one command to the player through the companion server",
		ArgsUsage: "COMMAND [ARG...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("missing command")
			}
			c, err := client.New(cmd.String("base-url"))
			if err != nil {
				return err
			}
			c.MPVControl(ctx, cmd.Args().First(), parseArgs(cmd.Args().Tail())...)
			return nil
		},
	}
}

// parseArgs reads each argument as JSON when it is valid JSON, so "true" and
// "1.5" keep their types, and as a plain string otherwise.
func parseArgs(raw []string) []any {
	args := make([]any, 0, len(raw))
	for _, a := range raw {
		var v any
		if err := json.Unmarshal([]byte(a), &v); err == nil {
			args = append(args, v)
		} else {
			args = append(args, a)
		}
	}
	return args
}

func subsCommand() *cli.Command {
	return &cli.Command{
		Name:      "subs",
		Usage:     "fetch a subtitle list and print the cleaned cues as JSON",
		ArgsUsage: "[URL]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target := "./subs"
			if cmd.Args().Len() > 0 {
				target = cmd.Args().First()
			}
			c, err := client.New(cmd.String("base-url"))
			if err != nil {
				return err
			}
			subs, err := c.FetchStubs(ctx, target)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, subs)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
