package mpv

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/tr1v3r/pkg/log"
)

// Process is an mpv instance started by Spawn.
type Process struct {
	cmd      *exec.Cmd
	sockPath string
}

// Spawn starts bin (normally "mpv") on media with its JSON IPC server listening
// on sockPath.
func Spawn(ctx context.Context, bin, sockPath, media string) (*Process, error) {
	if bin == "" {
		bin = "mpv"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("mpv not found: %w", err)
	}

	log.CtxDebug(ctx, "spawn mpv: bin=%s sock=%s media=%s", path, sockPath, media)
	cmd := exec.CommandContext(ctx, path,
		"--input-ipc-server="+sockPath,
		"--keep-open=yes",
		media)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}
	return &Process{cmd: cmd, sockPath: sockPath}, nil
}

func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Kill stops mpv and removes its socket file.
func (p *Process) Kill() error {
	var killErr error
	if err := p.cmd.Process.Kill(); err != nil && err != os.ErrProcessDone {
		killErr = fmt.Errorf("killing mpv: %w", err)
	}
	_ = p.cmd.Wait()

	if err := os.Remove(p.sockPath); err != nil && !os.IsNotExist(err) {
		if killErr != nil {
			return fmt.Errorf("multiple errors: %w, socket removal: %v", killErr, err)
		}
		return fmt.Errorf("removing socket file: %w", err)
	}
	return killErr
}
