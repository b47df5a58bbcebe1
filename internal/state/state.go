package state

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tr1v3r/pkg/log"

	"github.com/tr1v3r/mpvsub/internal/mpv"
	"github.com/tr1v3r/mpvsub/internal/subtitle"
)

// Session is what the companion server knows about the player: the loaded
// subtitle tracks and the mpv it forwards commands to.
type Session struct {
	ctx context.Context

	mu            sync.RWMutex
	subs          []subtitle.Subtitle
	secondarySubs []subtitle.Subtitle
	delay         int // ms

	ipc     *mpv.IPC
	process *mpv.Process
}

func New(ctx context.Context) *Session {
	return &Session{
		ctx:           ctx,
		subs:          []subtitle.Subtitle{},
		secondarySubs: []subtitle.Subtitle{},
	}
}

func (s *Session) Context() context.Context { return s.ctx }

// Attach points the session at an mpv IPC socket. A process, when given, is
// killed by Stop.
func (s *Session) Attach(ipc *mpv.IPC, process *mpv.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ipc = ipc
	s.process = process
}

// Forward passes one raw JSON IPC line to mpv.
func (s *Session) Forward(line []byte) (mpv.Response, error) {
	s.mu.RLock()
	ipc := s.ipc
	s.mu.RUnlock()

	if ipc == nil {
		return mpv.Response{}, fmt.Errorf("no mpv attached")
	}
	return ipc.SendRaw(line)
}

// ShowText puts an OSD message on the attached mpv, if any.
func (s *Session) ShowText(text string, seconds float64) {
	s.mu.RLock()
	ipc := s.ipc
	s.mu.RUnlock()

	if ipc == nil {
		return
	}
	if err := ipc.ShowText(text, seconds); err != nil {
		log.CtxDebug(s.ctx, "mpv show-text error: %v", err)
	}
}

func (s *Session) Subs() []subtitle.Subtitle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.subs)
}

func (s *Session) SecondarySubs() []subtitle.Subtitle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.secondarySubs)
}

func (s *Session) Delay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delay
}

// SetSubs replaces both tracks. A nil secondary track means none.
func (s *Session) SetSubs(subs, secondary []subtitle.Subtitle, delay int) {
	if subs == nil {
		subs = []subtitle.Subtitle{}
	}
	if secondary == nil {
		secondary = []subtitle.Subtitle{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = subs
	s.secondarySubs = secondary
	s.delay = delay
}

func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ipc != nil {
		if err := s.ipc.Close(); err != nil {
			log.CtxInfo(s.ctx, "mpv ipc close error: %v", err)
		}
		s.ipc = nil
	}
	if s.process != nil {
		if err := s.process.Kill(); err != nil {
			log.CtxInfo(s.ctx, "mpv stop error: %v", err)
		}
		s.process = nil
	}
}
