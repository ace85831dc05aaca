package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Host owns at most one session at a time and enforces that a session is
// joined before the next one starts.
type Host struct {
	mu      sync.Mutex
	current *Session
}

// Start begins a new session. It fails with ErrShutdownRace while the
// previous session has not been joined.
func (h *Host) Start(ctx context.Context, opts StartOptions) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && !h.current.Joined() {
		return nil, ErrShutdownRace
	}
	s, err := Start(ctx, opts)
	if err != nil {
		return nil, err
	}
	h.current = s
	return s, nil
}

// Restart stops the current session, if any, and starts a new one.
func (h *Host) Restart(ctx context.Context, opts StartOptions) (*Session, error) {
	// a failed session is joined all the same
	if err := h.Stop(); err != nil {
		log.Warn().Err(err).Msg("previous session had failed")
	}
	return h.Start(ctx, opts)
}

// Stop tears down the current session and waits for it. It returns the
// session's failure, if any, and is a no-op without a session.
func (h *Host) Stop() error {
	h.mu.Lock()
	s := h.current
	h.mu.Unlock()
	if s == nil {
		return nil
	}

	err := s.Stop()

	h.mu.Lock()
	if h.current == s {
		h.current = nil
	}
	h.mu.Unlock()
	return err
}

// Current returns the running session or nil.
func (h *Host) Current() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
