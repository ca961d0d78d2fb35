// Package sweepers holds background maintenance loops.
package sweepers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfmirror/inventory-service/internal/reconcile"
)

// SessionSweeper periodically drops abandoned reconciliation sessions.
type SessionSweeper struct {
	sessions *reconcile.SessionManager
	logger   *zerolog.Logger
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

// NewSessionSweeper creates a sweeper over the live session set.
func NewSessionSweeper(sessions *reconcile.SessionManager, logger *zerolog.Logger, interval, maxAge time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		logger:   logger,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (s *SessionSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("maxAge", s.maxAge).
		Msg("Starting session sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Session sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Session sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if removed := s.sessions.Sweep(s.maxAge); removed > 0 {
				s.logger.Info().Int("removed", removed).Msg("Swept stale reconciliation sessions")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *SessionSweeper) Stop() {
	close(s.stopChan)
}
