package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"docapp/internal/domain/backend"
	"docapp/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Timeout of a single session check
const sessionCheckTimeout = 15 * time.Second

// SessionWatchService periodically asks the auth provider to re-check the
// current session. A provider that finds the session expired or revoked
// signs out, which reaches the session manager as an absent auth-state event.
type SessionWatchService struct {
	verifier backend.SessionVerifier
	log      *logrus.Logger
	metrics  metrics.Recorder
	cron     *cron.Cron
	spec     string

	running atomic.Bool
	stopped atomic.Bool
}

func NewSessionWatchService(
	verifier backend.SessionVerifier,
	spec string,
	recorder metrics.Recorder,
	log *logrus.Logger,
) *SessionWatchService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &SessionWatchService{
		verifier: verifier,
		log:      log,
		metrics:  recorder,
		cron:     cron.New(),
		spec:     spec,
	}
}

// Start schedules the check and starts the scheduler
func (s *SessionWatchService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.check); err != nil {
		return fmt.Errorf("invalid session check schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Infof("Session watch scheduled: %s", s.spec)
	return nil
}

// Stop halts the scheduler and waits for a running check. Safe to call
// multiple times.
func (s *SessionWatchService) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Session watch stopped")
}

// check runs one verification; overlapping runs are skipped
func (s *SessionWatchService) check() {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Debug("Session check still running, skipping")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), sessionCheckTimeout)
	defer cancel()

	err := s.verifier.VerifySession(ctx)
	s.metrics.RecordSessionOperation("verify", err)
	if err != nil {
		s.log.Warnf("Failed to verify session: %+v", err)
	}
}
