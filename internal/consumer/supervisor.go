package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// minHealthyRun is the shortest run that resets the restart backoff
const minHealthyRun = time.Second

// RestartPolicy decides what happens after the consumer stops with an error.
// With Enabled false a failure is terminal and the process keeps serving a
// degraded health status.
type RestartPolicy struct {
	Enabled        bool
	InitialBackoff time.Duration
	// MaxBackoff caps the backoff, values below InitialBackoff are raised to it
	MaxBackoff time.Duration
	// MaxAttempts caps consecutive restarts, 0 means unlimited
	MaxAttempts int
}

// Supervisor runs a single consumer for the lifetime of the process
type Supervisor struct {
	runner Runner
	policy RestartPolicy
	log    *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewSupervisor creates a supervisor for runner
func NewSupervisor(runner Runner, policy RestartPolicy, log *zap.Logger) *Supervisor {
	return &Supervisor{
		runner: runner,
		policy: policy,
		log:    log,
	}
}

// Start launches the runner in the background. It must be called once.
func (s *Supervisor) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.supervise(ctx)
}

// Stop cancels the runner and waits for it to return. It is a no-op before Start.
func (s *Supervisor) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Wait blocks until the supervisor gives up or is stopped, and returns the
// last runner error if it gave up. It returns nil before Start.
func (s *Supervisor) Wait() error {
	if s.done == nil {
		return nil
	}
	<-s.done
	return s.err
}

// Done is closed once the supervisor has stopped
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) supervise(ctx context.Context) {
	defer close(s.done)

	backoff := s.policy.InitialBackoff
	maxBackoff := max(s.policy.MaxBackoff, s.policy.InitialBackoff)
	resetAfter := max(maxBackoff, minHealthyRun)
	attempts := 0

	for {
		started := time.Now()
		err := s.runner.Run(ctx)

		if ctx.Err() != nil {
			s.log.Info("Consumer supervisor stopped")
			return
		}
		if err == nil {
			s.log.Info("Consumer returned without error, not restarting")
			return
		}

		if !s.policy.Enabled {
			s.log.Error("Consumer stopped, restarts are disabled", zap.Error(err))
			s.err = err
			return
		}

		// a run that outlived the max backoff is not a consecutive failure
		if time.Since(started) > resetAfter {
			backoff = s.policy.InitialBackoff
			attempts = 0
		}

		attempts++
		if s.policy.MaxAttempts > 0 && attempts > s.policy.MaxAttempts {
			s.log.Error("Consumer restart attempts exhausted",
				zap.Int("attempts", attempts-1),
				zap.Error(err))
			s.err = err
			return
		}

		s.log.Warn("Consumer stopped, restarting",
			zap.Error(err),
			zap.Int("attempt", attempts),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			s.log.Info("Consumer supervisor stopped")
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}
