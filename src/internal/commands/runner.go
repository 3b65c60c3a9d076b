package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/log"
)

// RestartableRunner runs a function in its own goroutine and restarts it
// with exponential backoff when it fails or panics.
type RestartableRunner struct {
	name    string
	runFunc func(ctx context.Context) error
	cfg     RunnerConfig

	mu           sync.RWMutex
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
	lastError    error
	restartCount int
}

// RunnerConfig contains configuration for RestartableRunner.
type RunnerConfig struct {
	Name           string
	MaxRestarts    int           // 0 = unlimited restarts
	RestartBackoff time.Duration // Initial backoff (default: 1s)
	MaxBackoff     time.Duration // Max backoff (default: 30s)
	StopTimeout    time.Duration // Wait for runFunc on Stop (default: 30s)
}

func NewRestartableRunner(cfg RunnerConfig, runFunc func(ctx context.Context) error) *RestartableRunner {
	if cfg.RestartBackoff == 0 {
		cfg.RestartBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.StopTimeout == 0 {
		cfg.StopTimeout = 30 * time.Second
	}

	return &RestartableRunner{
		name:    cfg.Name,
		runFunc: runFunc,
		cfg:     cfg,
	}
}

func (r *RestartableRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("%s is already running", r.name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.restartCount = 0
	r.lastError = nil

	go r.runLoop(runCtx, r.done)

	return nil
}

// Stop cancels the runner and waits for the current run to return.
func (r *RestartableRunner) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()

	select {
	case <-done:
	case <-time.After(r.cfg.StopTimeout):
		return fmt.Errorf("%s: timeout waiting for stop", r.name)
	}
	return nil
}

// Done is closed when the runner gives up or is stopped. Nil before Start.
func (r *RestartableRunner) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

func (r *RestartableRunner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func (r *RestartableRunner) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastError
}

func (r *RestartableRunner) RestartCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.restartCount
}

func (r *RestartableRunner) runLoop(ctx context.Context, done chan struct{}) {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(done)
	}()

	backoff := r.cfg.RestartBackoff

	for {
		err := r.runWithRecovery(ctx)

		r.mu.Lock()
		r.lastError = err
		r.mu.Unlock()

		if err == nil {
			log.Infof("[%s] Exited cleanly", r.name)
			return
		}
		if ctx.Err() != nil {
			log.Infof("[%s] Stopped", r.name)
			return
		}

		r.mu.Lock()
		r.restartCount++
		restarts := r.restartCount
		r.mu.Unlock()

		if r.cfg.MaxRestarts > 0 && restarts >= r.cfg.MaxRestarts {
			log.Errorf("[%s] Max restarts (%d) reached, giving up. Last error: %v", r.name, r.cfg.MaxRestarts, err)
			return
		}

		log.Errorf("[%s] Crashed: %v. Restarting in %v (restart #%d)", r.name, err, backoff, restarts)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > r.cfg.MaxBackoff {
			backoff = r.cfg.MaxBackoff
		}
	}
}

func (r *RestartableRunner) runWithRecovery(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()

	return r.runFunc(ctx)
}
