package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/platform/observability"
)

// Effect is an asynchronous action creator bound to its arguments.
type Effect func(ctx context.Context) error

// Runner starts effects on their own goroutines and tracks them until they finish.
type Runner struct {
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewRunner constructs a Runner. A nil logger disables failure logging.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Go runs effect in the background. Returned errors are logged at debug level, to the logger
// carried by ctx when there is one.
func (r *Runner) Go(ctx context.Context, name string, effect Effect) {
	if effect == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.FromContextOr(ctx, r.logger).With(zap.String("effect", name))
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		started := time.Now()
		if err := effect(ctx); err != nil {
			logger.Debug("effect finished with error", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
			return
		}
		logger.Debug("effect finished", zap.Duration("elapsed", time.Since(started)))
	}()
}

// Wait blocks until every started effect has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}
