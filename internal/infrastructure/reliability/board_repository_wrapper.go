package reliability

import (
	"context"
	"errors"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/pkg/circuitbreaker"
	"boardsync/pkg/retry"

	"go.uber.org/zap"
)

// BoardRepositoryWrapper wraps a BoardRepository with retry logic and a
// circuit breaker. Intended for the postgres and redis backends, where a
// flaky network link should not surface straight into request handlers.
// Reads are retried; writes pass through the breaker once, since a
// replayed write after an ambiguous failure can duplicate side effects.
type BoardRepositoryWrapper struct {
	repo   ports.BoardRepository
	logger *zap.SugaredLogger

	retryConfig    retry.Config
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewBoardRepositoryWrapper creates a new wrapper with retry and circuit breaker.
func NewBoardRepositoryWrapper(
	repo ports.BoardRepository,
	retryConfig retry.Config,
	cbConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *BoardRepositoryWrapper {
	wrapper := &BoardRepositoryWrapper{
		repo:           repo,
		logger:         logger,
		retryConfig:    retryConfig,
		circuitBreaker: circuitbreaker.New(cbConfig),
	}

	wrapper.circuitBreaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Infow("board store circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return wrapper
}

var _ ports.BoardRepository = (*BoardRepositoryWrapper)(nil)

// permanent reports whether retrying the operation cannot change the
// outcome.
func permanent(err error) bool {
	return errors.Is(err, domain.ErrBoardNotFound)
}

func (w *BoardRepositoryWrapper) Create(ctx context.Context, board *domain.Board) error {
	return w.circuitBreaker.Execute(func() error {
		return w.repo.Create(ctx, board)
	})
}

func (w *BoardRepositoryWrapper) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	return retry.RetryWithResult(ctx, w.retryConfig, func() (*domain.Board, error) {
		var board *domain.Board
		err := w.circuitBreaker.Execute(func() error {
			var innerErr error
			board, innerErr = w.repo.GetByID(ctx, id)
			return innerErr
		})
		if permanent(err) {
			// Not-found is an answer, not a fault; hand it straight back.
			return nil, retry.Permanent(err)
		}
		return board, err
	})
}

func (w *BoardRepositoryWrapper) Update(ctx context.Context, board *domain.Board) error {
	return w.circuitBreaker.Execute(func() error {
		return w.repo.Update(ctx, board)
	})
}

func (w *BoardRepositoryWrapper) Delete(ctx context.Context, id domain.BoardID) error {
	return w.circuitBreaker.Execute(func() error {
		return w.repo.Delete(ctx, id)
	})
}

func (w *BoardRepositoryWrapper) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	return retry.RetryWithResult(ctx, w.retryConfig, func() ([]*domain.Board, error) {
		var boards []*domain.Board
		err := w.circuitBreaker.Execute(func() error {
			var innerErr error
			boards, innerErr = w.repo.ListForUser(ctx, userID)
			return innerErr
		})
		return boards, err
	})
}
