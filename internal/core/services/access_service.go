package services

import (
	"context"
	"errors"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/pkg/circuitbreaker"

	"go.uber.org/zap"
)

// accessService is the access oracle. Every call hits the store so that
// permission changes made through the invitation flow apply mid-session.
// Store failures and an open circuit both resolve to AccessNone.
type accessService struct {
	boards  ports.BoardRepository
	collabs ports.CollaboratorRepository
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewAccessService(
	boards ports.BoardRepository,
	collabs ports.CollaboratorRepository,
	logger *zap.SugaredLogger,
) ports.AccessService {
	breaker := circuitbreaker.New(circuitbreaker.DefaultConfig())
	breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warnw("access oracle circuit state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})
	return &accessService{
		boards:  boards,
		collabs: collabs,
		breaker: breaker,
		logger:  logger,
	}
}

// ResolveAccess returns the caller's tier for a board. The board owner is
// always admin, a collaborator record decides otherwise, and absence of
// both resolves to none.
func (s *accessService) ResolveAccess(ctx context.Context, userID domain.UserID, boardID domain.BoardID) domain.AccessLevel {
	level := domain.AccessNone

	err := s.breaker.Execute(func() error {
		resolved, err := s.lookup(ctx, userID, boardID)
		if err != nil {
			return err
		}
		level = resolved
		return nil
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpen) {
			s.logger.Warnw("access check rejected by open circuit",
				"user_id", userID,
				"board_id", boardID,
			)
		} else {
			s.logger.Errorw("access check failed, resolving to none",
				"user_id", userID,
				"board_id", boardID,
				"error", err,
			)
		}
		return domain.AccessNone
	}

	return level
}

func (s *accessService) lookup(ctx context.Context, userID domain.UserID, boardID domain.BoardID) (domain.AccessLevel, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			return domain.AccessNone, nil
		}
		return domain.AccessNone, err
	}

	// Ownership wins over any collaborator record.
	if board.CreatedBy == userID {
		return domain.AccessAdmin, nil
	}

	collab, err := s.collabs.Get(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCollaboratorNotFound) {
			return domain.AccessNone, nil
		}
		return domain.AccessNone, err
	}

	if !collab.Access.Valid() {
		return domain.AccessNone, nil
	}
	return collab.Access, nil
}
