package repositories

import (
	"context"

	"boardsync/internal/core/ports"
	"boardsync/internal/infrastructure/repositories/memory"
	"boardsync/internal/infrastructure/repositories/postgres"
	redisrepo "boardsync/internal/infrastructure/repositories/redis"
	"boardsync/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support. Preference
// order: postgres, then redis, then in-process memory. Notification and
// invitation records always live in postgres or memory; the redis backend
// only covers boards and collaborators.
type RepositoryFactory struct {
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.SugaredLogger

	memCollabs *memory.MemoryCollaboratorRepository
}

// NewRepositoryFactory connects to whichever backends the config enables,
// logging and falling back rather than failing the process.
func NewRepositoryFactory(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		logger:     logger,
		memCollabs: memory.NewMemoryCollaboratorRepository(),
	}

	if cfg.Postgres.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL, logger)
		if err != nil {
			logger.Warnw("failed to connect to postgres, falling back", "error", err)
		} else {
			factory.pgPool = pool
			logger.Info("using postgres repositories")
			return factory, nil
		}
	}

	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories", "error", err)
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
			return factory, nil
		}
	}

	logger.Info("using memory repositories")
	return factory, nil
}

func (f *RepositoryFactory) CreateBoardRepository() ports.BoardRepository {
	if f.pgPool != nil {
		return postgres.NewPostgresBoardRepository(f.pgPool)
	}
	if f.redisClient != nil {
		return redisrepo.NewRedisBoardRepository(f.redisClient)
	}
	return memory.NewMemoryBoardRepository(f.memCollabs)
}

func (f *RepositoryFactory) CreateCollaboratorRepository() ports.CollaboratorRepository {
	if f.pgPool != nil {
		return postgres.NewPostgresCollaboratorRepository(f.pgPool)
	}
	if f.redisClient != nil {
		return redisrepo.NewRedisCollaboratorRepository(f.redisClient)
	}
	return f.memCollabs
}

func (f *RepositoryFactory) CreateNotificationRepository() ports.NotificationRepository {
	if f.pgPool != nil {
		return postgres.NewPostgresNotificationRepository(f.pgPool)
	}
	return memory.NewMemoryNotificationRepository()
}

func (f *RepositoryFactory) CreateInvitationRepository() ports.InvitationRepository {
	if f.pgPool != nil {
		return postgres.NewPostgresInvitationRepository(f.pgPool)
	}
	return memory.NewMemoryInvitationRepository()
}

// UsingRemoteStore reports whether repositories talk to a network backend.
func (f *RepositoryFactory) UsingRemoteStore() bool {
	return f.pgPool != nil || f.redisClient != nil
}

// Close closes backend connections if used.
func (f *RepositoryFactory) Close() error {
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck pings whichever backend is active.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.pgPool != nil {
		return f.pgPool.Ping(ctx)
	}
	if f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
