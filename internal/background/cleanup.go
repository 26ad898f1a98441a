package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/precure-app/precure-api/internal/repositories"
)

// CleanupManager periodically prunes blacklist entries whose tokens have
// outlived the token lifetime and so can no longer pass verification anyway.
type CleanupManager struct {
	revokeRepo    *repositories.RevokedTokenRepository
	logger        *slog.Logger
	interval      time.Duration
	tokenLifetime time.Duration
	stopCh        chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	revokeRepo *repositories.RevokedTokenRepository,
	logger *slog.Logger,
	interval time.Duration,
	tokenLifetime time.Duration,
) *CleanupManager {
	return &CleanupManager{
		revokeRepo:    revokeRepo,
		logger:        logger,
		interval:      interval,
		tokenLifetime: tokenLifetime,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup deletes blacklist entries older than the token lifetime. Any
// token blacklisted that long ago has expired on its own.
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cm.logger.Info("starting revoked token cleanup")

	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-cm.tokenLifetime)
	rowsDeleted, err := cm.revokeRepo.DeleteOlderThan(cleanupCtx, cutoff)
	if err != nil {
		cm.logger.Error("failed to cleanup revoked tokens", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("revoked token cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
