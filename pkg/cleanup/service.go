// Package cleanup provides data retention enforcement.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/services"
)

// Service periodically enforces retention policies:
//   - Deletes terminal tasks past the retention window (events cascade)
//   - Removes event rows of terminal tasks past their TTL
//
// All operations are idempotent and safe to run from multiple pods.
type Service struct {
	config       *config.RetentionConfig
	eventService *services.EventService

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg *config.RetentionConfig, eventService *services.EventService) *Service {
	return &Service{
		config:       cfg,
		eventService: eventService,
	}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"task_retention_days", s.config.TaskRetentionDays,
		"event_ttl", s.config.EventTTL,
		"interval", s.config.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runAll(ctx)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Service) runAll(ctx context.Context) {
	s.deleteOldTasks(ctx)
	s.cleanupEvents(ctx)
}

func (s *Service) deleteOldTasks(ctx context.Context) {
	count, err := s.eventService.DeleteOldTasks(ctx, s.config.TaskRetentionDays)
	if err != nil {
		slog.Error("Retention: delete old tasks failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: deleted old tasks", "count", count)
	}
}

func (s *Service) cleanupEvents(ctx context.Context) {
	count, err := s.eventService.CleanupTerminalTaskEvents(ctx, s.config.EventTTL)
	if err != nil {
		slog.Error("Retention: event cleanup failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: cleaned up terminal task events", "count", count)
	}
}
