package script

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler generates scripts on a timer, cycling through a fixed topic
// list. It runs until its context is cancelled.
type Scheduler struct {
	generator *Generator
	topics    []string
	interval  time.Duration
	logger    *slog.Logger

	next int
}

// NewScheduler creates a scheduler that generates one script per tick.
func NewScheduler(generator *Generator, topics []string, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		generator: generator,
		topics:    topics,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks, generating a script every interval until ctx is cancelled.
// Call it in its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.topics) == 0 || s.interval <= 0 {
		s.logger.Info("script scheduler disabled")
		return
	}

	s.logger.Info("script scheduler started",
		slog.Duration("interval", s.interval),
		slog.Int("topics", len(s.topics)),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("script scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick generates one script for the next topic in the rotation.
func (s *Scheduler) tick(ctx context.Context) {
	topic := s.topics[s.next%len(s.topics)]
	s.next++

	if _, err := s.generator.Generate(ctx, topic); err != nil {
		s.logger.Warn("scheduled generation failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}
