// Package slog provides logging decorators for docgrid services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrid"
)

// Ensure LoggingExtractService implements docgrid.ExtractService.
var _ docgrid.ExtractService = (*LoggingExtractService)(nil)

// LoggingExtractService wraps an ExtractService with operational logging.
type LoggingExtractService struct {
	next   docgrid.ExtractService
	logger *slog.Logger
}

// NewLoggingExtractService creates a new LoggingExtractService.
func NewLoggingExtractService(next docgrid.ExtractService, logger *slog.Logger) *LoggingExtractService {
	return &LoggingExtractService{next: next, logger: logger}
}

// Extract delegates to the wrapped service and logs the operation.
func (s *LoggingExtractService) Extract(ctx context.Context, data []byte, cfg docgrid.Config) (sess *docgrid.Session, err error) {
	defer func(begin time.Time) {
		tables := 0
		if sess != nil {
			tables = len(sess.ActiveTables())
		}
		s.logger.Info("document extraction",
			"bytes", len(data),
			"robust", cfg.RobustParsing,
			"tables", tables,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, data, cfg)
}
