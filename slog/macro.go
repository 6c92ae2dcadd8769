package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrid"
)

// Ensure LoggingMacroService implements docgrid.MacroService.
var _ docgrid.MacroService = (*LoggingMacroService)(nil)

// LoggingMacroService wraps a MacroService with operational logging.
type LoggingMacroService struct {
	next   docgrid.MacroService
	logger *slog.Logger
}

// NewLoggingMacroService creates a new LoggingMacroService.
func NewLoggingMacroService(next docgrid.MacroService, logger *slog.Logger) *LoggingMacroService {
	return &LoggingMacroService{next: next, logger: logger}
}

// SaveMacro delegates to the wrapped service and logs the operation.
func (s *LoggingMacroService) SaveMacro(ctx context.Context, m *docgrid.Macro) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("macro save",
			"name", m.Name,
			"events", len(m.Events),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveMacro(ctx, m)
}

// FindMacroByName delegates to the wrapped service and logs the operation.
func (s *LoggingMacroService) FindMacroByName(ctx context.Context, name string) (m *docgrid.Macro, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("macro lookup",
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindMacroByName(ctx, name)
}

// ListMacros delegates to the wrapped service and logs the operation.
func (s *LoggingMacroService) ListMacros(ctx context.Context) (macros []*docgrid.Macro, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("macro list",
			"count", len(macros),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListMacros(ctx)
}

// DeleteMacro delegates to the wrapped service and logs the operation.
func (s *LoggingMacroService) DeleteMacro(ctx context.Context, name string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("macro delete",
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteMacro(ctx, name)
}
