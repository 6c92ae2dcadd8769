package mock

import (
	"context"

	"github.com/fwojciec/docgrid"
)

var _ docgrid.MacroService = (*MacroService)(nil)

// MacroService is a mock implementation of docgrid.MacroService.
type MacroService struct {
	SaveMacroFn       func(ctx context.Context, m *docgrid.Macro) error
	FindMacroByNameFn func(ctx context.Context, name string) (*docgrid.Macro, error)
	ListMacrosFn      func(ctx context.Context) ([]*docgrid.Macro, error)
	DeleteMacroFn     func(ctx context.Context, name string) error
}

func (s *MacroService) SaveMacro(ctx context.Context, m *docgrid.Macro) error {
	return s.SaveMacroFn(ctx, m)
}

func (s *MacroService) FindMacroByName(ctx context.Context, name string) (*docgrid.Macro, error) {
	return s.FindMacroByNameFn(ctx, name)
}

func (s *MacroService) ListMacros(ctx context.Context) ([]*docgrid.Macro, error) {
	return s.ListMacrosFn(ctx)
}

func (s *MacroService) DeleteMacro(ctx context.Context, name string) error {
	return s.DeleteMacroFn(ctx, name)
}
