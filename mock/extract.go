package mock

import (
	"context"

	"github.com/fwojciec/docgrid"
)

var _ docgrid.ExtractService = (*ExtractService)(nil)

// ExtractService is a mock implementation of docgrid.ExtractService.
type ExtractService struct {
	ExtractFn func(ctx context.Context, data []byte, cfg docgrid.Config) (*docgrid.Session, error)
}

func (s *ExtractService) Extract(ctx context.Context, data []byte, cfg docgrid.Config) (*docgrid.Session, error) {
	return s.ExtractFn(ctx, data, cfg)
}
