package mock

import (
	"context"

	"github.com/fwojciec/docgrid"
)

var _ docgrid.DecisionProvider = (*DecisionProvider)(nil)

// DecisionProvider is a mock implementation of docgrid.DecisionProvider.
type DecisionProvider struct {
	ConfirmSplitFn func(ctx context.Context, req docgrid.SplitRequest) (bool, error)
}

func (p *DecisionProvider) ConfirmSplit(ctx context.Context, req docgrid.SplitRequest) (bool, error) {
	return p.ConfirmSplitFn(ctx, req)
}
