package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/docgrid"
)

// Run executes the replay command: a fresh extraction followed by a saved
// macro's event log.
func (c *ReplayCmd) Run(deps *Dependencies) error {
	m, err := deps.Macros.FindMacroByName(deps.Ctx, c.Macro)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrid.ErrorMessage(err))
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	cfg := docgrid.DefaultConfig()
	cfg.RobustParsing = c.Robust

	sess, err := deps.Extractor.Extract(deps.Ctx, data, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%s: %s\n", c.File, docgrid.ErrorMessage(err))
		return err
	}

	res := sess.Replay(deps.Ctx, m.Events, time.Duration(c.SettleMs)*time.Millisecond)
	fmt.Fprintf(deps.Stdout, "Replayed %q: %d/%d steps applied\n", m.Name, res.Applied, res.Steps)
	for _, e := range res.Errors {
		fmt.Fprintf(deps.Stderr, "  step failed: %s\n", e)
	}

	written, err := writeOutputs(deps, sess, c.File, c.Out, c.Format)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", strings.Join(written, ", "))
	return nil
}
