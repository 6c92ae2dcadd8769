package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/docgrid"
)

var _ docgrid.DecisionProvider = (*terminalDecisions)(nil)

// terminalDecisions answers split confirmations by prompting on the
// terminal. EOF or a blank answer declines.
type terminalDecisions struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalDecisions(in io.Reader, out io.Writer) *terminalDecisions {
	return &terminalDecisions{in: bufio.NewReader(in), out: out}
}

func (d *terminalDecisions) ConfirmSplit(ctx context.Context, req docgrid.SplitRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(d.out, "\nTable #%d %q, row %d looks like two merged rows:\n", req.TableIndex, req.TableName, req.Row)
	for i, cell := range req.Preview {
		fmt.Fprintf(d.out, "  col %d: %s\n", i, strings.ReplaceAll(cell, "\n", " | "))
	}
	fmt.Fprint(d.out, "Split it? [y/N]: ")

	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
