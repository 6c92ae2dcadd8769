package main

import (
	"fmt"

	"github.com/fwojciec/docgrid"
)

// Run executes the "macros list" command.
func (c *MacrosListCmd) Run(deps *Dependencies) error {
	macros, err := deps.Macros.ListMacros(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrid.ErrorMessage(err))
		return err
	}

	if len(macros) == 0 {
		fmt.Fprintln(deps.Stdout, "No macros saved.")
		return nil
	}

	for _, m := range macros {
		fmt.Fprintf(deps.Stdout, "%s  %d events  %s\n", m.Name, len(m.Events), m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Run executes the "macros show" command.
func (c *MacrosShowCmd) Run(deps *Dependencies) error {
	m, err := deps.Macros.FindMacroByName(deps.Ctx, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrid.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (%d events, created %s)\n", m.Name, len(m.Events), m.CreatedAt.Format("2006-01-02 15:04"))
	for i, ev := range m.Events {
		fmt.Fprintf(deps.Stdout, "%3d. %s table=%d", i+1, ev.Action, ev.Params.TableIndex)
		if ev.Params.Value != "" {
			fmt.Fprintf(deps.Stdout, " value=%q", ev.Params.Value)
		}
		if len(ev.Params.Indices) > 0 {
			fmt.Fprintf(deps.Stdout, " indices=%v", ev.Params.Indices)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

// Run executes the "macros delete" command.
func (c *MacrosDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Macros.DeleteMacro(deps.Ctx, c.Name); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrid.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted macro %q\n", c.Name)
	return nil
}
