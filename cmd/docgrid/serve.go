package main

import (
	"fmt"

	docgridhttp "github.com/fwojciec/docgrid/http"
)

// Run executes the serve command. It blocks until the context is
// cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := docgridhttp.NewServer()
	srv.Addr = c.Addr
	srv.ExtractService = deps.Extractor
	srv.MacroService = deps.Macros

	if err := srv.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Close()

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.URL())

	<-deps.Ctx.Done()
	fmt.Fprintln(deps.Stdout, "Shutting down")
	return nil
}
