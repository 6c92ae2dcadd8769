package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/docgrid"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	cfg := docgrid.DefaultConfig()
	cfg.RobustParsing = c.Robust
	cfg.EnableAutoNamer = !c.NoNamer
	cfg.EnableValidator = !c.NoValidate

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if c.Interactive {
		// Terminal prompts cannot interleave across files.
		cfg.Decisions = newTerminalDecisions(deps.Stdin, deps.Stdout)
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(concurrency)
	for _, file := range c.Files {
		g.Go(func() error {
			return c.processFile(ctx, deps, file, cfg)
		})
	}
	return g.Wait()
}

func (c *ExtractCmd) processFile(ctx context.Context, deps *Dependencies, file string, cfg docgrid.Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	sess, err := deps.Extractor.Extract(ctx, data, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%s: %s\n", file, docgrid.ErrorMessage(err))
		return err
	}

	written, err := writeOutputs(deps, sess, file, c.Out, c.Format)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %d tables across %d pages -> %s\n",
		file, len(sess.ActiveTables()), sess.TotalPages(), strings.Join(written, ", "))
	return nil
}

// writeOutputs renders a session in the requested format and returns the
// paths written.
func writeOutputs(deps *Dependencies, sess *docgrid.Session, file, outDir, format string) ([]string, error) {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	switch format {
	case "xlsx":
		tables := sess.ActiveTables()
		if len(tables) == 0 {
			return nil, docgrid.Errorf(docgrid.EINVALID, "%s: no tables extracted", file)
		}
		path := filepath.Join(outDir, base+".xlsx")
		if err := deps.Exporter.Export(tables, path); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case "json":
		path := filepath.Join(outDir, base+".json")
		data, err := json.MarshalIndent(sess.Result(), "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
		return []string{path}, nil

	default: // csv
		var written []string
		for _, t := range sess.ActiveTables() {
			path := filepath.Join(outDir, fmt.Sprintf("%s_%d_%s.csv", base, t.Index, safeName(t.Name)))
			if err := os.WriteFile(path, []byte(docgrid.TableCSV(t)), 0644); err != nil {
				return nil, err
			}
			written = append(written, path)
		}
		if len(written) == 0 {
			return nil, docgrid.Errorf(docgrid.EINVALID, "%s: no tables extracted", file)
		}
		return written, nil
	}
}

// safeName reduces a table name to filesystem-safe characters.
func safeName(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	mapped = strings.Trim(mapped, "_")
	if mapped == "" {
		return "table"
	}
	return mapped
}
