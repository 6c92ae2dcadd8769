package main

import (
	"context"
	"io"

	"github.com/fwojciec/docgrid"
	"github.com/fwojciec/docgrid/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Extractor docgrid.ExtractService
	Macros    docgrid.MacroService
	Exporter  docgrid.Exporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract ExtractCmd `cmd:"" help:"Extract tables from .docx files"`
	Serve   ServeCmd   `cmd:"" help:"Run the extraction HTTP server"`
	Macros  MacrosCmd  `cmd:"" help:"Manage saved macros"`
	Replay  ReplayCmd  `cmd:"" help:"Apply a saved macro to a fresh extraction"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Files       []string `arg:"" type:"existingfile" help:"Input .docx files"`
	Out         string   `short:"o" default:"." type:"existingdir" help:"Output directory"`
	Format      string   `short:"f" default:"csv" enum:"csv,xlsx,json" help:"Output format"`
	Robust      bool     `help:"Use coordinate-based grid extraction for merged-cell-heavy documents"`
	NoNamer     bool     `help:"Disable contextual table naming"`
	NoValidate  bool     `help:"Disable the correction rule pipeline"`
	Interactive bool     `short:"i" help:"Confirm merged-row splits on the terminal"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent file limit"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Bind address"`
}

// MacrosCmd groups the macro management subcommands.
type MacrosCmd struct {
	List   MacrosListCmd   `cmd:"" default:"1" help:"List saved macros"`
	Show   MacrosShowCmd   `cmd:"" help:"Show a macro's event log"`
	Delete MacrosDeleteCmd `cmd:"" help:"Delete a saved macro"`
}

// MacrosListCmd is the "macros list" subcommand.
type MacrosListCmd struct{}

// MacrosShowCmd is the "macros show" subcommand.
type MacrosShowCmd struct {
	Name string `arg:"" help:"Macro name"`
}

// MacrosDeleteCmd is the "macros delete" subcommand.
type MacrosDeleteCmd struct {
	Name string `arg:"" help:"Macro name"`
}

// ReplayCmd is the "replay" subcommand.
type ReplayCmd struct {
	File     string `arg:"" type:"existingfile" help:"Input .docx file"`
	Macro    string `arg:"" help:"Saved macro name"`
	Out      string `short:"o" default:"." type:"existingdir" help:"Output directory"`
	Format   string `short:"f" default:"csv" enum:"csv,xlsx,json" help:"Output format"`
	Robust   bool   `help:"Use coordinate-based grid extraction"`
	SettleMs int    `default:"0" help:"Pause between replayed steps in milliseconds"`
}
