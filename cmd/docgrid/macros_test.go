package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docgrid"
	main "github.com/fwojciec/docgrid/cmd/docgrid"
	"github.com/fwojciec/docgrid/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(macros docgrid.MacroService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Macros: macros,
	}, stdout, stderr
}

func TestMacrosListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists macros with event counts", func(t *testing.T) {
		t.Parallel()

		macros := &mock.MacroService{
			ListMacrosFn: func(context.Context) ([]*docgrid.Macro, error) {
				return []*docgrid.Macro{
					{
						Name:      "cleanup",
						Events:    []docgrid.MacroEvent{{Action: docgrid.ActionRename}, {Action: docgrid.ActionFillDown}},
						CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		deps, stdout, _ := testDeps(macros)
		cmd := &main.MacrosListCmd{}
		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "cleanup")
		assert.Contains(t, out, "2 events")
	})

	t.Run("reports empty store", func(t *testing.T) {
		t.Parallel()

		macros := &mock.MacroService{
			ListMacrosFn: func(context.Context) ([]*docgrid.Macro, error) {
				return nil, nil
			},
		}

		deps, stdout, _ := testDeps(macros)
		cmd := &main.MacrosListCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No macros saved.")
	})
}

func TestMacrosShowCmd_Run(t *testing.T) {
	t.Parallel()

	macros := &mock.MacroService{
		FindMacroByNameFn: func(_ context.Context, name string) (*docgrid.Macro, error) {
			require.Equal(t, "cleanup", name)
			return &docgrid.Macro{
				Name: "cleanup",
				Events: []docgrid.MacroEvent{
					{Action: docgrid.ActionRename, Params: docgrid.MacroParams{TableIndex: 0, Value: "Fixed"}},
					{Action: docgrid.ActionMergeTables, Params: docgrid.MacroParams{Indices: []int{0, 1}}},
				},
				CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			}, nil
		},
	}

	deps, stdout, _ := testDeps(macros)
	cmd := &main.MacrosShowCmd{Name: "cleanup"}
	require.NoError(t, cmd.Run(deps))

	out := stdout.String()
	assert.Contains(t, out, "rename")
	assert.Contains(t, out, `value="Fixed"`)
	assert.Contains(t, out, "indices=[0 1]")
}

func TestMacrosDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes macro", func(t *testing.T) {
		t.Parallel()

		macros := &mock.MacroService{
			DeleteMacroFn: func(_ context.Context, name string) error {
				require.Equal(t, "cleanup", name)
				return nil
			},
		}

		deps, stdout, _ := testDeps(macros)
		cmd := &main.MacrosDeleteCmd{Name: "cleanup"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), `Deleted macro "cleanup"`)
	})

	t.Run("reports missing macro", func(t *testing.T) {
		t.Parallel()

		macros := &mock.MacroService{
			DeleteMacroFn: func(_ context.Context, name string) error {
				return docgrid.Errorf(docgrid.ENOTFOUND, "macro %q not found", name)
			},
		}

		deps, _, stderr := testDeps(macros)
		cmd := &main.MacrosDeleteCmd{Name: "missing"}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "not found")
	})
}
