package docgrid_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partsTable() *docgrid.Table {
	return &docgrid.Table{
		Name:    "Parts",
		Headers: []string{"Part", "Qty"},
		DataRows: [][]string{
			{"Pipe", "4"},
			{"Valve", "2"},
		},
	}
}

func TestSession_Recording(t *testing.T) {
	t.Parallel()

	t.Run("captures mutations between start and stop", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())

		s.Rename(0, "ignored") // before recording
		s.StartRecording()
		assert.True(t, s.Recording())

		s.Rename(0, "Fittings")
		s.UpdateHeader(0, 1, "Count")
		s.DeleteRow(0, 1)
		s.StopRecording()
		assert.False(t, s.Recording())

		// Mutations after stop are not captured.
		s.Rename(0, "After")

		events := s.Events()
		require.Len(t, events, 3)
		assert.Equal(t, docgrid.MacroEvent{
			Action: docgrid.ActionRename,
			Params: docgrid.MacroParams{TableIndex: 0, Value: "Fittings"},
		}, events[0])
		assert.Equal(t, docgrid.MacroEvent{
			Action: docgrid.ActionUpdateHeader,
			Params: docgrid.MacroParams{TableIndex: 0, Col: 1, Value: "Count"},
		}, events[1])
		assert.Equal(t, docgrid.MacroEvent{
			Action: docgrid.ActionDeleteRow,
			Params: docgrid.MacroParams{TableIndex: 0, Row: 1},
		}, events[2])
	})

	t.Run("restarting clears the previous log", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())

		s.StartRecording()
		s.Rename(0, "First")
		s.StopRecording()

		s.StartRecording()
		s.Approve(0)
		s.StopRecording()

		events := s.Events()
		require.Len(t, events, 1)
		assert.Equal(t, docgrid.ActionApprove, events[0].Action)
	})

	t.Run("silent no-ops record nothing", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())

		s.StartRecording()
		s.Rename(7, "Missing")
		s.DeleteRow(0, 99)
		s.StopRecording()

		assert.Empty(t, s.Events())
	})

	t.Run("merge records sorted indices", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())
		s.AddTable(partsTable())

		s.StartRecording()
		_, err := s.MergeTables([]int{1, 0})
		require.NoError(t, err)
		s.StopRecording()

		events := s.Events()
		require.Len(t, events, 1)
		assert.Equal(t, docgrid.ActionMergeTables, events[0].Action)
		assert.Equal(t, []int{0, 1}, events[0].Params.Indices)
	})
}

func TestSession_Replay(t *testing.T) {
	t.Parallel()

	t.Run("reproduces the recorded state on a fresh session", func(t *testing.T) {
		t.Parallel()

		recorded := docgrid.NewSession()
		recorded.AddTable(partsTable())
		recorded.StartRecording()
		recorded.Rename(0, "Fittings")
		recorded.UpdateHeader(0, 1, "Count")
		recorded.DeleteRow(0, 0)
		recorded.AddNameColumn(0)
		recorded.StopRecording()

		fresh := docgrid.NewSession()
		fresh.AddTable(partsTable())
		res := fresh.Replay(context.Background(), recorded.Events(), 0)

		assert.Equal(t, 4, res.Steps)
		assert.Equal(t, 4, res.Applied)
		assert.Zero(t, res.Failed)
		assert.Empty(t, res.Errors)
		assert.Equal(t, recorded.Table(0).Fingerprint(), fresh.Table(0).Fingerprint())
	})

	t.Run("continues past failing steps", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())
		s.AddTable(&docgrid.Table{
			Name:     "Narrow",
			Headers:  []string{"Only"},
			DataRows: [][]string{{"x"}},
		})

		events := []docgrid.MacroEvent{
			{Action: docgrid.ActionRename, Params: docgrid.MacroParams{TableIndex: 0, Value: "Fittings"}},
			{Action: docgrid.ActionMergeTables, Params: docgrid.MacroParams{Indices: []int{0, 1}}},
			{Action: "teleport", Params: docgrid.MacroParams{TableIndex: 0}},
			{Action: docgrid.ActionApprove, Params: docgrid.MacroParams{TableIndex: 0}},
		}
		res := s.Replay(context.Background(), events, 0)

		assert.Equal(t, 4, res.Steps)
		assert.Equal(t, 2, res.Applied)
		assert.Equal(t, 2, res.Failed)
		require.Len(t, res.Errors, 2)

		// The rename and the approval still landed.
		assert.Equal(t, "Fittings", s.Table(0).Name)
		assert.Equal(t, docgrid.ConfidenceUser, s.Table(0).Confidence)
	})

	t.Run("settle pause honors cancellation", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		events := []docgrid.MacroEvent{
			{Action: docgrid.ActionRename, Params: docgrid.MacroParams{TableIndex: 0, Value: "First"}},
			{Action: docgrid.ActionRename, Params: docgrid.MacroParams{TableIndex: 0, Value: "Second"}},
		}
		res := s.Replay(ctx, events, time.Hour)

		// The first step runs before any pause; the second never does.
		assert.Equal(t, 1, res.Applied)
		assert.Equal(t, "First", s.Table(0).Name)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "context canceled")
	})

	t.Run("replaying the live log while recording terminates", func(t *testing.T) {
		t.Parallel()

		s := docgrid.NewSession()
		s.AddTable(partsTable())
		s.StartRecording()
		s.Rename(0, "Fittings")
		s.Approve(0)

		res := s.Replay(context.Background(), s.Events(), 0)

		assert.Equal(t, 2, res.Applied)
		// The replayed mutations were themselves recorded.
		assert.Len(t, s.Events(), 4)
	})
}
