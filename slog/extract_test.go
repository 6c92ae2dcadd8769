package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docgrid"
	"github.com/fwojciec/docgrid/mock"
	docslog "github.com/fwojciec/docgrid/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractService_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs extraction with table count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ExtractService{
			ExtractFn: func(ctx context.Context, data []byte, cfg docgrid.Config) (*docgrid.Session, error) {
				s := docgrid.NewSession()
				s.AddTable(&docgrid.Table{Name: "One", Headers: []string{"A"}})
				s.AddTable(&docgrid.Table{Name: "Two", Headers: []string{"B"}})
				return s, nil
			},
		}

		svc := docslog.NewLoggingExtractService(inner, logger)
		sess, err := svc.Extract(context.Background(), []byte("payload"), docgrid.DefaultConfig())

		require.NoError(t, err)
		assert.Len(t, sess.ActiveTables(), 2)
		output := buf.String()
		assert.Contains(t, output, "document extraction")
		assert.Contains(t, output, "bytes=7")
		assert.Contains(t, output, "tables=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ExtractService{
			ExtractFn: func(ctx context.Context, data []byte, cfg docgrid.Config) (*docgrid.Session, error) {
				return nil, docgrid.Errorf(docgrid.EBADARCHIVE, "not a zip archive")
			},
		}

		svc := docslog.NewLoggingExtractService(inner, logger)
		_, err := svc.Extract(context.Background(), []byte("junk"), docgrid.DefaultConfig())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "document extraction")
		assert.Contains(t, output, "tables=0")
		assert.Contains(t, output, "not a zip archive")
	})
}
