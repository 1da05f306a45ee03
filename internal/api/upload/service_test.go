package upload

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/newthinker/fxagents/internal/config"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/metrics"
	"github.com/newthinker/fxagents/internal/storage/archive"
	"github.com/newthinker/fxagents/internal/trades"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = "date;min_points_gain;max_points_gain;min_points_stop;max_points_stop;min_result;max_result\n" +
	"2024-01-15;10;20;5;15;-50;100\n" +
	"2024-01-20;5;25;10;20;-100;-20\n" +
	"2024-02-05;15;30;5;10;20;150\n"

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestService_Accept(t *testing.T) {
	store := trades.NewStore()
	svc := NewService(store, zap.NewNop(), WithMetrics(metrics.NewRegistry()))

	ds, res, err := svc.Accept(httptest.NewRecorder(), multipartRequest(t, FormField, "results.csv", []byte(sampleCSV)))
	require.NoError(t, err)

	assert.Equal(t, ds.ID, res.ID)
	assert.Equal(t, "results.csv", res.Filename)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 7, res.Columns)
	assert.Equal(t, "semicolon", res.Separator)
	assert.Equal(t, "utf-8", res.Encoding)
	assert.Empty(t, res.ArchivePath)
	assert.Equal(t, 1, store.Len())
}

func TestService_Accept_Errors(t *testing.T) {
	svc := NewService(trades.NewStore(), zap.NewNop(), WithMaxBytes(64))

	t.Run("wrong field", func(t *testing.T) {
		_, _, err := svc.Accept(httptest.NewRecorder(), multipartRequest(t, "other", "results.csv", []byte(sampleCSV)))
		assert.True(t, errors.Is(err, core.ErrEmptyInput))
	})

	t.Run("no filename", func(t *testing.T) {
		_, _, err := svc.Accept(httptest.NewRecorder(), multipartRequest(t, FormField, "", []byte("x")))
		assert.True(t, errors.Is(err, core.ErrEmptyInput))
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewBufferString("x"))
		_, _, err := svc.Accept(httptest.NewRecorder(), req)
		assert.True(t, errors.Is(err, core.ErrEmptyInput))
	})

	t.Run("too large", func(t *testing.T) {
		_, _, err := svc.Accept(httptest.NewRecorder(), multipartRequest(t, FormField, "results.csv", []byte(sampleCSV)))
		var tooLarge *http.MaxBytesError
		assert.True(t, errors.As(err, &tooLarge))
		assert.True(t, errors.Is(err, core.ErrUploadTooLarge))
		assert.Contains(t, err.Error(), "the limit is 64 bytes")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, _, err := svc.Accept(httptest.NewRecorder(), multipartRequest(t, FormField, "results.txt", []byte("a,b")))
		assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
	})
}

func TestService_Ingest_SchemaViolation(t *testing.T) {
	store := trades.NewStore()
	svc := NewService(store, zap.NewNop())

	_, _, err := svc.Ingest(context.Background(), "bad.csv", []byte("date,max_result\n2024-01-01,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSchemaViolation))
	assert.Contains(t, trades.MissingColumns(err), "min_points_gain")
	assert.Zero(t, store.Len())
}

func TestService_Ingest_Archives(t *testing.T) {
	dir := t.TempDir()
	a, err := archive.New(config.ArchiveConfig{Type: "localfs", Path: dir})
	require.NoError(t, err)

	svc := NewService(trades.NewStore(), zap.NewNop(), WithArchive(a))
	_, res, err := svc.Ingest(context.Background(), "results.csv", []byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, archive.UploadPath(res.ID, "results.csv"), res.ArchivePath)
	raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.ArchivePath)))
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(raw))

	archived, err := svc.Archived(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{res.ArchivePath}, archived)
}

func TestService_Archived_Disabled(t *testing.T) {
	svc := NewService(trades.NewStore(), zap.NewNop())
	archived, err := svc.Archived(context.Background())
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestService_Charts(t *testing.T) {
	svc := NewService(trades.NewStore(), zap.NewNop(), WithMetrics(metrics.NewRegistry()))
	_, res, err := svc.Ingest(context.Background(), "results.csv", []byte(sampleCSV))
	require.NoError(t, err)

	data, err := svc.Charts(context.Background(), res.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, data.TotalRecords)
	assert.Equal(t, []float64{100, 80, 230}, data.History.Cumulative)

	data, err = svc.Charts(context.Background(), res.ID, "2024-02-01", "")
	require.NoError(t, err)
	assert.Equal(t, 1, data.TotalRecords)

	_, err = svc.Charts(context.Background(), "data_missing", "", "")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	_, err = svc.Charts(context.Background(), res.ID, "not-a-date", "")
	assert.True(t, errors.Is(err, core.ErrParseFailure))
}
