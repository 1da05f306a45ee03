// Package upload accepts trade-result files over HTTP, stores the parsed datasets and
// answers chart queries against them.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/newthinker/fxagents/internal/analytics"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/metrics"
	"github.com/newthinker/fxagents/internal/storage/archive"
	"github.com/newthinker/fxagents/internal/trace"
	"github.com/newthinker/fxagents/internal/trades"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FormField is the multipart field carrying the file
const FormField = "file"

// DefaultMaxBytes caps an upload when no limit is configured
const DefaultMaxBytes = 10 << 20

// Result summarises an accepted upload
type Result struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	Separator   string `json:"separator"`
	Encoding    string `json:"encoding,omitempty"`
	ArchivePath string `json:"archive_path,omitempty"`
}

// Service ties ingestion, the dataset store and the optional raw-file archive together
type Service struct {
	store    *trades.Store
	archive  *archive.Archiver
	metrics  *metrics.Registry
	logger   *zap.Logger
	maxBytes int64
}

// Option configures a Service
type Option func(*Service)

// WithArchive keeps a copy of each raw upload
func WithArchive(a *archive.Archiver) Option {
	return func(s *Service) { s.archive = a }
}

// WithMetrics records uploads and aggregations in reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) { s.metrics = reg }
}

// WithMaxBytes limits the size of an uploaded file
func WithMaxBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// NewService creates an upload service backed by store
func NewService(store *trades.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   logger,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the dataset store
func (s *Service) Store() *trades.Store {
	return s.store
}

// Archived lists the archive paths of raw uploads, including those of earlier runs.
// Without an archive the list is empty.
func (s *Service) Archived(ctx context.Context) ([]string, error) {
	return s.archive.Uploads(ctx)
}

// Accept reads the multipart file field from r and ingests it.
func (s *Service) Accept(w http.ResponseWriter, r *http.Request) (*trades.Dataset, *Result, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+1<<20)
	filename, data, err := s.readFile(r)
	if err != nil {
		s.recordUpload(metrics.StatusError, 0)
		return nil, nil, err
	}
	return s.Ingest(r.Context(), filename, data)
}

// Ingest parses data, stores the dataset and archives the raw bytes when an archive is set.
// Archive failures are logged and never fail the upload.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) (*trades.Dataset, *Result, error) {
	ctx, span := trace.StartSpan(ctx, "upload.Ingest",
		attribute.String("filename", filename),
		attribute.Int("bytes", len(data)),
	)
	defer span.End()

	ds, err := trades.Ingest(filename, data)
	if err != nil {
		s.recordUpload(metrics.StatusError, 0)
		span.RecordError(err)
		s.logger.Info("upload rejected",
			zap.String("filename", filename),
			zap.Strings("missing_columns", trades.MissingColumns(err)),
			zap.Error(err),
		)
		return nil, nil, err
	}

	id := s.store.Put(ds)
	s.recordUpload(metrics.StatusOK, ds.Len())
	if s.metrics != nil {
		s.metrics.SetDatasetsStored(s.store.Len())
	}

	res := &Result{
		ID:        id,
		Filename:  ds.Filename,
		Rows:      ds.Len(),
		Columns:   ds.Columns(),
		Separator: ds.SeparatorLabel(),
		Encoding:  ds.Encoding,
	}

	if p, err := s.archive.Save(ctx, id, filename, data); err != nil {
		s.logger.Warn("archiving upload failed",
			zap.String("id", id),
			zap.String("archive", s.archive.Kind()),
			zap.Error(err),
		)
	} else {
		res.ArchivePath = p
	}

	s.logger.Info("upload stored",
		zap.String("id", id),
		zap.String("filename", ds.Filename),
		zap.String("format", ds.Format),
		zap.String("encoding", ds.Encoding),
		zap.String("separator", ds.Separator),
		zap.Int("rows", ds.Len()),
	)
	return ds, res, nil
}

// Report aggregates the dataset id over the inclusive date range [start, end].
// Empty bounds are open.
func (s *Service) Report(ctx context.Context, id, start, end string) (*analytics.Report, error) {
	ds, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	rng, err := analytics.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}

	_, span := trace.StartSpan(ctx, "analytics.Aggregate",
		attribute.String("dataset", id),
		attribute.Int("rows", ds.Len()),
	)
	defer span.End()

	report := analytics.Aggregate(ds.Rows, rng)
	if s.metrics != nil {
		s.metrics.RecordAggregation()
	}
	span.SetAttributes(attribute.Int("records", report.TotalRecords))
	return report, nil
}

// Charts returns the chart payload of dataset id over [start, end].
func (s *Service) Charts(ctx context.Context, id, start, end string) (*analytics.ChartData, error) {
	report, err := s.Report(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	data := report.ChartData()
	return &data, nil
}

func (s *Service) readFile(r *http.Request) (string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, core.WrapError(core.ErrEmptyInput, fmt.Errorf("expected a multipart upload: %w", err))
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", nil, s.tooLarge(err)
			}
			return "", nil, core.WrapError(core.ErrParseFailure, fmt.Errorf("reading multipart body: %w", err))
		}
		if part.FormName() != FormField {
			part.Close()
			continue
		}

		filename := part.FileName()
		data, err := io.ReadAll(io.LimitReader(part, s.maxBytes+1))
		part.Close()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", nil, s.tooLarge(err)
			}
			return "", nil, core.WrapError(core.ErrParseFailure, fmt.Errorf("reading file: %w", err))
		}
		if int64(len(data)) > s.maxBytes {
			return "", nil, s.tooLarge(&http.MaxBytesError{Limit: s.maxBytes})
		}
		if filename == "" {
			break
		}
		return filename, data, nil
	}
	return "", nil, core.WrapError(core.ErrEmptyInput, errors.New("no file selected"))
}

// tooLarge classifies a size-limit failure, reporting the configured file limit.
func (s *Service) tooLarge(cause error) error {
	return core.WrapError(core.ErrUploadTooLarge,
		fmt.Errorf("the limit is %s: %w", formatSize(s.maxBytes), cause))
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

func (s *Service) recordUpload(status string, rows int) {
	if s.metrics != nil {
		s.metrics.RecordUpload(status, rows)
	}
}
