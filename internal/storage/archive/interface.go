// Package archive keeps a copy of every raw uploaded file on a storage backend.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/newthinker/fxagents/internal/config"
	"github.com/newthinker/fxagents/internal/core"
)

// Storage defines the interface for archive storage backends
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// UploadPath is the archive location of an uploaded file: uploads/<id>/<base name>.
func UploadPath(id, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		name = "upload"
	}
	return path.Join("uploads", id, name)
}

// Archiver writes raw uploads to a Storage backend. A nil *Archiver archives nothing.
type Archiver struct {
	storage Storage
	kind    string
}

// NewArchiver wraps storage. kind names the backend in logs.
func NewArchiver(storage Storage, kind string) *Archiver {
	return &Archiver{storage: storage, kind: kind}
}

// New builds the archiver selected by cfg. Type "" or "none" returns nil.
func New(cfg config.ArchiveConfig) (*Archiver, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "localfs":
		fs, err := NewLocalFS(cfg.Path)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		return NewArchiver(fs, cfg.Type), nil
	case "s3":
		s3, err := NewS3(S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		return NewArchiver(s3, cfg.Type), nil
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}

// Kind returns the backend name, or "none" for a nil archiver
func (a *Archiver) Kind() string {
	if a == nil {
		return "none"
	}
	return a.kind
}

// Save stores the raw bytes of an upload and returns the archive path.
func (a *Archiver) Save(ctx context.Context, id, filename string, data []byte) (string, error) {
	if a == nil {
		return "", nil
	}
	p := UploadPath(id, filename)
	if err := a.storage.Write(ctx, p, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing %s: %w", p, err))
	}
	return p, nil
}

// Load reads an archived upload back.
func (a *Archiver) Load(ctx context.Context, id, filename string) ([]byte, error) {
	if a == nil {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("archive disabled"))
	}
	p := UploadPath(id, filename)
	ok, err := a.storage.Exists(ctx, p)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	if !ok {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("%s", p))
	}
	return a.storage.Read(ctx, p)
}

// Uploads lists archived upload paths.
func (a *Archiver) Uploads(ctx context.Context) ([]string, error) {
	if a == nil {
		return []string{}, nil
	}
	paths, err := a.storage.List(ctx, "uploads")
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return paths, nil
}
