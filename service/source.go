package service

import (
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Source lists and downloads documents from local or remote storage.
type Source interface {
	List(ctx context.Context, location string) ([]storage.Object, error)
	Download(ctx context.Context, object storage.Object) ([]byte, error)
}

type afsSource struct {
	fs afs.Service
}

// NewAFSSource creates a Source backed by github.com/viant/afs, covering
// local paths and any afs-supported URL scheme.
func NewAFSSource() Source {
	return &afsSource{fs: afs.New()}
}

func (a *afsSource) List(ctx context.Context, location string) ([]storage.Object, error) {
	return a.fs.List(ctx, location)
}

func (a *afsSource) Download(ctx context.Context, object storage.Object) ([]byte, error) {
	return a.fs.Download(ctx, object)
}
