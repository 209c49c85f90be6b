package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FileStorage persists uploaded blobs on local disk under a single root
// directory, one file per document id.
type FileStorage struct {
	root   string
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(root string, logger *logrus.Logger, tracer trace.Tracer) (*FileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		logger.Errorf("Error creating upload directory %s: %v", root, err)
		return nil, err
	}

	return &FileStorage{
		root:   root,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (fs *FileStorage) Save(ctx context.Context, id string, content []byte) error {
	_, span := fs.tracer.Start(ctx, "FileStorage.Save")
	defer span.End()

	path := filepath.Join(fs.root, id)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error writing file %s: %v", path, err)
		return err
	}
	return nil
}

func (fs *FileStorage) Read(ctx context.Context, id string) ([]byte, error) {
	_, span := fs.tracer.Start(ctx, "FileStorage.Read")
	defer span.End()

	path := filepath.Join(fs.root, id)
	content, err := os.ReadFile(path)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error reading file %s: %v", path, err)
		return nil, err
	}
	return content, nil
}

func (fs *FileStorage) Remove(ctx context.Context, id string) error {
	_, span := fs.tracer.Start(ctx, "FileStorage.Remove")
	defer span.End()

	path := filepath.Join(fs.root, id)
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error removing file %s: %v", path, err)
		return err
	}
	return nil
}
