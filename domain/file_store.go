package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileFilter struct {
	AccommodationID *primitive.ObjectID
}

type FileStore interface {
	Insert(ctx context.Context, file *File) (*File, error)
	Get(ctx context.Context, id string) (*File, error)
	GetAll(ctx context.Context, filter FileFilter) ([]*File, error)
	Delete(ctx context.Context, id string) error
}

// FileCache caches blob contents on the download path.
type FileCache interface {
	Post(ctx context.Context, id string, content []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Del(ctx context.Context, id string) error
}
