package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskFilter struct {
	Name            string
	Weekly          *bool
	Done            *bool
	UserID          *primitive.ObjectID
	AccommodationID *primitive.ObjectID
}

type TaskStore interface {
	Insert(ctx context.Context, task *Task) (*Task, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Task, error)
	GetAll(ctx context.Context, filter TaskFilter) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
