package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventFilter struct {
	Title            string
	PlannedDateStart *time.Time
	PlannedDateEnd   *time.Time
	UserID           *primitive.ObjectID
	AccommodationID  *primitive.ObjectID
}

type EventStore interface {
	Insert(ctx context.Context, event *Event) (*Event, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Event, error)
	GetAll(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
