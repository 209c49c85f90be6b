package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccommodationStore interface {
	// CreateWithModerator inserts the accommodation and promotes the
	// creating user to moderator of it in a single transaction.
	CreateWithModerator(ctx context.Context, accommodation *Accommodation, userID primitive.ObjectID) (*Accommodation, error)
	GetAll(ctx context.Context) ([]*Accommodation, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Accommodation, error)
	GetByCode(ctx context.Context, code string) (*Accommodation, error)
	Update(ctx context.Context, accommodation *Accommodation) error
	// DeleteCascade removes the accommodation together with its tasks,
	// rules, events and refunds, unsets the members' accommodationId and
	// demotes its moderators, all in a single transaction.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
}
