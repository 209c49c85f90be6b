package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserFilter struct {
	// Name matches firstName, lastName or username, case-insensitive.
	Name            string
	Role            Role
	AccommodationID *primitive.ObjectID
}

type UserStore interface {
	Insert(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*User, error)
	GetAll(ctx context.Context, filter UserFilter) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
