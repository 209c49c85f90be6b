package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RefundFilter struct {
	Title           string
	ToRefundStart   *float64
	ToRefundEnd     *float64
	UserID          *primitive.ObjectID
	RoommateID      *primitive.ObjectID
	AccommodationID *primitive.ObjectID
}

type RefundStore interface {
	Insert(ctx context.Context, refund *Refund) (*Refund, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Refund, error)
	GetAll(ctx context.Context, filter RefundFilter) ([]*Refund, error)
	Update(ctx context.Context, refund *Refund) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
