package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RuleFilter struct {
	Title           string
	AccommodationID *primitive.ObjectID
}

type RuleStore interface {
	Insert(ctx context.Context, rule *Rule) (*Rule, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Rule, error)
	GetAll(ctx context.Context, filter RuleFilter) ([]*Rule, error)
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
