package store

import (
	"context"
	"time"

	"github.com/TheYassAnz/coabi-backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const RULES_COLLECTION = "rules"

type RuleMongoDBStore struct {
	rules  *mongo.Collection
	tracer trace.Tracer
}

func NewRuleMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.RuleStore {
	rules := client.Database(DATABASE).Collection(RULES_COLLECTION)
	return &RuleMongoDBStore{
		rules:  rules,
		tracer: tracer,
	}
}

func (store *RuleMongoDBStore) Insert(ctx context.Context, rule *domain.Rule) (*domain.Rule, error) {
	ctx, span := store.tracer.Start(ctx, "RuleStore.Insert")
	defer span.End()

	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt

	_, err := store.rules.InsertOne(ctx, rule)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rule, nil
}

func (store *RuleMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Rule, error) {
	ctx, span := store.tracer.Start(ctx, "RuleStore.Get")
	defer span.End()

	var rule domain.Rule
	err := store.rules.FindOne(ctx, bson.M{"_id": id}).Decode(&rule)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &rule, nil
}

func (store *RuleMongoDBStore) GetAll(ctx context.Context, ruleFilter domain.RuleFilter) ([]*domain.Rule, error) {
	ctx, span := store.tracer.Start(ctx, "RuleStore.GetAll")
	defer span.End()

	params := bson.M{}
	if ruleFilter.Title != "" {
		params["title"] = bson.M{"$regex": ruleFilter.Title, "$options": "i"}
	}
	if ruleFilter.AccommodationID != nil {
		params["accommodationId"] = *ruleFilter.AccommodationID
	}

	cursor, err := store.rules.Find(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []*domain.Rule
	for cursor.Next(ctx) {
		var rule domain.Rule
		if err := cursor.Decode(&rule); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, cursor.Err()
}

func (store *RuleMongoDBStore) Update(ctx context.Context, rule *domain.Rule) error {
	ctx, span := store.tracer.Start(ctx, "RuleStore.Update")
	defer span.End()

	rule.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":       rule.Title,
		"description": rule.Description,
		"updatedAt":   rule.UpdatedAt,
	}}

	result, err := store.rules.UpdateOne(ctx, bson.M{"_id": rule.ID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (store *RuleMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "RuleStore.Delete")
	defer span.End()

	result, err := store.rules.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
