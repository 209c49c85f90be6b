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

const EVENTS_COLLECTION = "events"

type EventMongoDBStore struct {
	events *mongo.Collection
	tracer trace.Tracer
}

func NewEventMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.EventStore {
	events := client.Database(DATABASE).Collection(EVENTS_COLLECTION)
	return &EventMongoDBStore{
		events: events,
		tracer: tracer,
	}
}

func (store *EventMongoDBStore) Insert(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	ctx, span := store.tracer.Start(ctx, "EventStore.Insert")
	defer span.End()

	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	_, err := store.events.InsertOne(ctx, event)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return event, nil
}

func (store *EventMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Event, error) {
	ctx, span := store.tracer.Start(ctx, "EventStore.Get")
	defer span.End()

	var event domain.Event
	err := store.events.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &event, nil
}

func (store *EventMongoDBStore) GetAll(ctx context.Context, eventFilter domain.EventFilter) ([]*domain.Event, error) {
	ctx, span := store.tracer.Start(ctx, "EventStore.GetAll")
	defer span.End()

	params := bson.M{}
	if eventFilter.Title != "" {
		params["title"] = bson.M{"$regex": eventFilter.Title, "$options": "i"}
	}
	if eventFilter.PlannedDateStart != nil || eventFilter.PlannedDateEnd != nil {
		plannedDate := bson.M{}
		if eventFilter.PlannedDateStart != nil {
			plannedDate["$gte"] = *eventFilter.PlannedDateStart
		}
		if eventFilter.PlannedDateEnd != nil {
			plannedDate["$lte"] = *eventFilter.PlannedDateEnd
		}
		params["plannedDate"] = plannedDate
	}
	if eventFilter.UserID != nil {
		params["userId"] = *eventFilter.UserID
	}
	if eventFilter.AccommodationID != nil {
		params["accommodationId"] = *eventFilter.AccommodationID
	}

	cursor, err := store.events.Find(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*domain.Event
	for cursor.Next(ctx) {
		var event domain.Event
		if err := cursor.Decode(&event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	return events, cursor.Err()
}

func (store *EventMongoDBStore) Update(ctx context.Context, event *domain.Event) error {
	ctx, span := store.tracer.Start(ctx, "EventStore.Update")
	defer span.End()

	event.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":       event.Title,
		"description": event.Description,
		"plannedDate": event.PlannedDate,
		"endDate":     event.EndDate,
		"updatedAt":   event.UpdatedAt,
	}}

	result, err := store.events.UpdateOne(ctx, bson.M{"_id": event.ID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (store *EventMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "EventStore.Delete")
	defer span.End()

	result, err := store.events.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
