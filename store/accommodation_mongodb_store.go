package store

import (
	"context"

	"github.com/TheYassAnz/coabi-backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const ACCOMMODATIONS_COLLECTION = "accommodations"

type AccommodationMongoDBStore struct {
	client         *mongo.Client
	accommodations *mongo.Collection
	users          *mongo.Collection
	tasks          *mongo.Collection
	rules          *mongo.Collection
	events         *mongo.Collection
	refunds        *mongo.Collection
	tracer         trace.Tracer
}

func NewAccommodationMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.AccommodationStore {
	db := client.Database(DATABASE)
	return &AccommodationMongoDBStore{
		client:         client,
		accommodations: db.Collection(ACCOMMODATIONS_COLLECTION),
		users:          db.Collection(USERS_COLLECTION),
		tasks:          db.Collection(TASKS_COLLECTION),
		rules:          db.Collection(RULES_COLLECTION),
		events:         db.Collection(EVENTS_COLLECTION),
		refunds:        db.Collection(REFUNDS_COLLECTION),
		tracer:         tracer,
	}
}

// CreateWithModerator writes the accommodation and the creator's
// promotion in one transaction, so an accommodation can never exist
// without its moderator.
func (store *AccommodationMongoDBStore) CreateWithModerator(ctx context.Context, accommodation *domain.Accommodation, userID primitive.ObjectID) (*domain.Accommodation, error) {
	ctx, span := store.tracer.Start(ctx, "AccommodationStore.CreateWithModerator")
	defer span.End()

	session, err := store.client.StartSession()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer session.EndSession(ctx)

	accommodation.ID = primitive.NewObjectID()

	_, err = session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		if _, err := store.accommodations.InsertOne(sessionCtx, accommodation); err != nil {
			return nil, err
		}

		result, err := store.users.UpdateOne(sessionCtx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{
				"accommodationId": accommodation.ID,
				"role":            domain.RoleModerator,
			}})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return accommodation, nil
}

func (store *AccommodationMongoDBStore) GetAll(ctx context.Context) ([]*domain.Accommodation, error) {
	ctx, span := store.tracer.Start(ctx, "AccommodationStore.GetAll")
	defer span.End()

	cursor, err := store.accommodations.Find(ctx, bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var accommodations []*domain.Accommodation
	for cursor.Next(ctx) {
		var accommodation domain.Accommodation
		if err := cursor.Decode(&accommodation); err != nil {
			return nil, err
		}
		accommodations = append(accommodations, &accommodation)
	}
	return accommodations, cursor.Err()
}

func (store *AccommodationMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Accommodation, error) {
	ctx, span := store.tracer.Start(ctx, "AccommodationStore.Get")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id})
}

func (store *AccommodationMongoDBStore) GetByCode(ctx context.Context, code string) (*domain.Accommodation, error) {
	ctx, span := store.tracer.Start(ctx, "AccommodationStore.GetByCode")
	defer span.End()

	return store.filterOne(ctx, bson.M{"code": code})
}

func (store *AccommodationMongoDBStore) Update(ctx context.Context, accommodation *domain.Accommodation) error {
	ctx, span := store.tracer.Start(ctx, "AccommodationStore.Update")
	defer span.End()

	update := bson.M{"$set": bson.M{
		"name":       accommodation.Name,
		"location":   accommodation.Location,
		"postalCode": accommodation.PostalCode,
		"country":    accommodation.Country,
	}}

	result, err := store.accommodations.UpdateOne(ctx, bson.M{"_id": accommodation.ID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the accommodation and everything scoped to it.
// Members keep their account but lose the accommodation reference, and
// its moderators fall back to plain users.
func (store *AccommodationMongoDBStore) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "AccommodationStore.DeleteCascade")
	defer span.End()

	session, err := store.client.StartSession()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		scoped := bson.M{"accommodationId": id}

		for _, collection := range []*mongo.Collection{store.tasks, store.rules, store.events, store.refunds} {
			if _, err := collection.DeleteMany(sessionCtx, scoped); err != nil {
				return nil, err
			}
		}

		_, err := store.users.UpdateMany(sessionCtx,
			bson.M{"accommodationId": id, "role": domain.RoleModerator},
			bson.M{"$set": bson.M{"role": domain.RoleUser}})
		if err != nil {
			return nil, err
		}

		_, err = store.users.UpdateMany(sessionCtx, scoped,
			bson.M{"$unset": bson.M{"accommodationId": ""}})
		if err != nil {
			return nil, err
		}

		result, err := store.accommodations.DeleteOne(sessionCtx, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (store *AccommodationMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Accommodation, error) {
	var accommodation domain.Accommodation
	err := store.accommodations.FindOne(ctx, filter).Decode(&accommodation)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &accommodation, nil
}
