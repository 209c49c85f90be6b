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

const USERS_COLLECTION = "users"

type UserMongoDBStore struct {
	users  *mongo.Collection
	tracer trace.Tracer
}

func NewUserMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	users := client.Database(DATABASE).Collection(USERS_COLLECTION)
	return &UserMongoDBStore{
		users:  users,
		tracer: tracer,
	}
}

func (store *UserMongoDBStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Insert")
	defer span.End()

	user.ID = primitive.NewObjectID()
	result, err := store.users.InsertOne(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id})
}

func (store *UserMongoDBStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByUsername")
	defer span.End()

	return store.filterOne(ctx, bson.M{"username": username})
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	return store.filterOne(ctx, bson.M{"email": email})
}

func (store *UserMongoDBStore) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetManyByIDs")
	defer span.End()

	return store.filter(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (store *UserMongoDBStore) GetAll(ctx context.Context, userFilter domain.UserFilter) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetAll")
	defer span.End()

	params := bson.M{}
	if userFilter.Name != "" {
		regex := bson.M{"$regex": userFilter.Name, "$options": "i"}
		params["$or"] = bson.A{
			bson.M{"firstName": regex},
			bson.M{"lastName": regex},
			bson.M{"username": regex},
		}
	}
	if userFilter.Role != "" {
		params["role"] = userFilter.Role
	}
	if userFilter.AccommodationID != nil {
		params["accommodationId"] = *userFilter.AccommodationID
	}

	return store.filter(ctx, params)
}

func (store *UserMongoDBStore) Update(ctx context.Context, user *domain.User) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.Update")
	defer span.End()

	update := bson.M{
		"$set": bson.M{
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"username":  user.Username,
			"email":     user.Email,
			"password":  user.Password,
			"role":      user.Role,
		},
	}
	if user.AccommodationID != nil {
		update["$set"].(bson.M)["accommodationId"] = *user.AccommodationID
	} else {
		update["$unset"] = bson.M{"accommodationId": ""}
	}

	result, err := store.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (store *UserMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.Delete")
	defer span.End()

	result, err := store.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (store *UserMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.User, error) {
	cursor, err := store.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeUsers(ctx, cursor)
}

func (store *UserMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.User, error) {
	var user domain.User
	err := store.users.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) (users []*domain.User, err error) {
	for cursor.Next(ctx) {
		var user domain.User
		err = cursor.Decode(&user)
		if err != nil {
			return
		}
		users = append(users, &user)
	}
	err = cursor.Err()
	return
}
