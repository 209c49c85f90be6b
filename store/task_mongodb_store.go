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

const TASKS_COLLECTION = "tasks"

type TaskMongoDBStore struct {
	tasks  *mongo.Collection
	tracer trace.Tracer
}

func NewTaskMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.TaskStore {
	tasks := client.Database(DATABASE).Collection(TASKS_COLLECTION)
	return &TaskMongoDBStore{
		tasks:  tasks,
		tracer: tracer,
	}
}

func (store *TaskMongoDBStore) Insert(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, span := store.tracer.Start(ctx, "TaskStore.Insert")
	defer span.End()

	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	_, err := store.tasks.InsertOne(ctx, task)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return task, nil
}

func (store *TaskMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	ctx, span := store.tracer.Start(ctx, "TaskStore.Get")
	defer span.End()

	var task domain.Task
	err := store.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &task, nil
}

func (store *TaskMongoDBStore) GetAll(ctx context.Context, taskFilter domain.TaskFilter) ([]*domain.Task, error) {
	ctx, span := store.tracer.Start(ctx, "TaskStore.GetAll")
	defer span.End()

	params := bson.M{}
	if taskFilter.Name != "" {
		params["name"] = bson.M{"$regex": taskFilter.Name, "$options": "i"}
	}
	if taskFilter.Weekly != nil {
		params["weekly"] = *taskFilter.Weekly
	}
	if taskFilter.Done != nil {
		params["done"] = *taskFilter.Done
	}
	if taskFilter.UserID != nil {
		params["userId"] = *taskFilter.UserID
	}
	if taskFilter.AccommodationID != nil {
		params["accommodationId"] = *taskFilter.AccommodationID
	}

	cursor, err := store.tasks.Find(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*domain.Task
	for cursor.Next(ctx) {
		var task domain.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}
	return tasks, cursor.Err()
}

func (store *TaskMongoDBStore) Update(ctx context.Context, task *domain.Task) error {
	ctx, span := store.tracer.Start(ctx, "TaskStore.Update")
	defer span.End()

	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":        task.Name,
		"description": task.Description,
		"weekly":      task.Weekly,
		"done":        task.Done,
		"updatedAt":   task.UpdatedAt,
	}}

	result, err := store.tasks.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (store *TaskMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "TaskStore.Delete")
	defer span.End()

	result, err := store.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
