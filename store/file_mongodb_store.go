package store

import (
	"context"
	"time"

	"github.com/TheYassAnz/coabi-backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const FILES_COLLECTION = "files"

type FileMongoDBStore struct {
	files  *mongo.Collection
	tracer trace.Tracer
}

func NewFileMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.FileStore {
	files := client.Database(DATABASE).Collection(FILES_COLLECTION)
	return &FileMongoDBStore{
		files:  files,
		tracer: tracer,
	}
}

func (store *FileMongoDBStore) Insert(ctx context.Context, file *domain.File) (*domain.File, error) {
	ctx, span := store.tracer.Start(ctx, "FileStore.Insert")
	defer span.End()

	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt

	_, err := store.files.InsertOne(ctx, file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return file, nil
}

func (store *FileMongoDBStore) Get(ctx context.Context, id string) (*domain.File, error) {
	ctx, span := store.tracer.Start(ctx, "FileStore.Get")
	defer span.End()

	var file domain.File
	err := store.files.FindOne(ctx, bson.M{"_id": id}).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &file, nil
}

func (store *FileMongoDBStore) GetAll(ctx context.Context, fileFilter domain.FileFilter) ([]*domain.File, error) {
	ctx, span := store.tracer.Start(ctx, "FileStore.GetAll")
	defer span.End()

	params := bson.M{}
	if fileFilter.AccommodationID != nil {
		params["accommodationId"] = *fileFilter.AccommodationID
	}

	cursor, err := store.files.Find(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []*domain.File
	for cursor.Next(ctx) {
		var file domain.File
		if err := cursor.Decode(&file); err != nil {
			return nil, err
		}
		files = append(files, &file)
	}
	return files, cursor.Err()
}

func (store *FileMongoDBStore) Delete(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "FileStore.Delete")
	defer span.End()

	result, err := store.files.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
