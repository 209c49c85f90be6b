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

const REFUNDS_COLLECTION = "refunds"

type RefundMongoDBStore struct {
	refunds *mongo.Collection
	tracer  trace.Tracer
}

func NewRefundMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.RefundStore {
	refunds := client.Database(DATABASE).Collection(REFUNDS_COLLECTION)
	return &RefundMongoDBStore{
		refunds: refunds,
		tracer:  tracer,
	}
}

func (store *RefundMongoDBStore) Insert(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	ctx, span := store.tracer.Start(ctx, "RefundStore.Insert")
	defer span.End()

	refund.ID = primitive.NewObjectID()
	refund.CreatedAt = time.Now()
	refund.UpdatedAt = refund.CreatedAt

	_, err := store.refunds.InsertOne(ctx, refund)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return refund, nil
}

func (store *RefundMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Refund, error) {
	ctx, span := store.tracer.Start(ctx, "RefundStore.Get")
	defer span.End()

	var refund domain.Refund
	err := store.refunds.FindOne(ctx, bson.M{"_id": id}).Decode(&refund)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &refund, nil
}

func (store *RefundMongoDBStore) GetAll(ctx context.Context, refundFilter domain.RefundFilter) ([]*domain.Refund, error) {
	ctx, span := store.tracer.Start(ctx, "RefundStore.GetAll")
	defer span.End()

	params := bson.M{}
	if refundFilter.Title != "" {
		params["title"] = bson.M{"$regex": refundFilter.Title, "$options": "i"}
	}
	if refundFilter.ToRefundStart != nil || refundFilter.ToRefundEnd != nil {
		toRefund := bson.M{}
		if refundFilter.ToRefundStart != nil {
			toRefund["$gte"] = *refundFilter.ToRefundStart
		}
		if refundFilter.ToRefundEnd != nil {
			toRefund["$lte"] = *refundFilter.ToRefundEnd
		}
		params["toRefund"] = toRefund
	}
	if refundFilter.UserID != nil {
		params["userId"] = *refundFilter.UserID
	}
	if refundFilter.RoommateID != nil {
		params["roommateId"] = *refundFilter.RoommateID
	}
	if refundFilter.AccommodationID != nil {
		params["accommodationId"] = *refundFilter.AccommodationID
	}

	cursor, err := store.refunds.Find(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var refunds []*domain.Refund
	for cursor.Next(ctx) {
		var refund domain.Refund
		if err := cursor.Decode(&refund); err != nil {
			return nil, err
		}
		refunds = append(refunds, &refund)
	}
	return refunds, cursor.Err()
}

func (store *RefundMongoDBStore) Update(ctx context.Context, refund *domain.Refund) error {
	ctx, span := store.tracer.Start(ctx, "RefundStore.Update")
	defer span.End()

	refund.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":     refund.Title,
		"toRefund":  refund.ToRefund,
		"done":      refund.Done,
		"updatedAt": refund.UpdatedAt,
	}}

	result, err := store.refunds.UpdateOne(ctx, bson.M{"_id": refund.ID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (store *RefundMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "RefundStore.Delete")
	defer span.End()

	result, err := store.refunds.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
