package store

import (
	"context"
	"fmt"
	"time"

	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const fileCacheTTL = 30 * time.Minute

type FileRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewFileRedisCache(client *redis.Client, tracer trace.Tracer) domain.FileCache {
	return &FileRedisCache{
		client: client,
		tracer: tracer,
	}
}

func (cache *FileRedisCache) Post(ctx context.Context, id string, content []byte) error {
	_, span := cache.tracer.Start(ctx, "FileCache.Post")
	defer span.End()

	result := cache.client.Set(constructKey(id), content, fileCacheTTL)
	if result.Err() != nil {
		span.SetStatus(codes.Error, result.Err().Error())
		return result.Err()
	}
	return nil
}

func (cache *FileRedisCache) Get(ctx context.Context, id string) ([]byte, error) {
	_, span := cache.tracer.Start(ctx, "FileCache.Get")
	defer span.End()

	content, err := cache.client.Get(constructKey(id)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return content, nil
}

func (cache *FileRedisCache) Del(ctx context.Context, id string) error {
	_, span := cache.tracer.Start(ctx, "FileCache.Del")
	defer span.End()

	result := cache.client.Del(constructKey(id))
	if result.Err() != nil {
		span.SetStatus(codes.Error, result.Err().Error())
		return result.Err()
	}
	return nil
}

func constructKey(id string) string {
	return fmt.Sprintf("file:%s", id)
}
