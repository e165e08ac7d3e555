package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/sanctionwatch/app-server/internal/models"
)

const shopKeyPrefix = "shop:"

// ErrShopNotFound is returned when no shop is registered under the id
var ErrShopNotFound = errors.New("shop not found")

// ShopRepository stores registered shops and their credentials
type ShopRepository interface {
	Get(ctx context.Context, shopID string) (*models.Shop, error)
	Save(ctx context.Context, shop *models.Shop) error
	Delete(ctx context.Context, shopID string) error
}

// RedisShopRepository keeps each shop as a JSON document under shop:{id}
type RedisShopRepository struct {
	client *redis.Client
}

// NewRedisShopRepository creates a shop repository on top of client
func NewRedisShopRepository(client *redis.Client) *RedisShopRepository {
	return &RedisShopRepository{client: client}
}

// NewRedisClient parses url and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *RedisShopRepository) Get(ctx context.Context, shopID string) (*models.Shop, error) {
	data, err := r.client.Get(ctx, shopKeyPrefix+shopID).Bytes()
	if err == redis.Nil {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shop %s: %w", shopID, err)
	}

	var shop models.Shop
	if err := json.Unmarshal(data, &shop); err != nil {
		return nil, fmt.Errorf("decode shop %s: %w", shopID, err)
	}
	return &shop, nil
}

func (r *RedisShopRepository) Save(ctx context.Context, shop *models.Shop) error {
	data, err := json.Marshal(shop)
	if err != nil {
		return fmt.Errorf("encode shop %s: %w", shop.ID, err)
	}
	if err := r.client.Set(ctx, shopKeyPrefix+shop.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("save shop %s: %w", shop.ID, err)
	}
	return nil
}

func (r *RedisShopRepository) Delete(ctx context.Context, shopID string) error {
	if err := r.client.Del(ctx, shopKeyPrefix+shopID).Err(); err != nil {
		return fmt.Errorf("delete shop %s: %w", shopID, err)
	}
	return nil
}
