package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctionwatch/app-server/internal/models"
)

func setupShopRepository(t *testing.T) (*RedisShopRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisShopRepository(client), mr
}

func TestShopRepositorySaveAndGet(t *testing.T) {
	repo, mr := setupShopRepository(t)
	ctx := context.Background()

	shop := &models.Shop{
		ID:        "shop-1",
		URL:       "https://shop.example",
		Secret:    "shop-secret",
		APIKey:    "key",
		SecretKey: "secret",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, shop))
	assert.True(t, mr.Exists("shop:shop-1"))

	got, err := repo.Get(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, shop, got)
	assert.True(t, got.HasCredentials())
}

func TestShopRepositoryGetUnknown(t *testing.T) {
	repo, _ := setupShopRepository(t)

	_, err := repo.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestShopRepositoryGetCorrupt(t *testing.T) {
	repo, mr := setupShopRepository(t)
	require.NoError(t, mr.Set("shop:bad", "{not json"))

	_, err := repo.Get(context.Background(), "bad")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrShopNotFound)
}

func TestShopRepositoryDelete(t *testing.T) {
	repo, _ := setupShopRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &models.Shop{ID: "shop-1", URL: "https://shop.example", Secret: "s"}))

	require.NoError(t, repo.Delete(ctx, "shop-1"))

	_, err := repo.Get(ctx, "shop-1")
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
