package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
)

var _ movement.Cache = (*RedisClient)(nil)

// RedisClient implementa el puerto de caché del motor sobre Redis.
// El caché es opcional: si no hay Redis configurado, el motor consulta
// siempre la BD.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient crea el cliente y verifica la conexión con un PING.
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisClient{rdb: rdb}, nil
}

// Get recupera el valor de una clave. found=false indica miss.
func (c *RedisClient) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set guarda un valor con TTL.
func (c *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Close cierra la conexión.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
