package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define el contrato de caché que usan los casos de uso de consulta.
// Mantenerlo como interfaz permite un no-op cuando Redis no está configurado.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss se devuelve cuando la clave no existe en la caché.
var ErrCacheMiss = redis.Nil

// RedisClient implementación de Client sobre Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient crea el cliente y verifica la conexión con un PING.
func NewRedisClient(addr, password string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisClient{rdb: rdb}, nil
}

// Get recupera el valor asociado a una clave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set guarda un valor con expiración.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete elimina una clave (DEL; 0 claves borradas no es error).
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close cierra la conexión con Redis.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// Noop es un Client que no cachea nada: Get siempre falla con ErrCacheMiss.
// Se usa cuando REDIS_ADDR no está configurado.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, error) { return "", ErrCacheMiss }
func (Noop) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (Noop) Delete(ctx context.Context, key string) error { return nil }
