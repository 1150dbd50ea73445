package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore implementa Store usando Redis (un JSON string por clave).
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis crea un Store sobre Redis.
func NewRedis(ctx context.Context, cfg Config) (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Verificar conexión
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		return nil, fmt.Errorf("docstore: redis ping failed: %w", err)
	}

	return &redisStore{client: rdb, prefix: cfg.Prefix}, nil
}

func (s *redisStore) key(collection, key string) string {
	k := collection + ":" + key
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *redisStore) Get(ctx context.Context, collection, key string) (Document, error) {
	b, err := s.client.Get(ctx, s.key(collection, key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *redisStore) Create(ctx context.Context, collection, key string, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.key(collection, key), b, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (s *redisStore) Update(ctx context.Context, collection, key string, fields Document) error {
	k := s.key(collection, key)

	// WATCH/MULTI para que el merge no pise escrituras concurrentes.
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, k).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var doc Document
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		for f, val := range fields {
			doc[f] = val
		}
		nb, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, nb, 0)
			return nil
		})
		return err
	}

	for i := 0; i < 3; i++ {
		err := s.client.Watch(ctx, txf, k)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("docstore: redis update retries exhausted for %s", k)
}

func (s *redisStore) Delete(ctx context.Context, collection, key string) error {
	return s.client.Del(ctx, s.key(collection, key)).Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
