package docstore

import (
	"context"
	"encoding/json"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore implementa Store sobre go-cache. Los documentos no expiran;
// go-cache aporta el storage concurrente y Add (create exclusivo) atómico.
// Útil para desarrollo y testing.
type memoryStore struct {
	prefix string
	c      *gocache.Cache

	// mu serializa los merges de Update (get + merge + set no es atómico).
	mu sync.Mutex
}

// NewMemory crea un Store en memoria.
func NewMemory(prefix string) Store {
	return &memoryStore{
		prefix: prefix,
		c:      gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *memoryStore) key(collection, key string) string {
	k := collection + "/" + key
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *memoryStore) Get(ctx context.Context, collection, key string) (Document, error) {
	v, ok := s.c.Get(s.key(collection, key))
	if !ok {
		return nil, ErrNotFound
	}
	b, _ := v.([]byte)
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *memoryStore) Create(ctx context.Context, collection, key string, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.c.Add(s.key(collection, key), b, gocache.NoExpiration); err != nil {
		return ErrExists
	}
	return nil
}

func (s *memoryStore) Update(ctx context.Context, collection, key string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(collection, key)
	v, ok := s.c.Get(k)
	if !ok {
		return ErrNotFound
	}
	b, _ := v.([]byte)
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
	s.c.Set(k, nb, gocache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, collection, key string) error {
	s.c.Delete(s.key(collection, key))
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error { return nil }

func (s *memoryStore) Close() error {
	s.c.Flush()
	return nil
}
