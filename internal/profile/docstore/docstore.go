// Package docstore provee un almacén de documentos JSON por (colección, clave)
// con soporte multi-backend.
//
// Soporta:
//   - Memory (in-process, para desarrollo/testing)
//   - Redis (JSON string por clave)
//   - Postgres (tabla con columna JSONB)
//
// El contrato que importa a los llamadores: Create es exclusivo (falla con
// ErrExists si el documento ya existe) y Update es un merge parcial que nunca
// crea documentos. Los campos ausentes de un documento simplemente no están:
// ningún backend guarda placeholders null/vacíos.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Document es un documento JSON decodificado.
type Document = map[string]any

// Store define las operaciones sobre el almacén de documentos.
type Store interface {
	// Get obtiene un documento. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, collection, key string) (Document, error)

	// Create guarda un documento nuevo. Retorna ErrExists si ya hay uno.
	Create(ctx context.Context, collection, key string, doc Document) error

	// Update aplica un merge parcial sobre un documento existente.
	// Retorna ErrNotFound si no existe; nunca crea.
	Update(ctx context.Context, collection, key string, fields Document) error

	// Delete elimina un documento. Idempotente.
	Delete(ctx context.Context, collection, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Errores del docstore.
var (
	ErrNotFound = errors.New("docstore: document not found")
	ErrExists   = errors.New("docstore: document already exists")
)

// Config configuración para crear un Store.
type Config struct {
	// Driver: "memory" | "redis" | "postgres"
	Driver string

	// DSN para postgres.
	DSN string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string

	// Postgres pool
	MaxOpenConns int
	MaxIdleConns int
}

// New crea un Store según la configuración.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(ctx, cfg)
	case "postgres", "pg":
		return NewPostgres(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("docstore: unknown driver %q", cfg.Driver)
	}
}
