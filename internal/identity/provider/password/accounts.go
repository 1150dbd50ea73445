package password

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
)

const accountsCollection = "accounts"

// Account es el registro de credenciales de un login por password.
// Se guarda aparte del perfil: el perfil es del Reconciler, esto es
// solo material de autenticación. La clave es el email normalizado.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore lee/escribe cuentas password sobre el docstore.
type AccountStore struct {
	db docstore.Store
}

// NewAccountStore crea el store de cuentas.
func NewAccountStore(db docstore.Store) *AccountStore {
	return &AccountStore{db: db}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Lookup retorna la cuenta por email, o ErrAccountNotFound.
func (s *AccountStore) Lookup(ctx context.Context, email string) (*Account, error) {
	doc, err := s.db.Get(ctx, accountsCollection, accountKey(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("password: lookup account: %w", err)
	}
	return decodeAccount(doc), nil
}

// Insert crea la cuenta; ErrEmailTaken si el email ya está registrado.
func (s *AccountStore) Insert(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	doc := docstore.Document{
		"id":           a.ID,
		"email":        accountKey(a.Email),
		"passwordHash": a.PasswordHash,
		"createdAt":    a.CreatedAt.Format(time.RFC3339Nano),
	}
	if a.DisplayName != "" {
		doc["displayName"] = a.DisplayName
	}
	if err := s.db.Create(ctx, accountsCollection, accountKey(a.Email), doc); err != nil {
		if errors.Is(err, docstore.ErrExists) {
			return ErrEmailTaken
		}
		return fmt.Errorf("password: insert account: %w", err)
	}
	return nil
}

// UpdateHash reemplaza el hash de password de la cuenta.
func (s *AccountStore) UpdateHash(ctx context.Context, email, newHash string) error {
	err := s.db.Update(ctx, accountsCollection, accountKey(email), docstore.Document{
		"passwordHash": newHash,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("password: update hash: %w", err)
	}
	return nil
}

func decodeAccount(doc docstore.Document) *Account {
	a := &Account{}
	a.ID, _ = doc["id"].(string)
	a.Email, _ = doc["email"].(string)
	a.DisplayName, _ = doc["displayName"].(string)
	a.PasswordHash, _ = doc["passwordHash"].(string)
	if s, ok := doc["createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			a.CreatedAt = t
		}
	}
	return a
}
