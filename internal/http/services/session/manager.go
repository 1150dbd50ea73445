// Package session administra las sesiones HTTP: cada cliente recibe un
// token JWT firmado que referencia a SU Reconciler. El Reconciler es por
// cliente (como el estado de auth de una pestaña del SPA); el token solo
// lo localiza, nunca lleva estado de sesión adentro.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	core "github.com/mlsniperpro/mediquestai/internal/session"
)

// Errores del manager de sesiones HTTP.
var (
	ErrTokenInvalid   = errors.New("session: token invalid")
	ErrSessionExpired = errors.New("session: session expired")
)

const issuer = "mediquest-auth"

// ReconcilerFactory construye el Reconciler de una sesión nueva, con
// todas sus dependencias ya cableadas (store, resolver, invalidadores).
type ReconcilerFactory func() *core.Reconciler

// Manager emite y resuelve tokens de sesión.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	factory ReconcilerFactory

	// live mapea session id -> *core.Reconciler con TTL. Expirada la
	// entrada, el token firma una sesión que ya no existe.
	live *gocache.Cache
}

// Config configura el Manager.
type Config struct {
	Secret  string
	TTL     time.Duration
	Factory ReconcilerFactory
}

// NewManager crea el Manager de sesiones.
func NewManager(cfg Config) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret:  []byte(cfg.Secret),
		ttl:     ttl,
		factory: cfg.Factory,
		live:    gocache.New(ttl, 10*time.Minute),
	}
}

// Create abre una sesión nueva: instancia su Reconciler y firma el token.
func (m *Manager) Create(ctx context.Context) (string, *core.Reconciler, error) {
	sid := uuid.NewString()
	rec := m.factory()
	m.live.Set(sid, rec, m.ttl)

	token, err := m.sign(sid)
	if err != nil {
		m.live.Delete(sid)
		return "", nil, err
	}

	logger.From(ctx).Debug("session created",
		logger.Layer("service"), logger.SessionID(sid))
	return token, rec, nil
}

// Resolve valida el token y retorna el Reconciler de esa sesión.
// ErrTokenInvalid si la firma/estructura no cierra; ErrSessionExpired si
// el token es válido pero la sesión ya no vive en el registro.
func (m *Manager) Resolve(token string) (*core.Reconciler, error) {
	sid, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	v, ok := m.live.Get(sid)
	if !ok {
		return nil, ErrSessionExpired
	}
	return v.(*core.Reconciler), nil
}

func (m *Manager) sign(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSessionExpired
		}
		return "", ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
