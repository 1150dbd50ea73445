// Package password implementa el login por email/password, incluyendo
// registro y el flujo de reset por email.
package password

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/mlsniperpro/mediquestai/internal/email"
	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Errores del adapter password.
var (
	// ErrMalformedEmail: validación de formato del lado del cliente,
	// antes de tocar el store.
	ErrMalformedEmail = errors.New("password: malformed email")

	ErrAccountNotFound    = errors.New("password: account not found")
	ErrInvalidCredentials = errors.New("password: invalid credentials")
	ErrEmailTaken         = errors.New("password: email already registered")
	ErrWeakPassword       = errors.New("password: password too short")
	ErrResetTokenInvalid  = errors.New("password: reset token invalid or expired")
)

const minPasswordLength = 8

// Adapter implementa el login por email/password.
type Adapter struct {
	accounts *AccountStore
	sender   email.Sender
	baseURL  string
	resetTTL time.Duration

	// resetTokens guarda token -> email con TTL; consumo único.
	resetTokens *gocache.Cache
}

// Config configura el adapter.
type Config struct {
	Accounts *AccountStore
	Sender   email.Sender
	BaseURL  string
	ResetTTL time.Duration
}

// New crea el adapter password.
func New(cfg Config) *Adapter {
	ttl := cfg.ResetTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	sender := cfg.Sender
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Adapter{
		accounts:    cfg.Accounts,
		sender:      sender,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		resetTTL:    ttl,
		resetTokens: gocache.New(ttl, time.Minute),
	}
}

// Authenticate valida email/password y produce la credencial normalizada.
func (a *Adapter) Authenticate(ctx context.Context, emailAddr, pwd string) (identity.Credential, error) {
	log := logger.From(ctx).With(logger.Layer("adapter"), logger.Op("password.Authenticate"))

	if err := validateEmail(emailAddr); err != nil {
		return identity.Credential{}, err
	}

	acc, err := a.accounts.Lookup(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			log.Debug("account not found")
			return identity.Credential{}, ErrAccountNotFound
		}
		return identity.Credential{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(pwd)) != nil {
		log.Debug("password mismatch")
		return identity.Credential{}, ErrInvalidCredentials
	}

	return identity.Credential{
		Provider:        identity.ProviderPassword,
		SubjectID:       acc.ID,
		Email:           acc.Email,
		DisplayNameHint: acc.DisplayName,
	}, nil
}

// Register crea la cuenta y devuelve la credencial, como si el sujeto
// hubiera hecho login inmediatamente después de registrarse.
func (a *Adapter) Register(ctx context.Context, emailAddr, pwd, displayName string) (identity.Credential, error) {
	if err := validateEmail(emailAddr); err != nil {
		return identity.Credential{}, err
	}
	if len(pwd) < minPasswordLength {
		return identity.Credential{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return identity.Credential{}, fmt.Errorf("password: hash: %w", err)
	}

	acc := &Account{
		Email:        emailAddr,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
	}
	if err := a.accounts.Insert(ctx, acc); err != nil {
		return identity.Credential{}, err
	}

	logger.From(ctx).Info("account registered",
		logger.Layer("adapter"), logger.SubjectID(acc.ID))

	return identity.Credential{
		Provider:        identity.ProviderPassword,
		SubjectID:       acc.ID,
		Email:           accountKey(acc.Email),
		DisplayNameHint: acc.DisplayName,
	}, nil
}

// RequestReset emite un token de un solo uso y envía el link por email.
// Si el email no tiene cuenta, no revela nada: responde éxito igual.
func (a *Adapter) RequestReset(ctx context.Context, emailAddr string) error {
	log := logger.From(ctx).With(logger.Layer("adapter"), logger.Op("password.RequestReset"))

	if err := validateEmail(emailAddr); err != nil {
		return err
	}

	if _, err := a.accounts.Lookup(ctx, emailAddr); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// No enumerar cuentas: éxito silencioso.
			log.Debug("reset requested for unknown email")
			return nil
		}
		return err
	}

	token := newResetToken()
	a.resetTokens.Set(token, accountKey(emailAddr), a.resetTTL)

	link := a.baseURL + "/auth/reset?token=" + url.QueryEscape(token)
	subject, html, text := email.ResetLinkBody(link, a.resetTTL)
	if err := a.sender.Send(accountKey(emailAddr), subject, html, text); err != nil {
		log.Error("reset email send failed", logger.Err(err))
		return err
	}

	log.Info("reset email sent")
	return nil
}

// ResetPassword consume el token (un solo uso) y reemplaza el hash.
func (a *Adapter) ResetPassword(ctx context.Context, token, newPwd string) error {
	if len(newPwd) < minPasswordLength {
		return ErrWeakPassword
	}

	v, ok := a.resetTokens.Get(token)
	if !ok {
		return ErrResetTokenInvalid
	}
	a.resetTokens.Delete(token)
	emailAddr, _ := v.(string)

	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("password: hash: %w", err)
	}
	return a.accounts.UpdateHash(ctx, emailAddr, string(hash))
}

func validateEmail(emailAddr string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return ErrMalformedEmail
	}
	addr, err := mail.ParseAddress(emailAddr)
	if err != nil || addr.Address != emailAddr {
		return ErrMalformedEmail
	}
	return nil
}
