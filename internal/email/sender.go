// Package email envía los correos transaccionales del servicio.
// Hoy solo existe uno: el link de reset de password.
package email

import (
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"

	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Sender envía un email con cuerpo HTML y texto plano.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

// NewSMTPSender crea un SMTPSender con los parámetros dados.
func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from, User: user, Pass: pass}
}

// Send envía el mensaje negociando STARTTLS cuando el servidor lo ofrece.
func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	log := logger.L().With(
		logger.Component("SMTPSender"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
	)
	log.Debug("sending email", logger.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	// Preferimos multipart/alternative (txt + html)
	if textBody != "" {
		m.SetBody("text/plain", textBody)
	}
	if htmlBody != "" {
		if textBody == "" {
			m.SetBody("text/html", htmlBody)
		} else {
			m.AddAlternative("text/html", htmlBody)
		}
	}

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{ServerName: s.Host}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	return nil
}

// NoopSender descarta los emails. Para dev/tests sin SMTP configurado.
type NoopSender struct{}

func (NoopSender) Send(to, subject, htmlBody, textBody string) error {
	logger.L().Info("email discarded (noop sender)",
		logger.String("subject", subject))
	return nil
}

// ResetLinkBody arma subject y cuerpos del email de reset de password.
func ResetLinkBody(link string, ttl time.Duration) (subject, html, text string) {
	subject = "Restablecé tu contraseña de MediQuest"
	text = fmt.Sprintf(
		"Recibimos un pedido para restablecer tu contraseña.\n\n"+
			"Abrí este link (vence en %s):\n%s\n\n"+
			"Si no fuiste vos, ignorá este mensaje.",
		ttl, link)
	html = fmt.Sprintf(
		`<p>Recibimos un pedido para restablecer tu contraseña.</p>`+
			`<p><a href=%q>Restablecer contraseña</a> (vence en %s)</p>`+
			`<p>Si no fuiste vos, ignorá este mensaje.</p>`,
		link, ttl)
	return subject, html, text
}
