// Package mail delivers notification e-mails.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"go.uber.org/fx"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// smtpMailer sends plain-text mail through an SMTP relay.
type smtpMailer struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func newSMTPMailer(cfg *config.MailConfig, send sendMailFunc) *smtpMailer {
	m := &smtpMailer{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:     cfg.From,
		sendMail: send,
	}
	if cfg.UserName != "" {
		m.auth = smtp.PlainAuth("", cfg.UserName, cfg.Password, cfg.Host)
	}

	return m
}

func (m *smtpMailer) Send(ctx context.Context, mail *service.Mail) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if strings.ContainsAny(mail.To, "\r\n") || strings.ContainsAny(mail.Subject, "\r\n") {
		return errors.New("mail headers must not contain line breaks")
	}

	if err := m.sendMail(m.addr, m.auth, m.from, []string{mail.To}, buildMessage(m.from, mail, time.Now())); err != nil {
		return errors.Wrapf(err, "failed to send mail to %s", mail.To)
	}

	return nil
}

func buildMessage(from string, mail *service.Mail, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(mail.Body, "\n", "\r\n"))

	return []byte(b.String())
}

// logMailer writes messages to the log instead of sending them.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(_ context.Context, mail *service.Mail) error {
	m.logger.Info("Mail not sent, log provider active",
		slog.String("to", mail.To),
		slog.String("subject", mail.Subject),
		slog.String("body", mail.Body),
	)

	return nil
}

// Params holds dependencies for the mailer, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailer selects the mail provider from configuration.
func NewMailer(params Params) (service.Mailer, error) {
	cfg := params.Config.Mail

	switch cfg.Provider {
	case constants.MailProviderSMTP:
		if cfg.Host == "" || cfg.From == "" {
			return nil, errors.New("smtp mailer requires host and from")
		}
		params.Logger.Info("Using SMTP mailer", slog.String("host", cfg.Host))

		return newSMTPMailer(cfg, smtp.SendMail), nil
	case constants.MailProviderLog, "":
		params.Logger.Info("Using log mailer")

		return &logMailer{logger: params.Logger}, nil
	default:
		return nil, errors.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
}
