package mail

import (
	"bytes"
	"context"
	"log/slog"
	"net/smtp"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	send := func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)

		return nil
	}

	m := newSMTPMailer(&config.MailConfig{Host: "mail.local", Port: 2525, From: "shop@example.com"}, send)
	err := m.Send(context.Background(), &service.Mail{
		To:      "ana@example.com",
		Subject: "Order confirmed",
		Body:    "line one\nline two",
	})
	require.NoError(t, err)

	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Order confirmed\r\n")
	assert.Contains(t, gotMsg, "line one\r\nline two")
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m := newSMTPMailer(&config.MailConfig{Host: "mail.local", Port: 25, From: "shop@example.com"},
		func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send must not be called")

			return nil
		})

	err := m.Send(context.Background(), &service.Mail{To: "a@example.com\r\nBcc: x@example.com", Subject: "hi"})
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := string(buildMessage("shop@example.com", &service.Mail{To: "b@example.com", Subject: "s", Body: "b"}, now))

	assert.Contains(t, msg, "From: shop@example.com\r\n")
	assert.Contains(t, msg, "Date: Fri, 02 Jan 2026 03:04:05 +0000\r\n")
	assert.Contains(t, msg, "\r\n\r\nb")
}

func TestNewMailer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m, err := NewMailer(Params{Config: &config.Config{Mail: &config.MailConfig{}}, Logger: logger})
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), &service.Mail{To: "c@example.com", Subject: "hello"}))
	assert.Contains(t, buf.String(), "c@example.com")

	_, err = NewMailer(Params{Config: &config.Config{Mail: &config.MailConfig{Provider: constants.MailProviderSMTP}}, Logger: logger})
	assert.Error(t, err)

	_, err = NewMailer(Params{Config: &config.Config{Mail: &config.MailConfig{Provider: "pigeon"}}, Logger: logger})
	assert.Error(t, err)
}
