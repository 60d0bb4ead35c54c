package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("shop@example.com", "ada@example.com", "Order nr. 7", "Dear Ada,\n\nHi."))

	assert.Equal(t, "From: shop@example.com\r\n"+
		"To: ada@example.com\r\n"+
		"Subject: Order nr. 7\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"Dear Ada,\r\n\r\nHi.", msg)
}

func TestSMTPSender_SendEmail(t *testing.T) {
	s, err := NewSMTPSender("smtp.example.com", 2525, "user", "pass", "shop@example.com")
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotAuth smtp.Auth
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo = addr, a, from, to
		return nil
	}

	require.NoError(t, s.SendEmail(context.Background(), "ada@example.com", "Order nr. 7", "body"))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.NotNil(t, gotAuth)
}

func TestSMTPSender_Errors(t *testing.T) {
	_, err := NewSMTPSender("", 25, "", "", "shop@example.com")
	assert.Error(t, err)

	s, err := NewSMTPSender("localhost", 25, "", "", "shop@example.com")
	require.NoError(t, err)
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err = s.SendEmail(context.Background(), "a@b.c", "s", "b")
	assert.ErrorContains(t, err, "refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.SendEmail(ctx, "a@b.c", "s", "b"), context.Canceled)
}
