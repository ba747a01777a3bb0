package smtp

import (
	smtpPkg "net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyCooperation(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg string

	s := New(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "bot@example.com",
		Inbox:    "partners@example.com",
	}).(*smtp)
	s.send = func(addr string, _ smtpPkg.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := s.NotifyCooperation(CooperationNotice{
		CompanyName:     "Acme\r\nBcc: victim@example.com",
		ContactPerson:   "Jane",
		Email:           "jane@acme.test",
		CooperationType: "supply",
		Details:         "Bins for 40 sites",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"partners@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "From: bot@example.com\r\n")
	assert.Contains(t, gotMsg, "Subject: New supply cooperation request from Acme  Bcc: victim@example.com\r\n")
	headers, _, _ := strings.Cut(gotMsg, "\r\n\r\n")
	assert.False(t, strings.Contains(headers, "\r\nBcc:"))
	assert.Contains(t, gotMsg, "Bins for 40 sites")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, NewNoop().NotifyCooperation(CooperationNotice{}))
}
