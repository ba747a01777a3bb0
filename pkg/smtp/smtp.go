package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"strings"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Inbox    string
}

// CooperationNotice is the summary mailed to the partnership inbox.
type CooperationNotice struct {
	CompanyName     string
	ContactPerson   string
	Email           string
	Phone           string
	CooperationType string
	Details         string
}

type ItfSmtp interface {
	NotifyCooperation(notice CooperationNotice) error
}

type sendFunc func(addr string, a smtpPkg.Auth, from string, to []string, msg []byte) error

type smtp struct {
	auth  smtpPkg.Auth
	addr  string
	from  string
	inbox string
	send  sendFunc
}

func New(cfg Config) ItfSmtp {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &smtp{
		auth:  smtpPkg.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		addr:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:  from,
		inbox: cfg.Inbox,
		send:  smtpPkg.SendMail,
	}
}

func (s *smtp) NotifyCooperation(notice CooperationNotice) error {
	return s.send(s.addr, s.auth, s.from, []string{s.inbox}, buildMessage(s.from, s.inbox, notice))
}

func buildMessage(from, to string, n CooperationNotice) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(n.Email))
	fmt.Fprintf(&b, "Subject: New %s cooperation request from %s\r\n", sanitizeHeader(n.CooperationType), sanitizeHeader(n.CompanyName))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "Company: %s\r\n", n.CompanyName)
	fmt.Fprintf(&b, "Contact: %s <%s>\r\n", n.ContactPerson, n.Email)
	if n.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\r\n", n.Phone)
	}
	fmt.Fprintf(&b, "\r\n%s\r\n", n.Details)
	return []byte(b.String())
}

// sanitizeHeader strips line breaks so user input cannot add headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

type noop struct{}

// NewNoop is used when mail is disabled.
func NewNoop() ItfSmtp { return noop{} }

func (noop) NotifyCooperation(CooperationNotice) error { return nil }
