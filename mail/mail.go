package mail

import (
	"fmt"
	"regexp"

	"github.com/warden-bot/warden/pkg/log"
	"gopkg.in/gomail.v2"
)

// ErrSendFailed wraps any provider rejection so callers can tell a failed
// dispatch apart from unexpected errors.
var ErrSendFailed = fmt.Errorf("email could not be sent")

var addressPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidAddress reports whether addr looks like a deliverable email address.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

type Mailer interface {
	// Send delivers a plaintext email. A failure to hand the message to
	// the provider is reported as an error wrapping ErrSendFailed.
	Send(recipient, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP account.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(recipient, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	log.Info("email sent to %v", recipient)
	return nil
}
