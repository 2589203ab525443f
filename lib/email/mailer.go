package email

import (
	"fmt"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Message is a rendered email ready to send.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends rendered messages.
type Mailer interface {
	Send(msg *Message) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	Logger *logrus.Logger
}

// NewSMTPMailer creates a mailer for the given relay. Port is the SMTP
// submission port, usually 587.
func NewSMTPMailer(host string, port int, username, password, from string, logger *logrus.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		Logger: logger,
	}
}

// Send delivers the message. Failures are returned to the caller; the deal
// operations that send mail treat delivery as part of the operation.
func (m *SMTPMailer) Send(msg *Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To...)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		mail.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.Logger.WithFields(logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
			"error":   err.Error(),
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.Logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Successfully sent email")

	return nil
}
