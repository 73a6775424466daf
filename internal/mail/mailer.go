// Package mail sends the registration notification over an authenticated
// SMTP submission connection. Delivery is best-effort: callers log and
// discard failures, and registration success never depends on it.
package mail

import (
	"fmt"

	"github.com/eventms/appserver/config"
	gomail "github.com/wneessen/go-mail"
)

const registrationSubject = "Registration Successful"

const registrationBody = `Hello %s,

You have successfully registered to the Event Management System.
Please login to register for upcoming events.

- Event Management Team`

// Mailer delivers notification emails via SMTP.
type Mailer struct {
	client *gomail.Client
	from   string
}

// New constructs a Mailer from the SMTP configuration.
func New(cfg config.SMTPConfig) (*Mailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

// SendRegistrationEmail sends the fixed congratulatory message.
func (m *Mailer) SendRegistrationEmail(to, fullName string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(registrationSubject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(registrationBody, fullName))

	return m.client.DialAndSend(msg)
}
