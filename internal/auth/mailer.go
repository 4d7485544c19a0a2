package auth

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers one-time codes. Delivery is best-effort; a lost mail means
// the customer requests a new code.
type Mailer interface {
	SendCode(email, code string) error
}

// SMTPMailer sends codes through a plain SMTP relay.
type SMTPMailer struct {
	Server string
	Port   string
	User   string
	Pass   string
	From   string
}

func (m SMTPMailer) SendCode(email, code string) error {
	subject := "Your sign-in code"
	body := fmt.Sprintf("Your one-time code is %s. It expires in 5 minutes.", code)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.From, email, subject, body)

	addr := fmt.Sprintf("%s:%s", m.Server, m.Port)
	var a smtp.Auth
	if m.User != "" {
		a = smtp.PlainAuth("", m.User, m.Pass, m.Server)
	}

	go func() {
		if err := smtp.SendMail(addr, a, m.From, []string{email}, []byte(msg)); err != nil {
			log.Printf("Failed to send OTP email to %s: %v", email, err)
		}
	}()

	return nil
}
