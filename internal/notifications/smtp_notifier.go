package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends borrow confirmations through a plain SMTP relay with
// AUTH PLAIN. net/smtp has no context support, so the send runs in a
// goroutine and the caller's deadline is honored by abandoning the wait.
type SMTPNotifier struct {
	host string
	port string
	user string
	pass string
	from string
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	from := cfg.From

	if from == "" {
		from = cfg.User
	}

	return &SMTPNotifier{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		pass: cfg.Pass,
		from: from,
	}
}

func (n *SMTPNotifier) SendBorrowConfirmation(ctx context.Context, in SendBorrowConfirmationInput) error {
	subject := "Borrowed a Book"
	body := "You borrowed the book " + in.BookTitle

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + in.Email,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", n.host, n.port)
	auth := smtp.PlainAuth("", n.user, n.pass, n.host)

	done := make(chan error, 1)

	go func() {
		done <- smtp.SendMail(addr, auth, n.from, []string{in.Email}, []byte(msg))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
