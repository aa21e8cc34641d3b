// Package email sends transactional mail over plain SMTP.
package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host     string
	port     string
	from     string
	resetURL string
}

// NewService creates a new email service. resetURL is the frontend page the
// reset token gets appended to.
func NewService(host, port, from, resetURL string) *Service {
	return &Service{
		host:     host,
		port:     port,
		from:     from,
		resetURL: resetURL,
	}
}

// SendPasswordReset mails a password-reset link carrying the raw token.
func (s *Service) SendPasswordReset(to, token string) error {
	link := fmt.Sprintf("%s?token=%s", s.resetURL, token)
	body := BuildPasswordResetBody(link)
	return s.send(to, "Reset your password", body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
