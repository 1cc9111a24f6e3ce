package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"blog-backend/pkg/logger"
)

type EmailService interface {
	SendCommentNotification(ctx context.Context, data CommentNotificationData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPEmailService sends plain-text mail through an unauthenticated relay
// (MailHog/Mailpit in development).
func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
		send:     smtp.SendMail,
	}
}

func (s *smtpEmailService) SendCommentNotification(ctx context.Context, data CommentNotificationData) error {
	subject := fmt.Sprintf("New comment on %q", data.PostTitle)
	body := fmt.Sprintf(`Hi %s,

%s commented on your post "%s":

    %s

Read the conversation: %s
`, data.Author, data.Commenter, data.PostTitle, data.Excerpt, data.PostURL)

	return s.sendMail(ctx, EmailRequest{To: []string{data.To}, Subject: subject, Body: body})
}

func (s *smtpEmailService) sendMail(ctx context.Context, req EmailRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.smtpFrom, strings.Join(req.To, ", "), req.Subject, req.Body))

	// Gửi email qua SMTP
	if err := s.send(s.smtpAddr, nil, s.smtpFrom, req.To, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        strings.Join(req.To, ","),
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
