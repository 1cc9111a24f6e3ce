package main

import (
	"github.com/hibiken/asynq"

	"blog-backend/internal/infrastructure/email"
	emailjob "blog-backend/internal/infrastructure/email/job"
	"blog-backend/internal/infrastructure/queue/handlers"
	"blog-backend/internal/shared"
	"blog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	commentNotification *emailjob.CommentNotificationHandler
	pruneSessions       asynq.HandlerFunc
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	wc := c.Config.Worker
	emailSvc := email.NewSMTPEmailService(wc.SMTPHost, wc.SMTPPort, wc.SMTPFrom)

	return &HandlerRegistry{
		commentNotification: emailjob.NewCommentNotificationHandler(c.CommentRepo, c.PostRepo, emailSvc, wc.PublicBaseURL),
		pruneSessions:       handlers.PruneSessionsHandler(c.Sessions),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Notification tasks
	mux.HandleFunc(shared.TypeNotifyNewComment, h.commentNotification.ProcessTask)

	// Maintenance tasks
	mux.Handle(shared.TypePruneSessions, h.pruneSessions)
}
