package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCommentNotification(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	svc := &smtpEmailService{
		smtpAddr: "localhost:1025",
		smtpFrom: "noreply@blog.dev",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	err := svc.SendCommentNotification(context.Background(), CommentNotificationData{
		To:        "alice@example.com",
		Author:    "alice",
		Commenter: "bob",
		PostTitle: "Go generics",
		PostURL:   "http://localhost:8080/api/v1/posts/go-generics",
		Excerpt:   "great read",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", gotAddr)
	assert.Equal(t, "noreply@blog.dev", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: New comment on \"Go generics\"")
	assert.Contains(t, string(gotMsg), "bob commented on your post")
	assert.Contains(t, string(gotMsg), "/posts/go-generics")
}

func TestSendCommentNotification_Failure(t *testing.T) {
	svc := &smtpEmailService{
		smtpAddr: "localhost:1025",
		send: func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		},
	}

	err := svc.SendCommentNotification(context.Background(), CommentNotificationData{To: "a@b.c"})
	assert.ErrorContains(t, err, "connection refused")
}
