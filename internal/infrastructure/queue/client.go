package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"blog-backend/internal/shared"
)

// Client enqueues background tasks for the worker.
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

// NotifyComment schedules the new-comment email. The task id is the comment
// id so a retried request never mails twice.
func (c *Client) NotifyComment(ctx context.Context, commentID, postID uuid.UUID) error {
	payload, err := json.Marshal(shared.CommentNotificationPayload{
		CommentID: commentID.String(),
		PostID:    postID.String(),
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeNotifyNewComment, payload,
		asynq.Queue(shared.QueueNotification),
		asynq.TaskID("comment-notify:"+commentID.String()),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)

	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeNotifyNewComment, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
