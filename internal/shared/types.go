package shared

// Task types và queue names dùng chung giữa API (enqueue) và worker (process)
const (
	TypeNotifyNewComment = "comment:notify_author"
	TypePruneSessions    = "session:prune_indexes"

	QueueNotification = "notification"
	QueueMaintenance  = "maintenance"
)

// CommentNotificationPayload is enqueued after a comment is created. The
// worker reloads comment and post so the payload carries ids only.
type CommentNotificationPayload struct {
	CommentID string `json:"commentId"`
	PostID    string `json:"postId"`
}

// PruneSessionsPayload is empty; the job walks every session index.
type PruneSessionsPayload struct{}
