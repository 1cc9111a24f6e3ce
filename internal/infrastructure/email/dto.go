package email

// CommentNotificationData is everything the new-comment email needs
type CommentNotificationData struct {
	To        string
	Author    string // post author username
	Commenter string
	PostTitle string
	PostURL   string
	Excerpt   string
}

type EmailRequest struct {
	To      []string
	Subject string
	Body    string
}
