package job

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commentmodel "blog-backend/internal/domains/comment/model"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/email"
	"blog-backend/internal/shared"
)

type fakeComments map[uuid.UUID]*commentmodel.Comment

func (f fakeComments) GetByID(ctx context.Context, id uuid.UUID) (*commentmodel.Comment, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, commentmodel.ErrCommentNotFound
}

type fakePosts map[uuid.UUID]*postmodel.Post

func (f fakePosts) GetByID(ctx context.Context, id uuid.UUID) (*postmodel.Post, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, postmodel.ErrPostNotFound
}

type recordingMailer struct {
	sent []email.CommentNotificationData
	err  error
}

func (r *recordingMailer) SendCommentNotification(ctx context.Context, data email.CommentNotificationData) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, data)
	return nil
}

type fixture struct {
	handler  *CommentNotificationHandler
	mailer   *recordingMailer
	comments fakeComments
	post     *postmodel.Post
}

func newFixture() *fixture {
	alice := uuid.New()
	post := &postmodel.Post{
		ID: uuid.New(), Title: "Go generics", Slug: "go-generics",
		AuthorID: alice, AuthorUsername: "alice", AuthorEmail: "alice@example.com",
	}
	f := &fixture{
		mailer:   &recordingMailer{},
		comments: fakeComments{},
		post:     post,
	}
	f.handler = NewCommentNotificationHandler(f.comments, fakePosts{post.ID: post}, f.mailer, "http://blog.test/")
	return f
}

func (f *fixture) comment(author uuid.UUID, username, content string) *asynq.Task {
	c := &commentmodel.Comment{
		ID: uuid.New(), PostID: f.post.ID, AuthorID: author, AuthorUsername: username, Content: content,
	}
	f.comments[c.ID] = c
	return task(c.ID.String(), f.post.ID.String())
}

func task(commentID, postID string) *asynq.Task {
	payload, _ := json.Marshal(shared.CommentNotificationPayload{CommentID: commentID, PostID: postID})
	return asynq.NewTask(shared.TypeNotifyNewComment, payload)
}

func TestCommentNotification_Sends(t *testing.T) {
	f := newFixture()

	err := f.handler.ProcessTask(context.Background(), f.comment(uuid.New(), "bob", "great\n\nread"))
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.sent[0]
	assert.Equal(t, "alice@example.com", sent.To)
	assert.Equal(t, "bob", sent.Commenter)
	assert.Equal(t, "great read", sent.Excerpt)
	assert.Equal(t, "http://blog.test/api/v1/posts/go-generics", sent.PostURL)
}

func TestCommentNotification_Skips(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// own comment
	require.NoError(t, f.handler.ProcessTask(ctx, f.comment(f.post.AuthorID, "alice", "note to self")))
	// comment deleted before the job ran
	require.NoError(t, f.handler.ProcessTask(ctx, task(uuid.NewString(), f.post.ID.String())))

	assert.Empty(t, f.mailer.sent)
}

func TestCommentNotification_BadPayloadSkipsRetry(t *testing.T) {
	f := newFixture()

	err := f.handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeNotifyNewComment, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = f.handler.ProcessTask(context.Background(), task("nope", "nope"))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCommentNotification_MailFailureRetries(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("smtp down")

	err := f.handler.ProcessTask(context.Background(), f.comment(uuid.New(), "bob", "hi"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b", excerpt("  a\n b "))

	long := excerpt(strings.Repeat("é", excerptRunes+5))
	assert.True(t, strings.HasSuffix(long, "…"))
	assert.Equal(t, excerptRunes+1, len([]rune(long)))
}
