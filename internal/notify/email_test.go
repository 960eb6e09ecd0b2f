package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adreel/adreel-api/internal/script"
)

// fakeSender captures the outgoing mail.
type fakeSender struct {
	sent []*mail.SGMailV3
	resp *rest.Response
	err  error
}

func (f *fakeSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.resp == nil {
		return &rest.Response{StatusCode: 202}, f.err
	}
	return f.resp, f.err
}

func readyScript() *script.Script {
	sc := script.New("productivity app", "Stop scrolling.", "Our app saves hours.", "Try it free.")
	sc.Video = script.VideoJob{
		Status:    script.VideoComplete,
		Provider:  script.ProviderHeyGen,
		ResultURL: "https://cdn/v.mp4",
	}
	return sc
}

func TestEmailNotifier_Disabled(t *testing.T) {
	n := NewEmailNotifier("", "from@example.com", "to@example.com", nil)
	assert.False(t, n.Enabled())

	// Disabled notifier is a silent no-op.
	require.NoError(t, n.VideoReady(context.Background(), readyScript()))
}

func TestEmailNotifier_VideoReady(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifier("key", "from@example.com", "to@example.com", nil)
	n.client = sender

	require.NoError(t, n.VideoReady(context.Background(), readyScript()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Contains(t, msg.Subject, "productivity app")
	assert.Equal(t, "from@example.com", msg.From.Address)
	require.NotEmpty(t, msg.Personalizations)
	require.NotEmpty(t, msg.Personalizations[0].To)
	assert.Equal(t, "to@example.com", msg.Personalizations[0].To[0].Address)
	require.NotEmpty(t, msg.Content)
	assert.Contains(t, msg.Content[0].Value, "https://cdn/v.mp4")
}

func TestEmailNotifier_VideoReady_PrefersArchiveURL(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifier("key", "from@example.com", "to@example.com", nil)
	n.client = sender

	sc := readyScript()
	sc.Video.ArchiveURL = "https://bucket.s3.amazonaws.com/videos/x.mp4"

	require.NoError(t, n.VideoReady(context.Background(), sc))
	assert.Contains(t, sender.sent[0].Content[0].Value, "https://bucket.s3.amazonaws.com/videos/x.mp4")
}

func TestEmailNotifier_VideoReady_SendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	n := NewEmailNotifier("key", "from@example.com", "to@example.com", nil)
	n.client = sender

	err := n.VideoReady(context.Background(), readyScript())
	require.Error(t, err)
}

func TestEmailNotifier_VideoReady_RejectedByAPI(t *testing.T) {
	sender := &fakeSender{resp: &rest.Response{StatusCode: 401, Body: "unauthorized"}}
	n := NewEmailNotifier("key", "from@example.com", "to@example.com", nil)
	n.client = sender

	err := n.VideoReady(context.Background(), readyScript())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
