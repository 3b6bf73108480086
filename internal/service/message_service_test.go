package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"tgbridge/internal/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMessages(t *testing.T) {
	conn := &fakeConn{
		messages: []telegram.Message{
			{ID: 3, Date: time.Now(), Text: "three"},
			{ID: 2, Date: time.Now(), Text: "two"},
			{ID: 1, Date: time.Now(), Text: "one"},
		},
	}
	svc := NewMessageService()

	views, hasMore, err := svc.List(context.Background(), conn, 3, 0, false)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.True(t, hasMore, "a full page suggests more behind it")
	assert.Equal(t, "three", views[0].Text)

	views, hasMore, err = svc.List(context.Background(), conn, 10, 0, false)
	require.NoError(t, err)
	assert.Len(t, views, 3)
	assert.False(t, hasMore)
}

func TestListMessagesMediaOnly(t *testing.T) {
	conn := &fakeConn{
		messages: []telegram.Message{
			{ID: 2, Date: time.Now(), Text: "plain"},
			{ID: 1, Date: time.Now(), Media: &telegram.MediaInfo{Kind: "document", MimeType: "application/pdf"}},
		},
	}
	svc := NewMessageService()

	views, _, err := svc.List(context.Background(), conn, 10, 0, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].ID)
}

func TestListMessagesInlinesPhotos(t *testing.T) {
	conn := &fakeConn{
		messages: []telegram.Message{
			{ID: 1, Date: time.Now(), Media: &telegram.MediaInfo{Kind: "photo", MimeType: "image/jpeg"}},
		},
		mediaData: []byte{0xff, 0xd8, 0xff},
		mediaMime: "image/jpeg",
	}
	svc := NewMessageService()

	views, _, err := svc.List(context.Background(), conn, 10, 0, false)
	require.NoError(t, err)
	require.Len(t, views, 1)

	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(conn.mediaData)
	assert.Equal(t, want, views[0].MediaBase64)
}

func TestGetMessage(t *testing.T) {
	conn := &fakeConn{
		messages: []telegram.Message{{ID: 5, Date: time.Now(), Text: "hello"}},
	}
	svc := NewMessageService()

	view, err := svc.Get(context.Background(), conn, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", view.Text)

	_, err = svc.Get(context.Background(), conn, 6)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestSendMessageRequiresText(t *testing.T) {
	svc := NewMessageService()

	_, err := svc.Send(context.Background(), &fakeConn{}, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	msg, err := svc.Send(context.Background(), &fakeConn{}, "hello saved messages")
	require.NoError(t, err)
	assert.Equal(t, "hello saved messages", msg.Text)
}
