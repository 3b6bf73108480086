package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"tgbridge/internal/telegram"
)

// MessageService exposes Saved Messages over an already-recovered platform
// connection. It holds no state of its own.
type MessageService struct{}

func NewMessageService() *MessageService {
	return &MessageService{}
}

// MessageView is a saved message plus, for photos, the media inlined as a
// base64 data URL.
type MessageView struct {
	telegram.Message
	MediaBase64 string
}

// List reads recent saved messages. hasMore mirrors whether a full page came
// back, so callers can keep paging by offset id.
func (s *MessageService) List(
	ctx context.Context,
	conn PlatformConn,
	limit, offsetID int,
	mediaOnly bool,
) ([]MessageView, bool, error) {
	if limit <= 0 {
		limit = 10
	}
	messages, err := conn.Messages(ctx, limit, offsetID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		if mediaOnly && msg.Media == nil {
			continue
		}
		views = append(views, s.view(ctx, conn, msg))
	}
	return views, len(messages) == limit, nil
}

func (s *MessageService) Get(ctx context.Context, conn PlatformConn, id int) (*MessageView, error) {
	msg, err := conn.MessageByID(ctx, id)
	if err != nil {
		if errors.Is(err, telegram.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	view := s.view(ctx, conn, *msg)
	return &view, nil
}

func (s *MessageService) Send(ctx context.Context, conn PlatformConn, text string) (*telegram.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidInput)
	}
	msg, err := conn.SendText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return msg, nil
}

func (s *MessageService) Delete(ctx context.Context, conn PlatformConn, id int) error {
	if err := conn.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

// view inlines photo bytes. A failed inline download degrades to the plain
// message rather than failing the listing.
func (s *MessageService) view(ctx context.Context, conn PlatformConn, msg telegram.Message) MessageView {
	view := MessageView{Message: msg}
	if msg.Media == nil || msg.Media.Kind != "photo" {
		return view
	}
	data, mimeType, err := conn.DownloadMediaBytes(ctx, msg.ID)
	if err != nil || len(data) == 0 {
		return view
	}
	view.MediaBase64 = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return view
}
