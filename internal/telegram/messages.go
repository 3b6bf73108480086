package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"
)

// Messages reads the most recent Saved Messages entries, newest first.
func (c *Conn) Messages(ctx context.Context, limit, offsetID int) ([]Message, error) {
	res, err := c.api().MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     &tg.InputPeerSelf{},
		Limit:    limit,
		OffsetID: offsetID,
	})
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	modified, ok := res.(tg.ModifiedMessagesMessages)
	if !ok {
		return nil, fmt.Errorf("telegram: unexpected history response %T", res)
	}

	raw := modified.GetMessages()
	out := make([]Message, 0, len(raw))
	for _, m := range raw {
		msg, ok := m.(*tg.Message)
		if !ok {
			continue
		}
		out = append(out, messageFromTG(msg))
	}
	return out, nil
}

func (c *Conn) MessageByID(ctx context.Context, id int) (*Message, error) {
	raw, err := c.rawMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	msg := messageFromTG(raw)
	return &msg, nil
}

func (c *Conn) rawMessageByID(ctx context.Context, id int) (*tg.Message, error) {
	res, err := c.api().MessagesGetMessages(ctx, []tg.InputMessageClass{
		&tg.InputMessageID{ID: id},
	})
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	modified, ok := res.(tg.ModifiedMessagesMessages)
	if !ok {
		return nil, fmt.Errorf("telegram: unexpected messages response %T", res)
	}
	for _, m := range modified.GetMessages() {
		if msg, ok := m.(*tg.Message); ok && msg.ID == id {
			return msg, nil
		}
	}
	return nil, ErrMessageNotFound
}

// SendText posts a text message to Saved Messages.
func (c *Conn) SendText(ctx context.Context, text string) (*Message, error) {
	upd, err := message.NewSender(c.api()).Self().Text(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	id, date := sentMessageInfo(upd)
	return &Message{ID: id, Date: date, Text: text}, nil
}

// DeleteMessage removes a Saved Messages entry, revoking it for all devices.
func (c *Conn) DeleteMessage(ctx context.Context, id int) error {
	if _, err := c.api().MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		ID:     []int{id},
		Revoke: true,
	}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// sentMessageInfo digs the new message id out of the updates Telegram returns
// for a send. Falls back to a zero id rather than failing the whole send.
func sentMessageInfo(upd tg.UpdatesClass) (int, time.Time) {
	switch u := upd.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID, time.Unix(int64(u.Date), 0).UTC()
	case *tg.Updates:
		for _, x := range u.Updates {
			switch v := x.(type) {
			case *tg.UpdateMessageID:
				return v.ID, time.Now().UTC()
			case *tg.UpdateNewMessage:
				if m, ok := v.Message.(*tg.Message); ok {
					return m.ID, time.Unix(int64(m.Date), 0).UTC()
				}
			}
		}
	}
	return 0, time.Now().UTC()
}
