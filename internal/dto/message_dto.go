package dto

import (
	"strconv"
	"time"

	"tgbridge/internal/service"
	"tgbridge/internal/telegram"
)

type MessageItem struct {
	ID          int        `json:"id"`
	Date        time.Time  `json:"date"`
	Text        string     `json:"text"`
	HasMedia    bool       `json:"hasMedia"`
	MediaType   string     `json:"mediaType,omitempty"`
	MediaInfo   *MediaInfo `json:"mediaInfo,omitempty"`
	MediaBase64 string     `json:"mediaBase64,omitempty"`
}

type MediaInfo struct {
	Type     string `json:"type"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

type ListMessagesResponse struct {
	Messages []MessageItem `json:"messages"`
	Count    int           `json:"count"`
	HasMore  bool          `json:"hasMore"`
}

type GetMessageResponse struct {
	Message MessageItem `json:"message"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type SentMessage struct {
	ID   int       `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

type SendMessageResponse struct {
	Message string      `json:"message"`
	Result  SentMessage `json:"result"`
}

type DeleteMessageResponse struct {
	Message   string `json:"message"`
	MessageID int    `json:"messageId"`
}

func MessageItemFromView(view service.MessageView) MessageItem {
	item := MessageItem{
		ID:          view.ID,
		Date:        view.Date,
		Text:        view.Text,
		HasMedia:    view.Media != nil,
		MediaBase64: view.MediaBase64,
	}
	if view.Media != nil {
		item.MediaType = view.Media.Kind
		item.MediaInfo = &MediaInfo{
			Type:     view.Media.Kind,
			MimeType: view.Media.MimeType,
			Size:     view.Media.Size,
			FileName: view.Media.FileName,
		}
	}
	return item
}

func MessageItemsFromViews(views []service.MessageView) []MessageItem {
	items := make([]MessageItem, 0, len(views))
	for _, view := range views {
		items = append(items, MessageItemFromView(view))
	}
	return items
}

func SentMessageFromTelegram(msg *telegram.Message) SentMessage {
	return SentMessage{ID: msg.ID, Date: msg.Date, Text: msg.Text}
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}
