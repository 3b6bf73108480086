package telegram

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
)

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

type Message struct {
	ID    int
	Date  time.Time
	Text  string
	Media *MediaInfo
}

type MediaInfo struct {
	Kind     string
	MimeType string
	FileName string
	Size     int64
}

func userFromTG(u *tg.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

func messageFromTG(m *tg.Message) Message {
	msg := Message{
		ID:   m.ID,
		Date: time.Unix(int64(m.Date), 0).UTC(),
		Text: m.Message,
	}
	if media, ok := m.GetMedia(); ok {
		msg.Media = mediaInfoFromTG(media)
	}
	return msg
}

func mediaInfoFromTG(media tg.MessageMediaClass) *MediaInfo {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		pc, ok := m.GetPhoto()
		if !ok {
			return nil
		}
		if _, ok := pc.AsNotEmpty(); !ok {
			return nil
		}
		return &MediaInfo{Kind: "photo", MimeType: "image/jpeg"}
	case *tg.MessageMediaDocument:
		dc, ok := m.GetDocument()
		if !ok {
			return nil
		}
		doc, ok := dc.AsNotEmpty()
		if !ok {
			return nil
		}
		info := &MediaInfo{
			Kind:     kindFromMime(doc.MimeType),
			MimeType: doc.MimeType,
			Size:     doc.Size,
		}
		for _, attr := range doc.Attributes {
			if name, ok := attr.(*tg.DocumentAttributeFilename); ok {
				info.FileName = name.FileName
			}
		}
		return info
	default:
		return &MediaInfo{Kind: "unknown"}
	}
}

func kindFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	default:
		return "document"
	}
}
