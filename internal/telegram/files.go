package telegram

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// SendFile uploads a local file and posts it to Saved Messages as a document.
func (c *Conn) SendFile(ctx context.Context, path, caption string) (*Message, error) {
	api := c.api()
	up := uploader.NewUploader(api)

	file, err := up.FromPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	var doc *message.UploadedDocumentBuilder
	if caption != "" {
		doc = message.UploadedDocument(file, styling.Plain(caption))
	} else {
		doc = message.UploadedDocument(file)
	}
	doc.Filename(filepath.Base(path)).ForceFile(true)

	upd, err := message.NewSender(api).WithUploader(up).Self().Media(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("send file: %w", err)
	}
	id, date := sentMessageInfo(upd)
	return &Message{ID: id, Date: date, Text: caption}, nil
}

// DownloadMedia fetches the media of a Saved Messages entry into path.
func (c *Conn) DownloadMedia(ctx context.Context, messageID int, path string) error {
	loc, err := c.mediaLocation(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := downloader.NewDownloader().Download(c.api(), loc).ToPath(ctx, path); err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	return nil
}

// DownloadMediaBytes fetches media into memory and reports its mime type.
// Used to inline small photos into message listings.
func (c *Conn) DownloadMediaBytes(ctx context.Context, messageID int) ([]byte, string, error) {
	raw, err := c.rawMessageByID(ctx, messageID)
	if err != nil {
		return nil, "", err
	}
	media, ok := raw.GetMedia()
	if !ok {
		return nil, "", ErrNoMedia
	}
	loc, err := downloadLocation(media)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if _, err := downloader.NewDownloader().Download(c.api(), loc).Stream(ctx, &buf); err != nil {
		return nil, "", fmt.Errorf("download media: %w", err)
	}

	mimeType := "application/octet-stream"
	if info := mediaInfoFromTG(media); info != nil && info.MimeType != "" {
		mimeType = info.MimeType
	}
	return buf.Bytes(), mimeType, nil
}

func (c *Conn) mediaLocation(ctx context.Context, messageID int) (tg.InputFileLocationClass, error) {
	raw, err := c.rawMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	media, ok := raw.GetMedia()
	if !ok {
		return nil, ErrNoMedia
	}
	return downloadLocation(media)
}

func downloadLocation(media tg.MessageMediaClass) (tg.InputFileLocationClass, error) {
	switch m := media.(type) {
	case *tg.MessageMediaDocument:
		dc, ok := m.GetDocument()
		if !ok {
			return nil, ErrNoMedia
		}
		doc, ok := dc.AsNotEmpty()
		if !ok {
			return nil, ErrNoMedia
		}
		return doc.AsInputDocumentFileLocation(), nil
	case *tg.MessageMediaPhoto:
		pc, ok := m.GetPhoto()
		if !ok {
			return nil, ErrNoMedia
		}
		photo, ok := pc.AsNotEmpty()
		if !ok {
			return nil, ErrNoMedia
		}
		return &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     largestSizeType(photo.Sizes),
		}, nil
	default:
		return nil, ErrNoMedia
	}
}

// Sizes arrive ordered smallest to largest.
func largestSizeType(sizes []tg.PhotoSizeClass) string {
	t := ""
	for _, s := range sizes {
		t = s.GetType()
	}
	return t
}
