package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tgbridge/internal/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileService(t *testing.T) *FileService {
	t.Helper()
	svc, err := NewFileService(filepath.Join(t.TempDir(), "uploads"), filepath.Join(t.TempDir(), "downloads"))
	require.NoError(t, err)
	return svc
}

func TestSaveUploadKeepsExtension(t *testing.T) {
	svc := newTestFileService(t)

	info, err := svc.SaveUpload(strings.NewReader("hello"), "report.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.Name, ".pdf"))
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "/uploads/"+info.Name, info.URL)

	data, err := os.ReadFile(info.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveUploadNamesAreUnique(t *testing.T) {
	svc := newTestFileService(t)

	first, err := svc.SaveUpload(strings.NewReader("a"), "x.txt")
	require.NoError(t, err)
	second, err := svc.SaveUpload(strings.NewReader("b"), "x.txt")
	require.NoError(t, err)
	assert.NotEqual(t, first.Name, second.Name)
}

func TestSendToSavedMessagesMissingFile(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{}

	_, err := svc.SendToSavedMessages(context.Background(), conn, filepath.Join(svc.UploadDir, "nope.txt"), "")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = svc.SendToSavedMessages(context.Background(), conn, "  ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSendToSavedMessages(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{}

	path := filepath.Join(svc.UploadDir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("note"), 0o644))

	msg, err := svc.SendToSavedMessages(context.Background(), conn, path, "a caption")
	require.NoError(t, err)
	assert.Equal(t, "a caption", msg.Text)
}

func TestDownloadFromMessage(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{
		messages: []telegram.Message{
			{ID: 7, Date: time.Now(), Media: &telegram.MediaInfo{Kind: "document", MimeType: "application/pdf"}},
		},
		mediaData: []byte("%PDF"),
	}

	info, err := svc.DownloadFromMessage(context.Background(), conn, 7, "saved.pdf")
	require.NoError(t, err)
	assert.Equal(t, "saved.pdf", info.Name)
	assert.Equal(t, "/downloads/saved.pdf", info.URL)

	data, err := os.ReadFile(info.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestDownloadFromMessageAutoName(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{
		messages: []telegram.Message{
			{ID: 7, Date: time.Now(), Media: &telegram.MediaInfo{Kind: "photo", MimeType: "image/jpeg"}},
		},
		mediaData: []byte{0xff, 0xd8},
	}

	info, err := svc.DownloadFromMessage(context.Background(), conn, 7, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.Name, "downloaded_"))
	assert.True(t, strings.HasSuffix(info.Name, ".jpg"))
}

func TestDownloadFromMessageNotFound(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{}

	_, err := svc.DownloadFromMessage(context.Background(), conn, 99, "")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDownloadFromMessageWithoutMedia(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{
		messages: []telegram.Message{{ID: 7, Date: time.Now(), Text: "plain text"}},
	}

	_, err := svc.DownloadFromMessage(context.Background(), conn, 7, "")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDownloadFromMessageRefusesTraversal(t *testing.T) {
	svc := newTestFileService(t)
	conn := &fakeConn{
		messages: []telegram.Message{
			{ID: 7, Date: time.Now(), Media: &telegram.MediaInfo{Kind: "document", MimeType: "text/plain"}},
		},
	}

	_, err := svc.DownloadFromMessage(context.Background(), conn, 7, "../escape.txt")
	assert.ErrorIs(t, err, ErrForbiddenPath)
}

func TestListUploadsAndDownloads(t *testing.T) {
	svc := newTestFileService(t)

	require.NoError(t, os.WriteFile(filepath.Join(svc.UploadDir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(svc.DownloadDir, "b.txt"), []byte("bb"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(svc.UploadDir, "sub"), 0o755))

	uploads, err := svc.ListUploads()
	require.NoError(t, err)
	require.Len(t, uploads, 1, "directories are skipped")
	assert.Equal(t, "a.txt", uploads[0].Name)
	assert.Equal(t, "/uploads/a.txt", uploads[0].URL)

	downloads, err := svc.ListDownloads()
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, int64(2), downloads[0].Size)
}

func TestDeleteFile(t *testing.T) {
	svc := newTestFileService(t)
	path := filepath.Join(svc.UploadDir, "gone.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, svc.Delete("uploads", "gone.txt"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFileErrors(t *testing.T) {
	svc := newTestFileService(t)

	assert.ErrorIs(t, svc.Delete("uploads", "missing.txt"), ErrFileNotFound)
	assert.ErrorIs(t, svc.Delete("attachments", "a.txt"), ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete("uploads", "../a.txt"), ErrForbiddenPath)
	assert.ErrorIs(t, svc.Delete("downloads", ""), ErrForbiddenPath)
}
