package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tgbridge/internal/telegram"

	"github.com/google/uuid"
)

// FileService owns the upload and download directories and the transfer of
// local files to and from Saved Messages.
type FileService struct {
	UploadDir   string
	DownloadDir string
}

func NewFileService(uploadDir, downloadDir string) (*FileService, error) {
	for _, dir := range []string{uploadDir, downloadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &FileService{UploadDir: uploadDir, DownloadDir: downloadDir}, nil
}

type FileInfo struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
	URL      string
}

// SaveUpload writes an incoming file under a fresh unique name, keeping the
// original extension.
func (s *FileService) SaveUpload(src io.Reader, originalName string) (*FileInfo, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &FileInfo{Name: name, Path: path, Size: size, URL: "/uploads/" + name}, nil
}

// SendToSavedMessages sends an existing local file through conn.
func (s *FileService) SendToSavedMessages(
	ctx context.Context,
	conn PlatformConn,
	path, caption string,
) (*telegram.Message, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: file path is required", ErrInvalidInput)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, ErrFileNotFound
	}
	msg, err := conn.SendFile(ctx, path, caption)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return msg, nil
}

// DownloadFromMessage fetches the media of a saved message into the download
// directory. An empty fileName gets an auto-generated, mime-derived name.
func (s *FileService) DownloadFromMessage(
	ctx context.Context,
	conn PlatformConn,
	messageID int,
	fileName string,
) (*FileInfo, error) {
	msg, err := conn.MessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, telegram.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if msg.Media == nil {
		return nil, ErrMessageNotFound
	}

	name := strings.TrimSpace(fileName)
	if name == "" {
		name = fmt.Sprintf("downloaded_%d%s", time.Now().UnixMilli(), extensionForMime(msg.Media.MimeType))
	}
	path, err := s.resolve(s.DownloadDir, name)
	if err != nil {
		return nil, err
	}

	if err := conn.DownloadMedia(ctx, messageID, path); err != nil {
		if errors.Is(err, telegram.ErrNoMedia) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Name:     name,
		Path:     path,
		Size:     info.Size(),
		Modified: info.ModTime(),
		URL:      "/downloads/" + name,
	}, nil
}

func (s *FileService) ListUploads() ([]FileInfo, error) {
	return s.list(s.UploadDir, "/uploads/")
}

func (s *FileService) ListDownloads() ([]FileInfo, error) {
	return s.list(s.DownloadDir, "/downloads/")
}

// Delete removes a file from one of the managed directories. kind is
// "uploads" or "downloads"; names trying to escape the directory are refused.
func (s *FileService) Delete(kind, name string) error {
	var dir string
	switch kind {
	case "uploads":
		dir = s.UploadDir
	case "downloads":
		dir = s.DownloadDir
	default:
		return fmt.Errorf("%w: unknown file type %q", ErrInvalidInput, kind)
	}

	path, err := s.resolve(dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}

func (s *FileService) list(dir, urlPrefix string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:     entry.Name(),
			Path:     filepath.Join(dir, entry.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
			URL:      urlPrefix + entry.Name(),
		})
	}
	return files, nil
}

// resolve joins name onto dir and refuses anything that escapes it.
func (s *FileService) resolve(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrForbiddenPath
	}
	base, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(base, name)
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", ErrForbiddenPath
	}
	return path, nil
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "video/mp4":
		return ".mp4"
	case "application/pdf":
		return ".pdf"
	case "text/plain":
		return ".txt"
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".bin"
	}
}
