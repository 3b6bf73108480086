package dto

import (
	"time"

	"tgbridge/internal/service"
)

type SendFileRequest struct {
	FilePath string `json:"filePath" validate:"required"`
	Caption  string `json:"caption" validate:"omitempty"`
}

type DownloadFileRequest struct {
	MessageID int    `json:"messageId" validate:"required"`
	FileName  string `json:"fileName" validate:"omitempty"`
}

type UploadedFile struct {
	OriginalName string `json:"originalName"`
	FileName     string `json:"filename"`
	Size         int64  `json:"size"`
	Caption      string `json:"caption,omitempty"`
}

type UploadFileResponse struct {
	Message        string       `json:"message"`
	File           UploadedFile `json:"file"`
	TelegramResult SentMessage  `json:"telegramResult"`
}

type SendFileResponse struct {
	Message        string      `json:"message"`
	TelegramResult SentMessage `json:"telegramResult"`
}

type DownloadFileResponse struct {
	Message     string `json:"message"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadUrl"`
	Size        int64  `json:"size"`
}

type FileEntry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	URL      string    `json:"url"`
}

type ListFilesResponse struct {
	Files []FileEntry `json:"files"`
	Count int         `json:"count"`
}

type DeleteFileResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}

func FileEntriesFromInfos(infos []service.FileInfo) []FileEntry {
	entries := make([]FileEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, FileEntry{
			Name:     info.Name,
			Size:     info.Size,
			Modified: info.Modified,
			URL:      info.URL,
		})
	}
	return entries
}
