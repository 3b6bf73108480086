package handler

import (
	"net/http"

	"tgbridge/api/middleware"
	"tgbridge/internal/dto"
	"tgbridge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type FileHandler struct {
	Files    *service.FileService
	Validate *validator.Validate
}

func NewFileHandler(files *service.FileService, validate *validator.Validate) *FileHandler {
	return &FileHandler{Files: files, Validate: validate}
}

// Upload accepts a multipart file, stores it in the upload directory, then
// forwards it to Saved Messages with the optional caption.
func (h *FileHandler) Upload(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "no file uploaded")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return writeError(c, http.StatusBadRequest, "no file uploaded")
	}
	defer src.Close()

	caption := c.FormValue("caption")

	saved, err := h.Files.SaveUpload(src, fileHeader.Filename)
	if err != nil {
		return writeServiceError(c, err)
	}
	msg, err := h.Files.SendToSavedMessages(c.Request().Context(), conn, saved.Path, caption)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UploadFileResponse{
		Message: "file uploaded and sent successfully",
		File: dto.UploadedFile{
			OriginalName: fileHeader.Filename,
			FileName:     saved.Name,
			Size:         saved.Size,
			Caption:      caption,
		},
		TelegramResult: dto.SentMessageFromTelegram(msg),
	})
}

// Send forwards a file that already exists on local disk.
func (h *FileHandler) Send(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.SendFileRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, "file path is required")
	}
	msg, err := h.Files.SendToSavedMessages(c.Request().Context(), conn, req.FilePath, req.Caption)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SendFileResponse{
		Message:        "file sent successfully",
		TelegramResult: dto.SentMessageFromTelegram(msg),
	})
}

// Download pulls a saved message's media into the download directory.
func (h *FileHandler) Download(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.DownloadFileRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, "message id is required")
	}
	info, err := h.Files.DownloadFromMessage(c.Request().Context(), conn, req.MessageID, req.FileName)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DownloadFileResponse{
		Message:     "file downloaded successfully",
		FileName:    info.Name,
		DownloadURL: info.URL,
		Size:        info.Size,
	})
}

func (h *FileHandler) ListUploads(c echo.Context) error {
	infos, err := h.Files.ListUploads()
	if err != nil {
		return writeServiceError(c, err)
	}
	entries := dto.FileEntriesFromInfos(infos)
	return c.JSON(http.StatusOK, dto.ListFilesResponse{Files: entries, Count: len(entries)})
}

func (h *FileHandler) ListDownloads(c echo.Context) error {
	infos, err := h.Files.ListDownloads()
	if err != nil {
		return writeServiceError(c, err)
	}
	entries := dto.FileEntriesFromInfos(infos)
	return c.JSON(http.StatusOK, dto.ListFilesResponse{Files: entries, Count: len(entries)})
}

func (h *FileHandler) Delete(c echo.Context) error {
	kind := c.Param("type")
	name := c.Param("fileName")
	if err := h.Files.Delete(kind, name); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DeleteFileResponse{
		Message:  "file deleted successfully",
		FileName: name,
	})
}
