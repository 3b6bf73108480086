package handler

import (
	"net/http"
	"strconv"

	"tgbridge/api/middleware"
	"tgbridge/internal/dto"
	"tgbridge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type MessageHandler struct {
	Service  *service.MessageService
	Validate *validator.Validate
}

func NewMessageHandler(svc *service.MessageService, validate *validator.Validate) *MessageHandler {
	return &MessageHandler{Service: svc, Validate: validate}
}

func (h *MessageHandler) List(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	limit := intQueryParam(c, "limit", 10)
	offsetID := intQueryParam(c, "offset", 0)
	mediaOnly := c.QueryParam("mediaOnly") == "true"

	views, hasMore, err := h.Service.List(c.Request().Context(), conn, limit, offsetID, mediaOnly)
	if err != nil {
		return writeServiceError(c, err)
	}
	items := dto.MessageItemsFromViews(views)
	return c.JSON(http.StatusOK, dto.ListMessagesResponse{
		Messages: items,
		Count:    len(items),
		HasMore:  hasMore,
	})
}

func (h *MessageHandler) Get(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.Atoi(c.Param("messageId"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid message id")
	}
	view, err := h.Service.Get(c.Request().Context(), conn, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.GetMessageResponse{Message: dto.MessageItemFromView(*view)})
}

func (h *MessageHandler) Send(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.SendMessageRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, "message text is required")
	}
	msg, err := h.Service.Send(c.Request().Context(), conn, req.Text)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SendMessageResponse{
		Message: "message sent successfully",
		Result:  dto.SentMessageFromTelegram(msg),
	})
}

func (h *MessageHandler) Delete(c echo.Context) error {
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.Atoi(c.Param("messageId"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid message id")
	}
	if err := h.Service.Delete(c.Request().Context(), conn, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DeleteMessageResponse{
		Message:   "message deleted successfully",
		MessageID: id,
	})
}
