package notice

import (
	"net/http"

	"CampusManager/internal/auth"
	"CampusManager/internal/upload"
	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoticeHandler exposes notice management and the targeted feeds over HTTP.
type NoticeHandler struct {
	service *NoticeService
	uploads *upload.Store
}

func NewNoticeHandler(service *NoticeService, uploads *upload.Store) *NoticeHandler {
	return &NoticeHandler{service: service, uploads: uploads}
}

// CreateNotice publishes a notice; multipart field "attachments" carries the
// files.
func (h *NoticeHandler) CreateNotice(c echo.Context) error {
	var req CreateNoticeRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	attachments, err := h.uploads.SaveAttachments(c, "attachments")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	notice, err := h.service.CreateNotice(c.Request().Context(), user.ID, req, attachments)
	if err != nil {
		h.deleteFiles(attachments)
		return err
	}
	return response.Success(c, http.StatusCreated, "Notice created successfully", notice)
}

// ListNotices returns every notice for the admin view.
func (h *NoticeHandler) ListNotices(c echo.Context) error {
	notices, err := h.service.ListNotices(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Notices retrieved successfully", notices)
}

// UpdateNotice edits a notice; uploaded attachments replace the old set.
func (h *NoticeHandler) UpdateNotice(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req UpdateNoticeRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	attachments, err := h.uploads.SaveAttachments(c, "attachments")
	if err != nil {
		return err
	}

	notice, err := h.service.UpdateNotice(c.Request().Context(), id, req, attachments)
	if err != nil {
		h.deleteFiles(attachments)
		return err
	}
	return response.Success(c, http.StatusOK, "Notice updated successfully", notice)
}

// DeleteNotice removes the notice and its attachment files.
func (h *NoticeHandler) DeleteNotice(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	if err := h.service.DeleteNotice(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Notice deleted successfully", nil)
}

// VisibleNotices serves the acting student or teacher their targeted feed.
func (h *NoticeHandler) VisibleNotices(c echo.Context) error {
	user := auth.CurrentUser(c)
	notices, err := h.service.VisibleNotices(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Notices retrieved successfully", notices)
}

// MarkViewed records the acting user opening a notice.
func (h *NoticeHandler) MarkViewed(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	user := auth.CurrentUser(c)
	if err := h.service.MarkViewed(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Notice marked as viewed", nil)
}

func (h *NoticeHandler) deleteFiles(files []upload.SavedFile) {
	for _, file := range files {
		h.uploads.Delete(file.Path)
	}
}
