package handler

import (
	"net/http"
	"strings"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/pkg/storage"
	"github.com/gin-gonic/gin"
)

// Max avatar size: 5MB
const maxUploadSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler handles avatar uploads
type UploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(storage storage.Storage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// UploadAvatar godoc
// @Summary Upload an avatar image
// @Description Upload an avatar to storage and return the public URL. Supports jpg, png, gif, webp.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image to upload"
// @Success 200 {object} model.UploadResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 413 {object} model.ErrorResponse
// @Router /upload/avatar [post]
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if err.Error() == "http: request body too large" {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "File too large (max 5MB)"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "File is required", Message: err.Error()})
		return
	}
	defer file.Close()

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Unsupported file type",
			Message: "Allowed: jpg, png, gif, webp",
		})
		return
	}

	result, err := h.storage.Upload(c.Request.Context(), file, header, "avatars")
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to upload file", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.UploadResponse{
		URL:      result.URL,
		FileName: result.FileName,
		FileSize: result.FileSize,
		MimeType: result.MimeType,
	})
}
