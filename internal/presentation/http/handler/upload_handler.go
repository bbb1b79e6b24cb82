package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/dto/response"
	"github.com/scrapworks/junkshop-api/pkg/upload"
)

// UploadHandler handles session image uploads
type UploadHandler struct {
	store *upload.Store
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store *upload.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadImage validates and stores a session image, returning its public URL.
// Validation runs before anything touches disk, so a rejected upload leaves
// no partial file behind.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxImageSize+1))
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	object, err := h.store.Put(data, contentType)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			response.ErrorWithCode(c, 413, "Image exceeds the maximum allowed size")
		case errors.Is(err, upload.ErrUnsupportedType):
			response.ErrorWithCode(c, 415, "Unsupported image type")
		case errors.Is(err, upload.ErrEmptyFile):
			response.BadRequest(c, "Uploaded file is empty")
		default:
			response.Error(c, err)
		}
		return
	}

	response.Created(c, "Image uploaded successfully", gin.H{
		"url":  object.PublicURL,
		"path": object.Path,
	})
}
