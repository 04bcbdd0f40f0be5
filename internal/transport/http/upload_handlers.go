package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/upload"
)

// UploadHandlers accepts attachment uploads ahead of message creation.
type UploadHandlers struct {
	uploads *upload.Store
	log     *zerolog.Logger
}

// NewUploadHandlers creates a new upload handlers instance.
func NewUploadHandlers(uploads *upload.Store, logger *zerolog.Logger) *UploadHandlers {
	return &UploadHandlers{uploads: uploads, log: logger}
}

// UploadResponse carries the public URL of a stored attachment.
type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// Upload handles multipart attachment uploads.
// POST /upload
func (h *UploadHandlers) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("failed to open upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("failed to read upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	fileURL, err := h.uploads.Save(data, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) || errors.Is(err, upload.ErrEmptyFile) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("filename", fileHeader.Filename).Str("file_url", fileURL).Msg("file uploaded")
	c.JSON(http.StatusOK, UploadResponse{FileURL: fileURL})
}
