package handler

import (
	"errors"
	"fmt"
	"net/http"

	"kefu/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploads *service.UploadService
	log     *zap.Logger
}

func NewUploadHandler(uploads *service.UploadService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, log: log}
}

func (h *UploadHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Max size is " + formatSize(h.uploads.MaxBytes())})
}

// formatSize renders n in the largest unit that divides it exactly.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes()+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	rec, err := h.uploads.Upload(c.Request.Context(), service.UploadFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	})
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		h.tooLarge(c)
	case errors.Is(err, service.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
	case errors.Is(err, service.ErrBlobNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Blob storage not configured"})
	case err != nil:
		internalError(c, h.log, "Failed to upload file", err)
	default:
		c.JSON(http.StatusOK, gin.H{
			"id":       rec.ID,
			"fileUrl":  rec.FileURL,
			"fileType": rec.FileType,
			"fileName": rec.FileName,
			"fileSize": rec.FileSize,
		})
	}
}

// List handles GET /api/upload.
func (h *UploadHandler) List(c *gin.Context) {
	files, err := h.uploads.Recent()
	if err != nil {
		internalError(c, h.log, "Failed to get files", err)
		return
	}
	c.JSON(http.StatusOK, files)
}
