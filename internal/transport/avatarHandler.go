package transport

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *AvatarHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"downloadName": h.downloadName})
}

// UploadImage runs one invocation. maxUploadSize <= 0 means no limit.
func (h *AvatarHandler) UploadImage(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	fileHeader, err := c.FormFile("image")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logrus.WithField("limit", tooLarge.Limit).Warn("Upload exceeds configured size limit")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload exceeds configured size limit"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	file, err := readSourceFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return
	}

	state, err := h.service.Select(c.Request.Context(), sessionID(c), file)
	if err != nil {
		logrus.WithError(err).Error("Upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, entity.NewStateResponse(state))
}

func (h *AvatarHandler) GetState(c *gin.Context) {
	state, err := h.service.State(c.Request.Context(), sessionID(c))
	if err != nil {
		logrus.WithError(err).Error("State lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, entity.NewStateResponse(state))
}

func (h *AvatarHandler) Download(c *gin.Context) {
	rendition, err := h.service.Download(c.Request.Context(), sessionID(c))
	if errors.Is(err, entity.ErrNothingToExport) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing to download yet"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Download failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.downloadName))
	c.Data(http.StatusOK, rendition.MIME, rendition.Data)
}

// readSourceFile trusts the declared type unless the browser sent none.
func readSourceFile(fileHeader *multipart.FileHeader) (entity.SourceFile, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return entity.SourceFile{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return entity.SourceFile{}, err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	return entity.SourceFile{
		Name:        fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
