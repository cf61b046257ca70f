package transport

import (
	"github.com/ds124wfegd/avatar-fix/internal/service"
)

type AvatarHandler struct {
	service       service.AvatarService
	downloadName  string
	maxUploadSize int64
}

func NewAvatarHandler(service service.AvatarService, downloadName string, maxUploadSize int64) *AvatarHandler {
	return &AvatarHandler{
		service:       service,
		downloadName:  downloadName,
		maxUploadSize: maxUploadSize,
	}
}
