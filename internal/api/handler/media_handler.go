package handler

import (
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 200 << 20

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	media, err := s.mediaSvc.Upload(c.Request.Context(), viewerOf(c).ID, file.Filename, file.Size, reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, media)
}
