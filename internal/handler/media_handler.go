package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/config"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/response"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/service"
)

// MediaHandler serves uploaded assets. Files are fetched with the signed URL
// the draft engine hands out, so the browser needs no Authorization header.
type MediaHandler struct {
	mediaService *service.MediaService
	cfg          *config.Config
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, cfg *config.Config) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, cfg: cfg}
}

// ServeAsset godoc
// GET /uploads/:filename?exp=...&sig=...
// Serves one uploaded file after verifying the signature and expiry.
func (h *MediaHandler) ServeAsset(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || strings.HasPrefix(filename, ".") {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assetURL := "/uploads/" + filename
	if !h.mediaService.VerifySignedURL(assetURL, c.Query("exp"), c.Query("sig")) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	c.File(filepath.Join(h.cfg.UploadDir, filename))
}
