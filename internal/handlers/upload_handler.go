package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/objectstore"
)

// UploadHandler hands out presigned upload URLs.
type UploadHandler struct {
	presigner objectstore.Presigner
}

// NewUploadHandler creates a new UploadHandler. A nil presigner means object
// storage is not configured.
func NewUploadHandler(presigner objectstore.Presigner) *UploadHandler {
	return &UploadHandler{presigner: presigner}
}

// UploadRequest describes the file the client is about to upload.
type UploadRequest struct {
	FileName    string `json:"file_name" binding:"required,notblank,max=255"`
	ContentType string `json:"content_type" binding:"required,notblank,max=100"`
}

// CreateUpload issues a presigned PUT URL
// @Summary     Request an upload URL
// @Description The client PUTs the file to upload_url, then stores object_path on a photo, diary entry or profile.
// @Tags        objects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UploadRequest true "File to upload"
// @Success     201 {object} objectstore.Upload
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Storage not configured"
// @Router      /objects/upload [post]
func (h *UploadHandler) CreateUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UploadRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	if h.presigner == nil {
		respondWithError(c, apperrors.ErrStorageNotConfigured)
		return
	}

	upload, err := h.presigner.PresignUpload(c.Request.Context(), userID, req.FileName, req.ContentType)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, upload)
}
