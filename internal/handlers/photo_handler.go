package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// PhotoHandler handles photo album requests.
type PhotoHandler struct {
	photoService services.PhotoServicer
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService services.PhotoServicer) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// CreatePhotoRequest records an uploaded photo. object_path comes from
// POST /objects/upload.
type CreatePhotoRequest struct {
	ObjectPath string           `json:"object_path" binding:"required,notblank,max=512"`
	Week       validator.Number `json:"week" swaggertype:"number" example:"20"`
	Caption    *string          `json:"caption" binding:"omitempty,max=500"`
	Date       validator.Date   `json:"date" swaggertype:"string" example:"2025-03-14"`
	IsFavorite bool             `json:"is_favorite"`
	Milestone  *string          `json:"milestone" binding:"omitempty,max=200"`
}

// Validate implements validator.SelfValidator.
func (r *CreatePhotoRequest) Validate(errs validator.FieldErrors) {
	validator.CheckNumber(errs, "week", r.Week)
	validator.WholeNumber(errs, "week", r.Week)
	validator.NumberRange(errs, "week", r.Week, 1, 42)
	validator.CheckDate(errs, "date", r.Date)
}

// UpdatePhotoRequest represents a partial photo update.
type UpdatePhotoRequest struct {
	Week       validator.Number           `json:"week" swaggertype:"number"`
	Caption    validator.Optional[string] `json:"caption" swaggertype:"string"`
	Date       validator.Date             `json:"date" swaggertype:"string"`
	IsFavorite *bool                      `json:"is_favorite"`
	Milestone  validator.Optional[string] `json:"milestone" swaggertype:"string"`
}

// Validate implements validator.SelfValidator.
func (r *UpdatePhotoRequest) Validate(errs validator.FieldErrors) {
	validator.CheckNumber(errs, "week", r.Week)
	validator.WholeNumber(errs, "week", r.Week)
	validator.NumberRange(errs, "week", r.Week, 1, 42)
	validator.RejectNull(errs, "date", r.Date.Null)
	validator.CheckDate(errs, "date", r.Date)
	validator.MaxLength(errs, "caption", r.Caption, 500)
	validator.MaxLength(errs, "milestone", r.Milestone, 200)
}

// CreatePhoto adds a photo to the album
// @Summary     Add a photo
// @Tags        photos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Pregnancy ID"
// @Param       request body CreatePhotoRequest true "Photo"
// @Success     201 {object} map[string]models.Photo
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/photos [post]
func (h *PhotoHandler) CreatePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePhotoRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	photo, err := h.photoService.CreatePhoto(userID, c.Param("id"), services.PhotoInput{
		ObjectPath: req.ObjectPath,
		Week:       req.Week.IntPtr(),
		Caption:    req.Caption,
		Date:       req.Date.Value,
		IsFavorite: req.IsFavorite,
		Milestone:  req.Milestone,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

// GetPhotos lists the album
// @Summary     List photos
// @Tags        photos
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Pregnancy ID"
// @Param       favorites query bool   false "Only favorites"
// @Success     200 {object} map[string][]models.Photo
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/photos [get]
func (h *PhotoHandler) GetPhotos(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	favoritesOnly := c.Query("favorites") == "true"
	photos, err := h.photoService.GetPhotos(userID, c.Param("id"), favoritesOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// UpdatePhoto updates a photo's details
// @Summary     Update a photo
// @Tags        photos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Photo ID"
// @Param       request body UpdatePhotoRequest true "Fields to change"
// @Success     200 {object} map[string]models.Photo
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{id} [put]
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePhotoRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	photo, err := h.photoService.UpdatePhoto(userID, c.Param("id"), services.PhotoUpdate{
		Week:       intField(req.Week),
		Caption:    stringField(req.Caption),
		Date:       req.Date.Ptr(),
		IsFavorite: req.IsFavorite,
		Milestone:  stringField(req.Milestone),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo": photo})
}

// DeletePhoto removes a photo from the album
// @Summary     Delete a photo
// @Tags        photos
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Photo ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{id} [delete]
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.photoService.DeletePhoto(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}
