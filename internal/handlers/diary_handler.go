package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// DiaryHandler handles diary entries and their attachments.
type DiaryHandler struct {
	diaryService services.DiaryServicer
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(diaryService services.DiaryServicer) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// CreateDiaryEntryRequest represents a diary entry. date defaults to now.
type CreateDiaryEntryRequest struct {
	Title     string           `json:"title" binding:"required,notblank,max=200"`
	Content   string           `json:"content" binding:"required,notblank,max=20000"`
	Week      validator.Number `json:"week" swaggertype:"number" example:"20"`
	Mood      validator.Number `json:"mood" swaggertype:"number" example:"4"`
	Emotions  []string         `json:"emotions" binding:"omitempty,max=20,dive,max=50"`
	Milestone *string          `json:"milestone" binding:"omitempty,max=200"`
	Prompts   []string         `json:"prompts" binding:"omitempty,max=20,dive,max=500"`
	Date      validator.Date   `json:"date" swaggertype:"string" example:"2025-03-14"`
	ImagePath *string          `json:"image_path" binding:"omitempty,max=512"`
}

// Validate implements validator.SelfValidator.
func (r *CreateDiaryEntryRequest) Validate(errs validator.FieldErrors) {
	validator.CheckNumber(errs, "week", r.Week)
	validator.WholeNumber(errs, "week", r.Week)
	validator.NumberRange(errs, "week", r.Week, 1, 42)
	validator.CheckNumber(errs, "mood", r.Mood)
	validator.WholeNumber(errs, "mood", r.Mood)
	validator.NumberRange(errs, "mood", r.Mood, 1, 5)
	validator.CheckDate(errs, "date", r.Date)
}

// UpdateDiaryEntryRequest represents a partial diary entry update. A null
// emotions or prompts list clears it.
type UpdateDiaryEntryRequest struct {
	Title     *string                      `json:"title" binding:"omitempty,notblank,max=200"`
	Content   *string                      `json:"content" binding:"omitempty,notblank,max=20000"`
	Week      validator.Number             `json:"week" swaggertype:"number"`
	Mood      validator.Number             `json:"mood" swaggertype:"number"`
	Emotions  validator.Optional[[]string] `json:"emotions" swaggertype:"array,string"`
	Milestone validator.Optional[string]   `json:"milestone" swaggertype:"string"`
	Prompts   validator.Optional[[]string] `json:"prompts" swaggertype:"array,string"`
	Date      validator.Date               `json:"date" swaggertype:"string"`
	ImagePath validator.Optional[string]   `json:"image_path" swaggertype:"string"`
}

// Validate implements validator.SelfValidator.
func (r *UpdateDiaryEntryRequest) Validate(errs validator.FieldErrors) {
	validator.CheckNumber(errs, "week", r.Week)
	validator.WholeNumber(errs, "week", r.Week)
	validator.NumberRange(errs, "week", r.Week, 1, 42)
	validator.CheckNumber(errs, "mood", r.Mood)
	validator.WholeNumber(errs, "mood", r.Mood)
	validator.NumberRange(errs, "mood", r.Mood, 1, 5)
	validator.RejectNull(errs, "date", r.Date.Null)
	validator.CheckDate(errs, "date", r.Date)
	validator.MaxLength(errs, "milestone", r.Milestone, 200)
	validator.MaxLength(errs, "image_path", r.ImagePath, 512)
	if len(r.Emotions.Value) > 20 {
		errs.Add("emotions", "must be at most 20 items")
	}
	if len(r.Prompts.Value) > 20 {
		errs.Add("prompts", "must be at most 20 items")
	}
}

// listField maps an optional list to the service's convention: nil leaves
// the column alone, an empty slice clears it.
func listField(o validator.Optional[[]string]) []string {
	switch {
	case !o.Set:
		return nil
	case o.Null || o.Value == nil:
		return []string{}
	}
	return o.Value
}

// AddAttachmentRequest records a file uploaded through POST /objects/upload.
type AddAttachmentRequest struct {
	ObjectPath string `json:"object_path" binding:"required,notblank,max=512"`
	MimeType   string `json:"mime_type" binding:"required,notblank,max=100"`
	FileName   string `json:"file_name" binding:"required,notblank,max=255"`
	FileSize   int64  `json:"file_size" binding:"gte=0"`
}

// CreateDiaryEntry writes a diary entry
// @Summary     Write a diary entry
// @Tags        diary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Pregnancy ID"
// @Param       request body CreateDiaryEntryRequest true "Diary entry"
// @Success     201 {object} map[string]models.DiaryEntry
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/diary-entries [post]
func (h *DiaryHandler) CreateDiaryEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDiaryEntryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.diaryService.CreateDiaryEntry(userID, c.Param("id"), services.DiaryEntryInput{
		Title:     req.Title,
		Content:   req.Content,
		Week:      req.Week.IntPtr(),
		Mood:      req.Mood.IntPtr(),
		Emotions:  req.Emotions,
		Milestone: req.Milestone,
		Prompts:   req.Prompts,
		Date:      req.Date.Value,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"diary_entry": entry})
}

// GetDiaryEntries lists diary entries
// @Summary     List diary entries
// @Tags        diary
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Pregnancy ID"
// @Param       from query string false "Earliest date (inclusive)"
// @Param       to   query string false "Latest date (inclusive)"
// @Success     200 {object} map[string][]models.DiaryEntry
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/diary-entries [get]
func (h *DiaryHandler) GetDiaryEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dates, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.diaryService.GetDiaryEntries(userID, c.Param("id"), dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"diary_entries": entries})
}

// GetDiaryEntry returns one diary entry with its attachments
// @Summary     Get a diary entry
// @Tags        diary
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Diary entry ID"
// @Success     200 {object} map[string]models.DiaryEntry
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Diary entry not found"
// @Router      /diary-entries/{id} [get]
func (h *DiaryHandler) GetDiaryEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.diaryService.GetDiaryEntry(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"diary_entry": entry})
}

// UpdateDiaryEntry updates a diary entry
// @Summary     Update a diary entry
// @Tags        diary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Diary entry ID"
// @Param       request body UpdateDiaryEntryRequest true "Fields to change"
// @Success     200 {object} map[string]models.DiaryEntry
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Diary entry not found"
// @Router      /diary-entries/{id} [put]
func (h *DiaryHandler) UpdateDiaryEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDiaryEntryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.diaryService.UpdateDiaryEntry(userID, c.Param("id"), services.DiaryEntryUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Week:      intField(req.Week),
		Mood:      intField(req.Mood),
		Emotions:  listField(req.Emotions),
		Milestone: stringField(req.Milestone),
		Prompts:   listField(req.Prompts),
		Date:      req.Date.Ptr(),
		ImagePath: stringField(req.ImagePath),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"diary_entry": entry})
}

// DeleteDiaryEntry deletes a diary entry and its attachments
// @Summary     Delete a diary entry
// @Tags        diary
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Diary entry ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Diary entry not found"
// @Router      /diary-entries/{id} [delete]
func (h *DiaryHandler) DeleteDiaryEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.diaryService.DeleteDiaryEntry(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Diary entry deleted successfully"})
}

// AddAttachment attaches an uploaded file to a diary entry
// @Summary     Attach a file
// @Tags        diary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Diary entry ID"
// @Param       request body AddAttachmentRequest true "Uploaded file"
// @Success     201 {object} map[string]models.DiaryAttachment
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Diary entry not found"
// @Router      /diary-entries/{id}/attachments [post]
func (h *DiaryHandler) AddAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddAttachmentRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	attachment, err := h.diaryService.AddAttachment(userID, c.Param("id"), services.AttachmentInput{
		ObjectPath: req.ObjectPath,
		MimeType:   req.MimeType,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
}

// DeleteAttachment removes an attachment from a diary entry
// @Summary     Delete an attachment
// @Tags        diary
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Attachment ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Attachment not found"
// @Router      /diary-attachments/{id} [delete]
func (h *DiaryHandler) DeleteAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.diaryService.DeleteAttachment(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
