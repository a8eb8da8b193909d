package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/logger"
	"nurture/internal/middleware"
	"nurture/internal/services"
	"nurture/internal/validator"
)

// ErrorDetail is the body of an error response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse is the envelope for every error the API returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// SuccessResponse acknowledges an operation that has no entity to return.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := middleware.UserID(c)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// bindJSON decodes the request body into req and runs the struct tag and
// SelfValidator checks, reporting every offending field at once.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		fields := validator.Translate(err)
		if fields == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Request body must be valid JSON")
		}
		if sv, ok := req.(validator.SelfValidator); ok {
			sv.Validate(fields)
		}
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	if sv, ok := req.(validator.SelfValidator); ok {
		fields := validator.FieldErrors{}
		sv.Validate(fields)
		if len(fields) > 0 {
			return apperrors.WithFields(apperrors.ErrValidation, fields)
		}
	}
	return nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, message and fields.
// Otherwise it logs the unexpected error and returns a generic internal
// server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.RequestID(c),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

// dateField turns a coerced date from an update payload into a partial
// update column. Absent leaves the column alone, null clears it.
func dateField(d validator.Date) services.Field[time.Time] {
	if !d.Set || d.Invalid {
		return services.Field[time.Time]{}
	}
	return services.SetTo(d.Ptr())
}

// intField is dateField for integer-valued numbers.
func intField(n validator.Number) services.Field[int] {
	if !n.Set || n.Invalid {
		return services.Field[int]{}
	}
	return services.SetTo(n.IntPtr())
}

func floatField(n validator.Number) services.Field[float64] {
	if !n.Set || n.Invalid {
		return services.Field[float64]{}
	}
	return services.SetTo(n.Ptr())
}

// stringField maps an optional string to a partial update column; blank
// strings clear it like null does.
func stringField(o validator.Optional[string]) services.Field[string] {
	if !o.Set {
		return services.Field[string]{}
	}
	return services.SetTo(validator.NullableString(o.Ptr()))
}

// parseDateRange reads the optional from/to query parameters. A calendar
// date in to includes that whole day.
func parseDateRange(c *gin.Context) (services.DateRange, error) {
	var r services.DateRange
	fields := validator.FieldErrors{}

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := validator.ParseDate(raw)
		if err != nil {
			fields.Add("from", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		} else {
			r.From = &t
		}
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := validator.ParseDate(raw)
		if err != nil {
			fields.Add("to", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		} else {
			if len(raw) == len(validator.DateLayout) {
				t = t.AddDate(0, 0, 1)
			}
			r.To = &t
		}
	}

	if len(fields) > 0 {
		return r, apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	return r, nil
}
