package services

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// Field is one column of a partial update. When Set is false the column is
// left untouched; when Set is true a nil Value clears it.
type Field[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a Field that writes v, which may be nil to clear.
func SetTo[T any](v *T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f Field[T]) apply(updates map[string]any, column string) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		updates[column] = nil
		return
	}
	updates[column] = *f.Value
}

// MaxPrice is the largest value the NUMERIC(10, 2) price column holds.
const MaxPrice = 99999999.99

// finite reports whether f is neither NaN nor infinite.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// round2 rounds to the two decimal places numeric columns keep.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Truncate cuts s to at most n bytes without splitting a rune. Invalid UTF-8
// is replaced first so the result is always storable.
func Truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func setIfPresent[T any](updates map[string]any, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}

// DateRange bounds a listing by date. From is inclusive, To exclusive; nil
// bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) scope(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.From != nil {
			db = db.Where(column+" >= ?", *r.From)
		}
		if r.To != nil {
			db = db.Where(column+" < ?", *r.To)
		}
		return db
	}
}

// DayRange returns the [start, end) bounds of the calendar day containing t
// in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// findOwnedPregnancy loads a pregnancy that belongs to userID. Pregnancies
// owned by other users are reported as not found.
func findOwnedPregnancy(db *gorm.DB, userID, pregnancyID string) (*models.Pregnancy, error) {
	if !models.IsValidID(pregnancyID) {
		return nil, apperrors.ErrPregnancyNotFound
	}
	var pregnancy models.Pregnancy
	err := db.Where("id = ? AND user_id = ?", pregnancyID, userID).First(&pregnancy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPregnancyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pregnancy, nil
}

// ownedByUser scopes a pregnancy-child table to rows whose pregnancy belongs
// to userID.
func ownedByUser(table, userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".pregnancy_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.Pregnancy{}).Select("id").Where("user_id = ?", userID))
	}
}

// findOwnedChild loads a pregnancy-child row by id if its pregnancy belongs to
// userID, returning notFound otherwise.
func findOwnedChild[T any](db *gorm.DB, table, userID, id string, notFound *apperrors.AppError) (*T, error) {
	if !models.IsValidID(id) {
		return nil, notFound
	}
	var row T
	err := db.Scopes(ownedByUser(table, userID)).Where(table+".id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// deleteOwnedChild hard-deletes a pregnancy-child row owned by userID.
func deleteOwnedChild[T any](db *gorm.DB, table, userID, id string, notFound *apperrors.AppError) error {
	row, err := findOwnedChild[T](db, table, userID, id, notFound)
	if err != nil {
		return err
	}
	if err := db.Delete(row).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// isUniqueViolation recognizes unique-constraint failures from both the
// postgres and sqlite drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func nullable(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nullableField(f Field[string]) Field[string] {
	if !f.Set {
		return f
	}
	return Field[string]{Set: true, Value: nullable(f.Value)}
}
