// Package validator provides custom validation functions for Gin's binding
// engine and the coercion types used by request payloads.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine and
// makes validation errors report JSON field names.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("shopping_priority", validateShoppingPriority)
		_ = v.RegisterValidation("symptom_severity", validateSymptomSeverity)
		_ = v.RegisterValidation("post_category", validatePostCategory)
		_ = v.RegisterValidation("birth_place", validateBirthPlace)
		_ = v.RegisterValidation("notblank", validateNotBlank)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func validateShoppingPriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "high", "medium", "low":
		return true
	}
	return false
}

func validateSymptomSeverity(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "mild", "moderate", "severe":
		return true
	}
	return false
}

// PostCategories are the community board sections.
var PostCategories = []string{"general", "pregnancy", "health", "nutrition", "birth", "baby", "support"}

func validatePostCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, c := range PostCategories {
		if c == value {
			return true
		}
	}
	return false
}

func validateBirthPlace(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "hospital", "birth_center", "home":
		return true
	}
	return false
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
