package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var (
	tagMessagesMu sync.RWMutex
	tagMessages   = map[string]string{
		"email": "Invalid email format",
		"min":   "Value is too short or too small",
		"max":   "Value is too long or too large",
		"len":   "Value must be exact length",
		"oneof": "Value is not one of the allowed options",
		"url":   "Invalid URL format",
	}
)

// RegisterTagMessage sets the message reported for a custom validator tag.
func RegisterTagMessage(tag, message string) {
	tagMessagesMu.Lock()
	defer tagMessagesMu.Unlock()
	tagMessages[tag] = message
}

func msgFor(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required":
		return humanizeField(field) + " is required"
	case "min":
		if fe.Param() != "" {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
	case "max":
		if fe.Param() != "" {
			return fmt.Sprintf("Must not exceed %s characters", fe.Param())
		}
	case "oneof":
		if fe.Param() != "" {
			return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
		}
	}

	tagMessagesMu.RLock()
	defer tagMessagesMu.RUnlock()
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "Invalid value"
}

// humanizeField turns "customer_type" into "Customer type".
func humanizeField(field string) string {
	words := strings.ReplaceAll(field, "_", " ")
	if words == "" {
		return "Value"
	}
	return strings.ToUpper(words[:1]) + words[1:]
}

func jsonFieldName(structType reflect.Type, fieldName string) string {
	if structType == nil {
		return fieldName
	}

	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fieldName
	}
	return name
}

// FormatValidationErrors lists one entry per failed field, named by the model's json tags.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Tag:     "type",
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
		}}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	out := make([]ValidationErrorResponse, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := jsonFieldName(structType, fe.StructField())
		out[i] = ValidationErrorResponse{
			Field:   field,
			Tag:     fe.Tag(),
			Message: msgFor(fe, field),
		}
	}
	return out
}
