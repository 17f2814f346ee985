package waitlist

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// emailPattern wants a local part, an "@" and a domain containing a dot. Nothing more.
// The excluded whitespace is the ECMAScript set: ASCII space, \v, Unicode separators and U+FEFF.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

const (
	msgEmailRequired        = "Email is required"
	msgCustomerTypeRequired = "Customer type is required"
	msgInvalidEmail         = "Invalid email format"
)

// Submission is a validated and normalized signup.
type Submission struct {
	Email        string `json:"email" validate:"required,waitlist_email"`
	CustomerType string `json:"customer_type" validate:"required"`
}

var submissionValidator = newSubmissionValidator()

func newSubmissionValidator() *validator.Validate {
	v := validator.New()
	apperrors.RegisterTagMessage("waitlist_email", msgInvalidEmail)
	if err := v.RegisterValidation("waitlist_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsValidEmail applies the shape check only. Case is irrelevant.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateSubmission trims both values, rejects empty or malformed input and returns the normalized submission
// with a lowercased email. The error is an INVALID_REQUEST AppError wrapping validator.ValidationErrors.
func ValidateSubmission(email, customerType string) (Submission, error) {
	s := Submission{
		Email:        strings.TrimSpace(email),
		CustomerType: strings.TrimSpace(customerType),
	}

	if err := submissionValidator.Struct(&s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Submission{}, apperrors.NewInvalidRequestError(msgInvalidEmail, err)
		}
		return Submission{}, apperrors.NewInvalidRequestError(messageFor(fieldErrs), fieldErrs)
	}

	s.Email = cases.Lower(language.Und).String(s.Email)
	return s, nil
}

// messageFor reports missing values before malformed ones, email first.
func messageFor(fieldErrs validator.ValidationErrors) string {
	for _, fe := range fieldErrs {
		if fe.Tag() != "required" {
			continue
		}
		if fe.StructField() == "Email" {
			return msgEmailRequired
		}
		return msgCustomerTypeRequired
	}
	return msgInvalidEmail
}

// ValidationDetails lists per-field problems for the response body, or nil when err carries none.
func ValidationDetails(err error) []apperrors.ValidationErrorResponse {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	return apperrors.FormatValidationErrors(fieldErrs, &Submission{})
}
