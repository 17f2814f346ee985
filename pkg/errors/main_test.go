package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", NewInvalidRequestError("Email is required", nil), 400},
		{"conflict", NewConflictError("Email address already exists in waitlist", nil), 409},
		{"service unavailable", NewServiceUnavailableError("down", nil), 503},
		{"upstream", NewUpstreamError("Failed to insert row", nil), 502},
		{"wrapped app error", fmt.Errorf("submit: %w", NewConflictError("dup", nil)), 409},
		{"plain error", errors.New("boom"), 500},
		{"nil", nil, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestGetHumanReadableMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Failed to insert row", GetHumanReadableMessage(NewUpstreamError("Failed to insert row", errors.New("pq: detail"))))
	assert.Equal(t, "An unexpected error occurred", GetHumanReadableMessage(errors.New("pq: connection refused")))
}

func TestIsUniqueViolationOn(t *testing.T) {
	dup := &pgconn.PgError{
		Code:           UniqueViolationCode,
		Message:        `duplicate key value violates unique constraint "waitlist_email_key"`,
		ConstraintName: "waitlist_email_key",
	}
	other := &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "waitlist_pkey"}
	notUnique := &pgconn.PgError{Code: "23502", ConstraintName: "waitlist_email_key"}

	assert.True(t, IsUniqueViolationOn(dup, "waitlist_email_key"))
	assert.True(t, IsUniqueViolationOn(fmt.Errorf("insert: %w", dup), "waitlist_email_key"))
	assert.True(t, IsUniqueViolationOn(other, ""))
	assert.False(t, IsUniqueViolationOn(other, "waitlist_email_key"))
	assert.False(t, IsUniqueViolationOn(notUnique, "waitlist_email_key"))
	assert.False(t, IsUniqueViolationOn(errors.New("duplicate key"), "waitlist_email_key"))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(&pgconn.PgError{Code: UniqueViolationCode}))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: waitlist.email")))
	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, IsDuplicateKeyError(nil))
}

type signupForm struct {
	Email        string `json:"email" validate:"required,signup_domain"`
	CustomerType string `json:"customer_type,omitempty" validate:"required"`
	Plan         string `json:"plan" validate:"oneof=free pro"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("signup_domain", func(fl validator.FieldLevel) bool { return false }))
	RegisterTagMessage("signup_domain", "Email domain is not accepted")

	err := v.Struct(&signupForm{Email: "jane@example.com", Plan: "enterprise"})
	details := FormatValidationErrors(fmt.Errorf("bind: %w", err), &signupForm{})

	assert.Equal(t, []ValidationErrorResponse{
		{Field: "email", Tag: "signup_domain", Message: "Email domain is not accepted"},
		{Field: "customer_type", Tag: "required", Message: "Customer type is required"},
		{Field: "plan", Tag: "oneof", Message: "Must be one of: free, pro"},
	}, details)
}

func TestFormatValidationErrors_TypeMismatchAndOthers(t *testing.T) {
	var form signupForm
	err := json.Unmarshal([]byte(`{"email":42}`), &form)

	details := FormatValidationErrors(err, &form)
	require.Len(t, details, 1)
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "type", details[0].Tag)

	assert.Nil(t, FormatValidationErrors(errors.New("boom"), &form))
	assert.Nil(t, FormatValidationErrors(nil, &form))
}
