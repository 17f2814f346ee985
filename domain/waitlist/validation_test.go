package waitlist

import (
	"strings"
	"testing"
	"testing/quick"

	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmission_Rejects(t *testing.T) {
	cases := []struct {
		name         string
		email        string
		customerType string
		message      string
	}{
		{"empty email", "", "creator", "Email is required"},
		{"blank email", "   ", "creator", "Email is required"},
		{"empty customer type", "jane@example.com", "", "Customer type is required"},
		{"blank customer type", "jane@example.com", " \t ", "Customer type is required"},
		{"both empty", "", "", "Email is required"},
		{"missing values reported before format", "not-an-email", "", "Customer type is required"},
		{"no at sign", "jane.example.com", "creator", "Invalid email format"},
		{"no dot after at", "jane@example", "creator", "Invalid email format"},
		{"double at", "jane@@example.com", "creator", "Invalid email format"},
		{"inner whitespace", "jane doe@example.com", "creator", "Invalid email format"},
		{"inner vertical tab", "jane\vdoe@example.com", "creator", "Invalid email format"},
		{"inner no-break space", "jane\u00a0doe@example.com", "creator", "Invalid email format"},
		{"line separator in domain", "jane@exa\u2028mple.com", "creator", "Invalid email format"},
		{"ideographic space in domain", "jane@example\u3000.com", "creator", "Invalid email format"},
		{"byte order mark in local part", "ja\ufeffne@example.com", "creator", "Invalid email format"},
		{"empty local part", "@example.com", "creator", "Invalid email format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateSubmission(tc.email, tc.customerType)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
			assert.Equal(t, tc.message, apperrors.GetHumanReadableMessage(err))
		})
	}
}

func TestValidateSubmission_NormalizesAcceptedInput(t *testing.T) {
	s, err := ValidateSubmission("  Jane.DOE@Example.COM ", "  Content Creator ")
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", s.Email)
	assert.Equal(t, "Content Creator", s.CustomerType)
}

func TestValidateSubmission_RejectsAnythingWithoutAt(t *testing.T) {
	f := func(s string) bool {
		_, err := ValidateSubmission(strings.ReplaceAll(s, "@", ""), "creator")
		return err != nil
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestValidateSubmission_RejectsDomainWithoutDot(t *testing.T) {
	f := func(local, domain string) bool {
		email := "u" + strings.ReplaceAll(local, "@", "") + "@" + "d" + strings.NewReplacer("@", "", ".", "").Replace(domain)
		_, err := ValidateSubmission(email, "creator")
		return err != nil
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestValidateSubmission_AcceptsRegardlessOfCase(t *testing.T) {
	for _, email := range []string{"a@b.co", "A@B.CO", "MiXeD.Case+tag@Sub.Domain.ORG"} {
		s, err := ValidateSubmission(email, "business")
		require.NoError(t, err, email)
		assert.Equal(t, strings.ToLower(email), s.Email)
	}
}

func TestIsValidEmail_RejectsEveryInnerWhitespaceRune(t *testing.T) {
	whitespace := []rune{
		'\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680', '\u2000', '\u2005', '\u200a',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff',
	}
	for _, r := range whitespace {
		email := "jane" + string(r) + "doe@example.com"
		assert.False(t, IsValidEmail(email), "%U", r)
	}
}

func TestIsValidEmail_AcceptsNonSpaceUnicode(t *testing.T) {
	assert.True(t, IsValidEmail("jos\u00e9@exampl\u00e9.com"))
	assert.True(t, IsValidEmail("jane\u0085doe@example.com"), "NEL is not whitespace to the signup form")
}

func TestValidationDetails(t *testing.T) {
	_, err := ValidateSubmission("jane@example", "")

	details := ValidationDetails(err)
	require.Len(t, details, 2)
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "waitlist_email", details[0].Tag)
	assert.Equal(t, "Invalid email format", details[0].Message)
	assert.Equal(t, "customer_type", details[1].Field)
	assert.Equal(t, "required", details[1].Tag)
	assert.Equal(t, "Customer type is required", details[1].Message)

	assert.Nil(t, ValidationDetails(apperrors.NewConflictError("dup", nil)))
}
