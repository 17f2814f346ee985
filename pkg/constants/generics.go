package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// SubmissionTimestampFormat renders times like "Tue, 14 May, 2024 3:05 pm".
// The relay form's "created on" field and the fallback list both use it.
const SubmissionTimestampFormat = "Mon, 2 January, 2006 3:04 pm"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindow is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1
)

// Waitlist defaults
const (
	DefaultWaitlistTable               = "waitlist"
	DefaultWaitlistDuplicateConstraint = "waitlist_email_key"
	DefaultFallbackKey                 = "waitlistEmails"
	DefaultFallbackSQLitePath          = "data/waitlist_backup.db"
	DefaultWaitlistHTTPTimeout         = 10 * time.Second

	DefaultRelayEmailField     = "entry.1665392"
	DefaultRelayUserTypeField  = "entry.1358532560"
	DefaultRelayCreatedOnField = "entry.1188257748"
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
