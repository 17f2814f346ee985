package waitlist

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submissionTimestampShape = regexp.MustCompile(`^(Mon|Tue|Wed|Thu|Fri|Sat|Sun), \d{1,2} [A-Z][a-z]+, \d{4} \d{1,2}:\d{2} (am|pm)$`)

func TestFormatSubmissionTimestamp(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	cases := []struct {
		at   time.Time
		loc  *time.Location
		want string
	}{
		{time.Date(2024, 5, 14, 15, 5, 0, 0, time.UTC), time.UTC, "Tue, 14 May, 2024 3:05 pm"},
		{time.Date(2024, 1, 1, 0, 7, 0, 0, time.UTC), time.UTC, "Mon, 1 January, 2024 12:07 am"},
		{time.Date(2024, 5, 14, 23, 30, 0, 0, time.UTC), lagos, "Wed, 15 May, 2024 12:30 am"},
	}

	for _, tc := range cases {
		got := FormatSubmissionTimestamp(tc.at, tc.loc)
		assert.Equal(t, tc.want, got)
		assert.Regexp(t, submissionTimestampShape, got)
	}
}

func TestFormatSubmissionTimestamp_NilLocationUsesLocal(t *testing.T) {
	at := time.Date(2024, 5, 14, 15, 5, 0, 0, time.UTC)
	assert.Equal(t, FormatSubmissionTimestamp(at, time.Local), FormatSubmissionTimestamp(at, nil))
}
