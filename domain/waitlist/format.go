package waitlist

import (
	"time"

	"github.com/luminfeed/waitlist-service/pkg/constants"
)

// FormatSubmissionTimestamp renders t in loc as "Tue, 14 May, 2024 3:05 pm".
func FormatSubmissionTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.SubmissionTimestampFormat)
}
