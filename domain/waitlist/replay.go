package waitlist

import (
	"context"
	"fmt"

	"github.com/luminfeed/waitlist-service/internal/log"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
)

type ReplayReport struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Failed     int `json:"failed"`
}

// ReplayFallback resubmits every record of the fallback list through service.
// Records the backend already holds come back as duplicates and are counted, not retried.
// The service should be built without a fallback store so replays are not appended again.
func ReplayFallback(ctx context.Context, lister FallbackLister, service WaitlistService, logger *log.Logger) (ReplayReport, error) {
	records, err := lister.List(ctx)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("read fallback list: %w", err)
	}

	report := ReplayReport{Total: len(records)}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		_, err := service.Submit(ctx, &SubmitWaitlistRequest{Email: record.Email, CustomerType: record.UserType})
		switch apperrors.GetErrorType(err) {
		case "":
			report.Submitted++
		case apperrors.ErrorTypeConflict:
			report.Duplicates++
		case apperrors.ErrorTypeInvalidRequest:
			report.Invalid++
			logger.Warn("Skipping invalid fallback record", "entry_id", record.EntryID, "reason", apperrors.GetHumanReadableMessage(err))
		default:
			report.Failed++
			logger.Error("Replay failed for fallback record", "entry_id", record.EntryID, "error", err)
		}
	}

	return report, nil
}
