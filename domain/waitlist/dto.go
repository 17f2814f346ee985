package waitlist

import (
	"github.com/luminfeed/waitlist-service/internal/models"
	"github.com/luminfeed/waitlist-service/pkg/constants"
)

// SubmitWaitlistRequest is the body of POST /v1/waitlist.
// Both fields are checked by ValidateSubmission after trimming, so there are no binding tags here.
type SubmitWaitlistRequest struct {
	Email        string `json:"email"`
	CustomerType string `json:"customer_type"`
}

type WaitlistEntryResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	CustomerType string `json:"customer_type"`
	CreatedAt    string `json:"created_at"`
	Timestamp    string `json:"timestamp"`
	Backend      string `json:"backend"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(s Submission) *models.WaitlistEntry {
	return &models.WaitlistEntry{
		Email:        s.Email,
		CustomerType: s.CustomerType,
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry, timestamp, backend string) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:           entry.ID,
		Email:        entry.Email,
		CustomerType: entry.CustomerType,
		CreatedAt:    entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
		Timestamp:    timestamp,
		Backend:      backend,
	}
}

func ToWaitlistBackup(entry *models.WaitlistEntry, timestamp string) models.WaitlistBackup {
	return models.WaitlistBackup{
		EntryID:   entry.ID,
		Email:     entry.Email,
		UserType:  entry.CustomerType,
		Timestamp: timestamp,
	}
}
