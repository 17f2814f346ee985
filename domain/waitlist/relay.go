package waitlist

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
)

// RelayBackend posts signups to a form-collection endpoint (Google Forms).
// The endpoint's answer is not interpreted: any completed round trip is a success.
type RelayBackend struct {
	client   *http.Client
	endpoint string
	fields   config.RelayFieldsConfig
	location *time.Location
	logger   *log.Logger
}

func NewRelayBackend(client *http.Client, endpoint string, fields config.RelayFieldsConfig, location *time.Location, logger *log.Logger) *RelayBackend {
	return &RelayBackend{
		client:   client,
		endpoint: endpoint,
		fields:   fields,
		location: location,
		logger:   logger,
	}
}

func (b *RelayBackend) Kind() string {
	return BackendKindRelay
}

func (b *RelayBackend) Insert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, b.logger)

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	form := url.Values{}
	form.Set(b.fields.Email, entry.Email)
	form.Set(b.fields.UserType, entry.CustomerType)
	form.Set(b.fields.CreatedOn, FormatSubmissionTimestamp(entry.CreatedAt, b.location))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		logger.Error("Failed to build relay request", "error", err)
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		logger.Error("Relay submission failed", "error", err)
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Relay endpoint answered with a non-success status", "status", resp.StatusCode)
	}

	entry.ID = strconv.FormatInt(entry.CreatedAt.UnixMilli(), 10)
	return entry, nil
}
