package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
)

const maxStoreResponseBytes = 1 << 20

// RESTStoreBackend inserts into a hosted Postgres table through its PostgREST API (Supabase).
type RESTStoreBackend struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	table      string
	constraint string
	logger     *log.Logger
}

func NewRESTStoreBackend(client *http.Client, endpoint, apiKey, table, constraint string, logger *log.Logger) *RESTStoreBackend {
	return &RESTStoreBackend{
		client:     client,
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		table:      table,
		constraint: constraint,
		logger:     logger,
	}
}

type restInsertRow struct {
	Email        string `json:"email"`
	CustomerType string `json:"customer_type"`
}

type restStoredRow struct {
	ID           rowID  `json:"id"`
	Email        string `json:"email"`
	CustomerType string `json:"customer_type"`
	CreatedAt    string `json:"created_at"`
}

// restError is the PostgREST error body.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *restError) Error() string {
	return fmt.Sprintf("postgrest %s: %s", e.Code, e.Message)
}

// rowID accepts both numeric (bigserial) and string (uuid) primary keys.
type rowID string

func (id *rowID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = rowID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = rowID(n.String())
	return nil
}

func (b *RESTStoreBackend) Kind() string {
	return BackendKindStore
}

func (b *RESTStoreBackend) Insert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, b.logger)

	body, err := json.Marshal([]restInsertRow{{Email: entry.Email, CustomerType: entry.CustomerType}})
	if err != nil {
		return nil, apperrors.NewInternalServerError("unable to encode waitlist entry", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/rest/v1/"+b.table, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to build store request", "error", err)
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", b.apiKey)
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Prefer", "return=representation")

	resp, err := b.client.Do(req)
	if err != nil {
		logger.Error("Store insert failed", "error", err)
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxStoreResponseBytes))
	if err != nil {
		logger.Error("Failed to read store response", "error", err)
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, b.mapRemoteError(logger, resp.StatusCode, raw)
	}

	var rows []restStoredRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		logger.Error("Unexpected store response", "status", resp.StatusCode, "error", err)
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}

	if len(rows) == 0 {
		logger.Error("Store insert returned no rows")
		return nil, apperrors.NewUpstreamError(msgEmptyInsert, nil)
	}

	row := rows[0]
	stored := *entry
	stored.ID = string(row.ID)
	if row.Email != "" {
		stored.Email = row.Email
	}
	if row.CustomerType != "" {
		stored.CustomerType = row.CustomerType
	}
	if t, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
		stored.CreatedAt = t
	}

	return &stored, nil
}

func (b *RESTStoreBackend) mapRemoteError(logger *log.Logger, status int, raw []byte) error {
	remote := &restError{}
	if err := json.Unmarshal(raw, remote); err != nil || remote.Message == "" {
		remote.Message = http.StatusText(status)
	}

	if remote.Code == apperrors.UniqueViolationCode && b.isEmailConstraint(remote) {
		logger.Info("Duplicate waitlist email rejected by store")
		return apperrors.NewConflictError(msgDuplicateEmail, remote)
	}

	logger.Error("Store rejected insert", "status", status, "code", remote.Code, "message", remote.Message)
	return apperrors.NewUpstreamError(remote.Message, remote)
}

func (b *RESTStoreBackend) isEmailConstraint(remote *restError) bool {
	if b.constraint == "" {
		return true
	}
	return strings.Contains(remote.Message, b.constraint) || strings.Contains(remote.Details, b.constraint)
}
