package waitlist

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luminfeed/waitlist-service/config/router"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/pkg/circuitbreaker"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestRouter(t *testing.T, f *serviceFixture) *router.RouterService {
	t.Helper()

	rs := router.CreateRouterService(log.NewDiscardLogger(), nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	rs.MountController(NewWaitlistController(f.service, log.NewDiscardLogger(), nil))
	return rs
}

func postWaitlist(t *testing.T, rs *router.RouterService, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/waitlist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestWaitlistController_Created(t *testing.T) {
	f := newServiceFixture(t)
	f.backend.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(echoInsert)
	f.fallback.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	w, resp := postWaitlist(t, newTestRouter(t, f), `{"email":"Jane@Example.com","customer_type":"creator"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Waitlist entry created successfully", resp.Message)

	var entry WaitlistEntryResponse
	require.NoError(t, json.Unmarshal(resp.Data, &entry))
	assert.Equal(t, "jane@example.com", entry.Email)
	assert.Equal(t, "Tue, 14 May, 2024 3:05 pm", entry.Timestamp)
	assert.Equal(t, BackendKindRelay, entry.Backend)
}

func TestWaitlistController_ValidationError(t *testing.T) {
	f := newServiceFixture(t)

	w, resp := postWaitlist(t, newTestRouter(t, f), `{"email":"jane@example","customer_type":"creator"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email format", resp.Message)

	var details []apperrors.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(resp.Data, &details))
	require.Len(t, details, 1)
	assert.Equal(t, "email", details[0].Field)
}

func TestWaitlistController_MalformedBody(t *testing.T) {
	f := newServiceFixture(t)

	w, resp := postWaitlist(t, newTestRouter(t, f), `{"email":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", resp.Message)
}

func TestWaitlistController_BackendErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "duplicate",
			err:         apperrors.NewConflictError("Email address already exists in waitlist", nil),
			wantStatus:  http.StatusConflict,
			wantMessage: "Email address already exists in waitlist",
		},
		{
			name:        "not configured",
			err:         apperrors.NewServiceUnavailableError("Database connection not available. Please check configuration.", nil),
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Database connection not available. Please check configuration.",
		},
		{
			name:        "transport",
			err:         errors.New("connection refused"),
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Something went wrong. Please try again or contact support.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.backend.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w, resp := postWaitlist(t, newTestRouter(t, f), `{"email":"jane@example.com","customer_type":"creator"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Empty(t, w.Header().Get("Retry-After"))
		})
	}
}

func TestWaitlistController_OpenCircuitSetsRetryAfter(t *testing.T) {
	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{FailureThreshold: 1, RecoveryTimeout: time.Hour, SuccessThreshold: 1})
	f := newServiceFixture(t, WithCircuitBreaker(breaker))
	f.backend.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")).Times(1)

	rs := newTestRouter(t, f)
	body := `{"email":"jane@example.com","customer_type":"creator"}`

	w, _ := postWaitlist(t, rs, body)
	require.Equal(t, http.StatusBadGateway, w.Code)

	w, resp := postWaitlist(t, rs, body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Waitlist is temporarily unavailable. Please try again shortly.", resp.Message)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}
