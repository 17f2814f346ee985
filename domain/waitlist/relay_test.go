package waitlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRelayFields = config.RelayFieldsConfig{
	Email:     "entry.1665392",
	UserType:  "entry.1411414",
	CreatedOn: "entry.1939945",
}

func TestRelayBackend_PostsFormFields(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	backend := NewRelayBackend(server.Client(), server.URL, testRelayFields, time.UTC, log.NewDiscardLogger())

	created := time.Date(2024, 5, 14, 15, 5, 0, 0, time.UTC)
	stored, err := backend.Insert(context.Background(), &models.WaitlistEntry{
		Email:        "jane@example.com",
		CustomerType: "creator",
		CreatedAt:    created,
	})

	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(created.UnixMilli(), 10), stored.ID)
	assert.Equal(t, "jane@example.com", got.Get("entry.1665392"))
	assert.Equal(t, "creator", got.Get("entry.1411414"))
	assert.Equal(t, "Tue, 14 May, 2024 3:05 pm", got.Get("entry.1939945"))
	assert.Equal(t, BackendKindRelay, backend.Kind())
}

func TestRelayBackend_NonSuccessStatusIsStillAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "form closed", http.StatusBadRequest)
	}))
	defer server.Close()

	backend := NewRelayBackend(server.Client(), server.URL, testRelayFields, time.UTC, log.NewDiscardLogger())

	stored, err := backend.Insert(context.Background(), &models.WaitlistEntry{Email: "jane@example.com", CustomerType: "creator"})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRelayBackend_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	backend := NewRelayBackend(&http.Client{Timeout: time.Second}, endpoint, testRelayFields, time.UTC, log.NewDiscardLogger())

	_, err := backend.Insert(context.Background(), &models.WaitlistEntry{Email: "jane@example.com", CustomerType: "creator"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.GetErrorType(err))
	assert.Equal(t, "Something went wrong. Please try again or contact support.", apperrors.GetHumanReadableMessage(err))
}

func TestRelayBackend_RespectsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	backend := NewRelayBackend(server.Client(), server.URL, testRelayFields, time.UTC, log.NewDiscardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := backend.Insert(ctx, &models.WaitlistEntry{Email: "jane@example.com", CustomerType: "creator"})
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.GetErrorType(err))
}
