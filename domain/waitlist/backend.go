package waitlist

import (
	"context"

	"github.com/luminfeed/waitlist-service/internal/models"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
)

//go:generate mockgen -source=backend.go -destination=mock_backend_test.go -package=waitlist

const (
	BackendKindRelay = "relay"
	BackendKindStore = "store"
)

const (
	msgBackendUnavailable = "Database connection not available. Please check configuration."
	msgTransportFailure   = "Something went wrong. Please try again or contact support."
	msgDuplicateEmail     = "Email address already exists in waitlist"
	msgEmptyInsert        = "Failed to insert row"
	msgCircuitOpen        = "Waitlist is temporarily unavailable. Please try again shortly."
	msgRequestAbandoned   = "Request was cancelled before the submission completed."
)

// Backend writes a normalized entry to the remote system and returns the stored record.
// Implementations fill in ID and CreatedAt when the remote side assigns them.
type Backend interface {
	Kind() string
	Insert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
}

// Pinger is implemented by backends whose connectivity can be checked without writing.
type Pinger interface {
	Ping(ctx context.Context) error
}

// unavailableBackend stands in for a backend that could not be initialised.
// The cause was logged once at startup; every submission answers 503.
type unavailableBackend struct {
	kind  string
	cause error
}

func newUnavailableBackend(kind string, cause error) Backend {
	return &unavailableBackend{kind: kind, cause: cause}
}

func (b *unavailableBackend) Kind() string {
	return b.kind
}

func (b *unavailableBackend) Insert(context.Context, *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	return nil, apperrors.NewServiceUnavailableError(msgBackendUnavailable, b.cause)
}

func (b *unavailableBackend) Ping(context.Context) error {
	return b.cause
}
