package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	"github.com/luminfeed/waitlist-service/pkg/circuitbreaker"
	"github.com/luminfeed/waitlist-service/pkg/constants"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	tracerName            = "github.com/luminfeed/waitlist-service/domain/waitlist"
	fallbackAppendTimeout = 2 * time.Second
)

type WaitlistService interface {
	// Submit validates and normalizes the request, writes it to the configured backend
	// and appends the accepted entry to the fallback list.
	Submit(ctx context.Context, req *SubmitWaitlistRequest) (*WaitlistEntryResponse, error)
}

type waitlistService struct {
	logger   *log.Logger
	backend  Backend
	fallback FallbackStore
	breaker  circuitbreaker.CircuitBreaker
	metrics  *submissionMetrics
	tracer   trace.Tracer
	location *time.Location
	now      func() time.Time

	// dispatchTimeout bounds the shared backend call, which runs detached from any one caller.
	dispatchTimeout time.Duration

	// inflight collapses concurrent submissions of the same normalized email into one backend call.
	inflight singleflight.Group
}

type ServiceOption func(*waitlistService)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *waitlistService) { s.now = now }
}

func WithLocation(loc *time.Location) ServiceOption {
	return func(s *waitlistService) { s.location = loc }
}

func WithCircuitBreaker(cb circuitbreaker.CircuitBreaker) ServiceOption {
	return func(s *waitlistService) { s.breaker = cb }
}

func WithDispatchTimeout(d time.Duration) ServiceOption {
	return func(s *waitlistService) {
		if d > 0 {
			s.dispatchTimeout = d
		}
	}
}

func WithMetricsRegisterer(reg prometheus.Registerer) ServiceOption {
	return func(s *waitlistService) { s.metrics = newSubmissionMetrics(reg) }
}

func NewWaitlistService(logger *log.Logger, backend Backend, fallback FallbackStore, opts ...ServiceOption) WaitlistService {
	s := &waitlistService{
		logger:   logger,
		backend:  backend,
		fallback: fallback,
		tracer:   otel.Tracer(tracerName),
		location: time.Local,
		now:      time.Now,

		dispatchTimeout: constants.DefaultWaitlistHTTPTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fallback == nil {
		s.fallback = nopFallbackStore{}
	}
	if s.breaker == nil {
		s.breaker = circuitbreaker.NewCircuitBreaker(nil)
	}
	if s.metrics == nil {
		s.metrics = newSubmissionMetrics(nil)
	}

	return s
}

func (s *waitlistService) Submit(ctx context.Context, req *SubmitWaitlistRequest) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)
	backendKind := s.backend.Kind()

	ctx, span := s.tracer.Start(ctx, "waitlist.Submit", trace.WithAttributes(
		attribute.String("waitlist.backend", backendKind),
	))
	defer span.End()

	if req == nil {
		logger.Error("Submit received empty request")
		s.metrics.observeSubmission(backendKind, outcomeInvalid)
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	submission, err := ValidateSubmission(req.Email, req.CustomerType)
	if err != nil {
		logger.Info("Waitlist submission rejected", "reason", apperrors.GetHumanReadableMessage(err))
		s.metrics.observeSubmission(backendKind, outcomeInvalid)
		span.SetStatus(codes.Error, "invalid submission")
		return nil, err
	}

	// The shared call must not inherit one caller's cancellation: followers still waiting would
	// otherwise fail with it.
	var leader bool
	results := s.inflight.DoChan(submission.Email, func() (interface{}, error) {
		leader = true
		dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dispatchTimeout)
		defer cancel()
		return s.dispatch(dispatchCtx, logger, submission)
	})

	var res singleflight.Result
	select {
	case res = <-results:
	case <-ctx.Done():
		logger.Info("Waitlist submission abandoned by caller", "error", ctx.Err())
		s.metrics.observeSubmission(backendKind, outcomeCancelled)
		span.SetStatus(codes.Error, "cancelled")
		return nil, apperrors.NewAppError(apperrors.ErrorTypeRequestTimeout, msgRequestAbandoned, ctx.Err())
	}

	shared := !leader
	if shared {
		logger.Info("Waitlist submission joined an in-flight call")
		span.SetAttributes(attribute.Bool("waitlist.shared", true))
	}

	if res.Err != nil {
		s.metrics.observeSubmission(backendKind, outcomeFor(res.Err))
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, apperrors.GetErrorType(res.Err))
		return nil, res.Err
	}

	if shared {
		s.metrics.observeSubmission(backendKind, outcomeShared)
	}

	response := *res.Val.(*WaitlistEntryResponse)
	span.SetAttributes(attribute.String("waitlist.entry_id", response.ID))
	return &response, nil
}

// dispatch performs the single backend attempt for a submission and records the fallback copy.
func (s *waitlistService) dispatch(ctx context.Context, logger *log.Logger, submission Submission) (*WaitlistEntryResponse, error) {
	backendKind := s.backend.Kind()
	entry := ToWaitlistEntryModel(submission)
	entry.CreatedAt = s.now()

	var stored *models.WaitlistEntry
	var rejection error

	cbErr := s.breaker.Call(func() error {
		res, err := s.backend.Insert(ctx, entry)
		if err != nil {
			if isRejection(err) {
				rejection = err
				return nil
			}
			return err
		}
		stored = res
		return nil
	})

	if rejection != nil {
		logger.Info("Waitlist backend rejected submission", "backend", backendKind, "reason", apperrors.GetHumanReadableMessage(rejection))
		return nil, rejection
	}

	if cbErr != nil {
		if errors.Is(cbErr, circuitbreaker.ErrCircuitOpen) {
			logger.Warn("Waitlist backend circuit open", "backend", backendKind)
			return nil, apperrors.NewServiceUnavailableError(msgCircuitOpen, cbErr)
		}

		logger.Error("Waitlist submission failed", "backend", backendKind, "error", cbErr)

		var appErr *apperrors.AppError
		if errors.As(cbErr, &appErr) {
			return nil, cbErr
		}
		return nil, apperrors.NewUpstreamError(msgTransportFailure, cbErr)
	}

	if stored == nil {
		return nil, apperrors.NewUpstreamError(msgEmptyInsert, nil)
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = entry.CreatedAt
	}

	timestamp := FormatSubmissionTimestamp(stored.CreatedAt, s.location)
	s.appendFallback(ctx, logger, ToWaitlistBackup(stored, timestamp))

	s.metrics.observeSubmission(backendKind, outcomeSuccess)
	logger.Info("Waitlist submission accepted", "backend", backendKind, "entry_id", stored.ID)

	response := ToWaitlistEntryResponse(stored, timestamp, backendKind)
	return &response, nil
}

// appendFallback never fails the submission. It outlives a cancelled request for a short while
// so an accepted entry is not lost from the list.
func (s *waitlistService) appendFallback(ctx context.Context, logger *log.Logger, record models.WaitlistBackup) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fallbackAppendTimeout)
	defer cancel()

	store := s.fallback.Kind()
	if err := s.fallback.Append(ctx, record); err != nil {
		logger.Warn("Failed to append to fallback list", "store", store, "error", err)
		s.metrics.observeFallback(store, outcomeFailed)
		return
	}
	s.metrics.observeFallback(store, outcomeSuccess)
}

// isRejection reports answers that say nothing about the backend's health.
func isRejection(err error) bool {
	switch apperrors.GetErrorType(err) {
	case apperrors.ErrorTypeConflict, apperrors.ErrorTypeInvalidRequest, apperrors.ErrorTypeServiceUnavailable:
		return true
	}
	return false
}

func outcomeFor(err error) string {
	switch apperrors.GetErrorType(err) {
	case apperrors.ErrorTypeConflict:
		return outcomeDuplicate
	case apperrors.ErrorTypeInvalidRequest:
		return outcomeInvalid
	case apperrors.ErrorTypeServiceUnavailable:
		return outcomeUnavailable
	case apperrors.ErrorTypeRequestTimeout:
		return outcomeCancelled
	}
	return outcomeFailed
}
