package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func newTestBreaker(threshold int, recovery time.Duration) (*circuitBreaker, *time.Time, *[]CircuitState) {
	clock := time.Date(2024, 5, 14, 15, 5, 0, 0, time.UTC)
	transitions := []CircuitState{}

	cb := NewCircuitBreaker(&Config{
		FailureThreshold: threshold,
		RecoveryTimeout:  recovery,
		SuccessThreshold: 1,
		OnStateChange: func(_, to CircuitState) {
			transitions = append(transitions, to)
		},
	}).(*circuitBreaker)
	cb.now = func() time.Time { return clock }

	return cb, &clock, &transitions
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _, transitions := newTestBreaker(2, time.Minute)

	assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	assert.Equal(t, Closed, cb.State())

	assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	assert.Equal(t, Open, cb.State())

	called := false
	err := cb.Call(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "fn must not run while the circuit is open")
	assert.Equal(t, []CircuitState{Open}, *transitions)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb, clock, transitions := newTestBreaker(1, time.Minute)

	_ = cb.Call(func() error { return errBoom })
	assert.Equal(t, Open, cb.State())

	*clock = clock.Add(2 * time.Minute)

	assert.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, Closed, cb.State())
	assert.Equal(t, []CircuitState{Open, HalfOpen, Closed}, *transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock, _ := newTestBreaker(1, time.Minute)

	_ = cb.Call(func() error { return errBoom })
	*clock = clock.Add(2 * time.Minute)

	_ = cb.Call(func() error { return errBoom })
	assert.Equal(t, Open, cb.State())
	assert.Equal(t, clock.Add(time.Minute), cb.Metrics().NextAttempt)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _, _ := newTestBreaker(1, time.Minute)

	_ = cb.Call(func() error { return errBoom })
	cb.Reset()

	assert.Equal(t, Closed, cb.State())
	assert.Equal(t, 0, cb.Metrics().FailureCount)
}
