package log

import (
	"net/http"
	"time"
)

// Transport logs every outbound request with the caller's correlation id.
// The id stays in our logs; requests leave without an X-Correlation-ID header since the
// backends are third-party services.
type Transport struct {
	Base   http.RoundTripper
	Logger *Logger
}

func NewTransport(base http.RoundTripper, logger *Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := GetLoggerInstanceFromContext(r.Context(), t.Logger)

	resp, err := t.Base.RoundTrip(r)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		logger.Warn("Outbound request failed",
			"method", r.Method,
			"host", r.URL.Host,
			"path", r.URL.Path,
			"latency_ms", latency,
			"error", err,
		)
		return nil, err
	}

	logger.Info("Outbound request",
		"method", r.Method,
		"host", r.URL.Host,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", latency,
	)

	return resp, nil
}
