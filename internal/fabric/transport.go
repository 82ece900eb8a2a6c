package fabric

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockup-finder/internal/infra/logx"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Transport wraps a base RoundTripper with request headers, metrics and
// logging. It never retries.
type Transport struct {
	Base      http.RoundTripper
	Metrics   *Metrics
	UserAgent string
	Token     string
	Clock     Clock
	// NewID generates X-Request-ID values; uuid.NewString when nil.
	NewID func() string
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) clock() Clock {
	if t.Clock != nil {
		return t.Clock
	}
	return realClock{}
}

func (t *Transport) requestID(req *http.Request) string {
	id := uuid.NewString
	if t.NewID != nil {
		id = t.NewID
	}
	if tag, ok := requestTag(req.Context()); ok && tag.Seq > 0 {
		return fmt.Sprintf("search-%d-%s", tag.Seq, id())
	}
	return id()
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	if t.UserAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.UserAgent)
	}
	if t.Token != "" && r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+t.Token)
	}
	reqID := t.requestID(r)
	r.Header.Set("X-Request-ID", reqID)

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
		zap.String("request_id", reqID),
	}
	if tag, ok := requestTag(r.Context()); ok {
		fields = append(fields, zap.Uint64("seq", tag.Seq), zap.String("term", tag.Term))
	}

	if t.Metrics != nil {
		t.Metrics.IncRequest()
	}
	start := t.clock().Now()
	resp, err := t.base().RoundTrip(r)
	elapsed := t.clock().Now().Sub(start)
	if t.Metrics != nil {
		t.Metrics.Observe(elapsed)
	}
	fields = append(fields, zap.Duration("elapsed", elapsed))
	if err != nil {
		if t.Metrics != nil {
			t.Metrics.IncFailure()
		}
		logx.Warn("http exchange failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	if t.Metrics != nil {
		t.Metrics.IncStatus(resp.StatusCode)
	}
	fields = append(fields, zap.Int("status", resp.StatusCode))
	if resp.StatusCode >= 400 {
		logx.Warn("http exchange returned error status", fields...)
	} else {
		logx.Debug("http exchange", fields...)
	}
	return resp, nil
}
