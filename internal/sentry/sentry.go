package sentry

import (
	"fmt"
	"github.com/getsentry/sentry-go"
	"net/http"
	"time"
)

const flushTimeout = 2 * time.Second

// Init configures the global hub. An empty dsn leaves reporting disabled
// and returns a no-op flush.
func Init(dsn, environment, release string) (flush func(), err error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	}); err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// RecoverPanic reports a panic of the calling goroutine and re-panics.
// Use it as the first deferred call of a goroutine.
func RecoverPanic() {
	if err := recover(); err != nil {
		sentry.CurrentHub().Recover(err)
		sentry.Flush(flushTimeout)
		panic(err)
	}
}

// CaptureRequestPanic reports a value recovered while serving r.
func CaptureRequestPanic(recovered interface{}, r *http.Request) {
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(r)
	hub.Recover(recovered)
}
