package sentryhelper

import (
	"context"
	"errors"
	"testing"

	sentry "github.com/getsentry/sentry-go"
)

func TestHubFromContextFallsBackToCurrentHub(t *testing.T) {
	if got := HubFromContext(context.Background()); got != sentry.CurrentHub() {
		t.Error("expected CurrentHub for a context without a hub")
	}
}

func TestStartActionTransactionIsolatesHub(t *testing.T) {
	ctx, transaction := StartActionTransaction(context.Background(), "submit", "session-1")
	defer transaction.Finish()

	hub := HubFromContext(ctx)
	if hub == sentry.CurrentHub() {
		t.Fatal("expected a cloned hub in the transaction context")
	}
	if transaction.Tags["action"] != "submit" {
		t.Errorf("action tag = %q", transaction.Tags["action"])
	}
	if transaction.Tags["session_id"] != "session-1" {
		t.Errorf("session_id tag = %q", transaction.Tags["session_id"])
	}

	// No client is bound in tests, so these must be safe no-ops.
	AddBreadcrumb(ctx, "mood", "analyzed")
	CaptureException(ctx, errors.New("boom"))
	CaptureMessage(ctx, "degraded")

	span := StartSpan(ctx, "spotify.search", "Search Spotify API")
	span.Finish()
	if span.Description != "Search Spotify API" {
		t.Errorf("span description = %q", span.Description)
	}
}
