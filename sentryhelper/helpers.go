// Package sentryhelper provides utilities for Sentry transaction and scope management.
// It keeps breadcrumbs and context isolated per playlist action.
package sentryhelper

import (
	"context"
	"fmt"

	sentry "github.com/getsentry/sentry-go"
)

type contextKey string

const hubContextKey contextKey = "sentry_hub"

// StartActionTransaction clones the current hub, stores it in the context and
// starts a transaction named after the action ("submit", "regenerate").
func StartActionTransaction(ctx context.Context, action string, sessionID string) (context.Context, *sentry.Span) {
	hub := HubFromContext(ctx).Clone()
	ctx = context.WithValue(ctx, hubContextKey, hub)

	transaction := sentry.StartTransaction(ctx, fmt.Sprintf("moodmix.%s", action),
		sentry.WithOpName("moodmix.action"),
		sentry.WithTransactionSource(sentry.SourceTask),
	)
	transaction.SetTag("action", action)
	transaction.SetTag("session_id", sessionID)

	hub.Scope().SetSpan(transaction)

	return transaction.Context(), transaction
}

// HubFromContext retrieves the cloned hub from context, then the hub the gin
// middleware attached, then CurrentHub.
func HubFromContext(ctx context.Context) *sentry.Hub {
	if ctx == nil {
		return sentry.CurrentHub()
	}
	if hub, ok := ctx.Value(hubContextKey).(*sentry.Hub); ok && hub != nil {
		return hub
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

func AddBreadcrumb(ctx context.Context, category string, message string) {
	HubFromContext(ctx).AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Level:    sentry.LevelInfo,
	}, nil)
}

// CaptureException captures an exception on the hub in context.
func CaptureException(ctx context.Context, err error) *sentry.EventID {
	return HubFromContext(ctx).CaptureException(err)
}

// CaptureMessage captures a message on the hub in context.
// Use this for warnings that aren't errors, like a degraded fallback.
func CaptureMessage(ctx context.Context, message string) *sentry.EventID {
	return HubFromContext(ctx).CaptureMessage(message)
}

// StartSpan starts a child span attached to the transaction in context, or an
// orphaned span when there is none.
func StartSpan(ctx context.Context, operation string, description string) *sentry.Span {
	span := sentry.StartSpan(ctx, operation)
	span.Description = description
	return span
}
