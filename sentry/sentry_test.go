package sentry

import (
	"errors"
	"testing"

	"moodmix/config"
)

func TestInitWithoutDSN(t *testing.T) {
	if err := Init(config.SentryConfig{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// without a DSN these must be no-ops
	ReportError(errors.New("boom"))
	Flush()

	if GetSentryGin() == nil {
		t.Error("expected a gin middleware")
	}
}

func TestInitRejectsBadDSN(t *testing.T) {
	if err := Init(config.SentryConfig{DSN: "not a dsn"}); err == nil {
		t.Error("expected an error for an invalid DSN")
	}
}
