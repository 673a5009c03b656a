package sentry

import (
	"time"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"moodmix/config"
)

// Init configures the global Sentry client. An empty DSN leaves Sentry as a
// no-op, which is what local runs and tests get.
func Init(cfg config.SentryConfig) error {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Release:          cfg.Release,
		TracesSampleRate: 1.0,
	}); err != nil {
		return err
	}
	if cfg.DSN == "" {
		log.Debug("sentry DSN not set, error reporting disabled")
	}
	return nil
}

func GetSentryGin() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

func ReportError(err error) {
	sentry.CaptureException(err)
}

// Flush waits for buffered events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
