// Package mood turns a free-text mood description into a MoodRecord, asking a
// text generation model first and falling back to keyword heuristics.
package mood

import (
	"context"

	log "github.com/sirupsen/logrus"

	"moodmix/models"
	"moodmix/sentryhelper"
)

// Generator sends a prompt to a text generation model and returns its reply.
type Generator interface {
	GenerateRaw(ctx context.Context, prompt string) (string, error)
}

type Analyzer struct {
	generator Generator
}

// NewAnalyzer builds an analyzer. A nil generator means every request takes
// the heuristic path.
func NewAnalyzer(generator Generator) *Analyzer {
	return &Analyzer{generator: generator}
}

// Analyze always returns a valid record: any generator or decode failure is
// absorbed by Heuristic.
func (a *Analyzer) Analyze(ctx context.Context, text string) models.MoodRecord {
	logger := log.WithFields(log.Fields{
		"module": "mood",
		"method": "Analyze",
	})

	if a.generator == nil {
		logger.Debug("no generator configured, using keyword heuristics")
		return Heuristic(text)
	}

	reply, err := a.generator.GenerateRaw(ctx, buildPrompt(text))
	if err != nil {
		logger.Warnf("mood inference failed, falling back to heuristics: %v", err)
		sentryhelper.CaptureException(ctx, err)
		return Heuristic(text)
	}

	record, err := ParseReply(reply)
	if err != nil {
		logger.Warnf("unusable mood inference reply, falling back to heuristics: %v", err)
		sentryhelper.CaptureException(ctx, err)
		return Heuristic(text)
	}

	logger.Debugf("inferred mood %s (%.2f)", record.MoodType, record.Intensity)
	sentryhelper.AddBreadcrumb(ctx, "mood", "inferred "+record.MoodType)
	return record
}
